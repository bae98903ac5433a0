package draw

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Color is a 24-bit RGB color. The zero value is transparent; use RGB to
// build an opaque color, black included.
type Color uint32

const opaque Color = 1 << 24

// Transparent leaves the underlying cell untouched.
const Transparent Color = 0

// RGB returns the opaque color for a 0xRRGGBB value.
func RGB(hex uint32) Color {
	return Color(hex&0xffffff) | opaque
}

// Opaque reports whether c paints anything.
func (c Color) Opaque() bool {
	return c&opaque != 0
}

// Hex returns the 0xRRGGBB value.
func (c Color) Hex() uint32 {
	return uint32(c & 0xffffff)
}

func (c Color) rgb() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Scale multiplies each channel by f, clamped to [0,1].
func (c Color) Scale(f float64) Color {
	if !c.Opaque() {
		return c
	}
	f = max(0, min(1, f))
	r, g, b := c.rgb()
	return RGB(uint32(float64(r)*f)<<16 | uint32(float64(g)*f)<<8 | uint32(float64(b)*f))
}

// Mix blends c toward o by t in [0,1].
func (c Color) Mix(o Color, t float64) Color {
	t = max(0, min(1, t))
	r1, g1, b1 := c.rgb()
	r2, g2, b2 := o.rgb()
	lerp := func(a, b uint8) uint32 {
		return uint32(float64(a) + (float64(b)-float64(a))*t)
	}
	return RGB(lerp(r1, r2)<<16 | lerp(g1, g2)<<8 | lerp(b1, b2))
}

// Shade characters from lightest to darkest.
var Shades = []rune{' ', '░', '▒', '▓', '█'}

// ShadeLevel returns a shade character for a value between 0.0 (empty) and 1.0 (solid).
func ShadeLevel(intensity float64) rune {
	if intensity <= 0 {
		return Shades[0]
	}
	if intensity >= 1 {
		return Shades[len(Shades)-1]
	}
	idx := int(intensity * float64(len(Shades)-1))
	return Shades[idx]
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
