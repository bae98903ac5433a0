package screen

import (
	"math"

	"github.com/tomz197/aviator/internal/draw"
	"github.com/tomz197/aviator/internal/loop"
	"github.com/tomz197/aviator/internal/object"
	"github.com/tomz197/aviator/internal/physics"
)

// Visible world window. World y points up; the sea surface crosses the
// origin and the plane flies around y=100.
const (
	viewLeft   = -300.0
	viewRight  = 300.0
	viewTop    = 260.0
	viewBottom = -60.0

	viewWidth  = viewRight - viewLeft
	viewHeight = viewTop - viewBottom
)

var (
	colorSky       = draw.RGB(0xf7d9aa)
	colorFlash     = draw.RGB(0xffffff)
	colorSea       = draw.RGB(object.ColorBlue)
	colorRipple    = draw.RGB(0x9fdcd8)
	colorCloud     = draw.RGB(object.ColorWhite)
	colorFuselage  = draw.RGB(object.ColorRed)
	colorWing      = draw.RGB(object.ColorWhite)
	colorPropeller = draw.RGB(object.ColorBrown)
	colorPilot     = draw.RGB(object.ColorPink)
)

// Base radius of each entity kind before its scale is applied.
var entityRadius = map[object.Kind]float64{
	object.KindCoin:     5,
	object.KindEnemy:    8,
	object.KindParticle: 3,
}

// ambientRest is the resting light level; flashes above it brighten the sky.
const ambientRest = 0.5

// project maps a world position to canvas logical coordinates.
func project(p physics.Vec2) draw.Point {
	return draw.Point{X: p.X - viewLeft, Y: viewTop - p.Y}
}

// drawWorld paints the sky, clouds, sea, entities and plane of one frame.
func drawWorld(c *draw.Canvas, f *loop.Frame) {
	flash := max(f.Ambient-ambientRest, 0) / (2 - ambientRest)
	c.SetBackground(colorSky.Mix(colorFlash, flash))
	c.Clear()

	drawClouds(c, f)
	drawSea(c, f)

	for _, e := range f.Coins {
		drawEntity(c, &e)
	}
	for _, e := range f.Enemies {
		drawEntity(c, &e)
	}
	drawPlane(c, &f.Plane)
	for _, e := range f.Particles {
		drawEntity(c, &e)
	}
}

func drawSea(c *draw.Canvas, f *loop.Frame) {
	center := project(physics.Vec2{X: 0, Y: -f.SeaRadius})
	c.FillCircle(center, f.SeaRadius, colorSea)

	// Ripples ride on the surface and turn with the sea.
	const ripples = 96
	for i := 0; i < ripples; i++ {
		a := f.SeaRotation + 2*math.Pi*float64(i)/ripples
		depth := 4 + 3*float64(i%3)
		p := physics.RingPosition(a, f.SeaRadius-depth, f.SeaRadius)
		if p.Y < viewBottom {
			continue
		}
		lp := project(p)
		c.DrawLine(lp, draw.Point{X: lp.X + 6, Y: lp.Y}, colorRipple)
	}
}

func drawClouds(c *draw.Canvas, f *loop.Frame) {
	const clouds = 20
	for i := 0; i < clouds; i++ {
		// The sky turns slower than the sea for parallax.
		a := physics.WrapAngle(f.SkyRotation*0.5 + 2*math.Pi*float64(i)/clouds)
		distance := f.SeaRadius + 150 + float64(i%4)*40
		p := physics.RingPosition(a, distance, f.SeaRadius)
		if p.Y < viewBottom || p.X < viewLeft-40 || p.X > viewRight+40 {
			continue
		}
		lp := project(p)
		size := 8 + float64(i%3)*3
		c.FillCircle(lp, size, colorCloud)
		c.FillCircle(draw.Point{X: lp.X + size, Y: lp.Y + 2}, size*0.8, colorCloud)
		c.FillCircle(draw.Point{X: lp.X - size, Y: lp.Y + 3}, size*0.7, colorCloud)
	}
}

func drawEntity(c *draw.Canvas, e *loop.FrameEntity) {
	r := entityRadius[e.Kind] * e.Scale
	if r <= 0 {
		return
	}
	sides := 4
	if s, ok := e.Handle.(*sprite); ok {
		sides = s.sides
	}
	pts := c.RegularPolygon(project(e.Pos), r, sides, e.Rot.Z+e.Rot.X)
	c.DrawPolygon(pts, draw.RGB(e.Color), true)
}

// Plane parts in world units relative to the plane center, nose toward +X.
var (
	planeFuselage = []draw.Point{{X: -12, Y: -5}, {X: 8, Y: -6}, {X: 8, Y: 7}, {X: -12, Y: 5}}
	planeEngine   = []draw.Point{{X: 8, Y: -5}, {X: 13, Y: -5}, {X: 13, Y: 6}, {X: 8, Y: 6}}
	planeTail     = []draw.Point{{X: -16, Y: 3}, {X: -11, Y: 3}, {X: -11, Y: 12}, {X: -16, Y: 13}}
	planeWing     = []draw.Point{{X: -4, Y: -1}, {X: 6, Y: -1}, {X: 6, Y: 1}, {X: -4, Y: 1}}
	planePilot    = []draw.Point{{X: -4, Y: 7}, {X: 0, Y: 7}, {X: 0, Y: 11}, {X: -4, Y: 11}}
)

func drawPlane(c *draw.Canvas, p *object.Plane) {
	center := project(p.Pos)
	part := func(shape []draw.Point, col draw.Color) {
		pts := c.BorrowPoints(len(shape))
		for i, s := range shape {
			pts[i] = draw.Point{X: s.X, Y: -s.Y}
		}
		draw.Transform(pts, center, 1, -p.Rot.Z)
		c.DrawPolygon(pts, col, true)
	}
	part(planeTail, colorFuselage)
	part(planeFuselage, colorFuselage)
	part(planePilot, colorPilot)
	part(planeEngine, colorWing)
	part(planeWing, colorWing)

	// Spinning blade seen from the side: its length follows the angle.
	blade := 12 * math.Cos(p.Propeller)
	ends := []draw.Point{{X: 14, Y: -blade}, {X: 14, Y: blade}}
	draw.Transform(ends, center, 1, -p.Rot.Z)
	c.DrawLine(ends[0], ends[1], colorPropeller)
}
