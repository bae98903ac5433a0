package draw

import (
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Canvas is a color drawing buffer with 2x vertical resolution using
// half-block characters. Drawing calls take logical coordinates which are
// scaled to terminal pixels.
//
// Render only writes cells that changed since the previous Render; call
// ForceRedraw after clearing the terminal.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x]
	shown          []Color // Pixels as last rendered; nil until the first render
	background     Color   // Color Clear fills with

	logicalWidth  float64
	logicalHeight float64 // in sub-pixels
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// 0-based terminal offsets for centering the render area.
	offsetCol int
	offsetRow int

	renderBuf       strings.Builder
	numBuf          [20]byte
	scaledBuf       []Point
	intersectionBuf []float64
	polygonBuf      []Point
}

// NewCanvas creates a canvas with a 1:1 mapping to the terminal.
func NewCanvas(width, height int) *Canvas {
	return NewScaledCanvas(width, height, float64(width), float64(height*2))
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	subPixelHeight := termHeight * 2
	return &Canvas{
		termWidth:      termWidth,
		termHeight:     termHeight,
		subPixelHeight: subPixelHeight,
		pixels:         make([]Color, subPixelHeight*termWidth),
		logicalWidth:   logicalWidth,
		logicalHeight:  logicalHeight,
		scaleX:         float64(termWidth) / logicalWidth,
		scaleY:         float64(subPixelHeight) / logicalHeight,
	}
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.pixels = make([]Color, subPixelHeight*termWidth)
		c.shown = nil
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.shown = nil
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// SetBackground sets the color Clear fills the canvas with.
func (c *Canvas) SetBackground(col Color) {
	c.background = col
}

// Clear resets all pixels to the background.
func (c *Canvas) Clear() {
	if c.background == Transparent {
		clear(c.pixels)
		return
	}
	for i := range c.pixels {
		c.pixels[i] = c.background
	}
}

// ForceRedraw makes the next Render write every non-empty cell.
func (c *Canvas) ForceRedraw() {
	c.shown = nil
}

// MarkDirty forces the cells of one terminal row span (1-based, inclusive)
// to be rewritten on the next Render, e.g. after text was drawn over them.
func (c *Canvas) MarkDirty(col, row, width int) {
	if c.shown == nil || row < 1 || row > c.termHeight {
		return
	}
	for x := max(col-1, 0); x < min(col-1+width, c.termWidth); x++ {
		top := (row-1)*2*c.termWidth + x
		c.shown[top] = ^Color(0)
	}
}

// At returns the pixel at terminal sub-pixel coordinates.
func (c *Canvas) At(x, y int) Color {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return Transparent
	}
	return c.pixels[y*c.termWidth+x]
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, col Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

func (c *Canvas) toPixel(p Point) (int, int) {
	return int(math.Round(p.X * c.scaleX)), int(math.Round(p.Y * c.scaleY))
}

// Set sets a pixel at logical coordinates.
func (c *Canvas) Set(x, y float64, col Color) {
	if !col.Opaque() {
		return
	}
	px, py := c.toPixel(Point{x, y})
	c.setPixel(px, py, col)
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
func (c *Canvas) DrawLine(p1, p2 Point, col Color) {
	if !col.Opaque() {
		return
	}
	x1, y1 := c.toPixel(p1)
	x2, y2 := c.toPixel(p2)

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1, col)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws a polygon on the canvas.
// If filled is true, the interior is filled using scanline algorithm.
func (c *Canvas) DrawPolygon(points []Point, col Color, filled bool) {
	if len(points) < 3 || !col.Opaque() {
		return
	}

	if filled {
		c.fillPolygon(points, col)
	}

	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n], col)
	}
}

// fillPolygon fills a polygon in pixel space.
func (c *Canvas) fillPolygon(points []Point, col Color) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]

	for i, p := range points {
		scaled[i] = Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	yStart := max(int(math.Floor(minY)), 0)
	yEnd := min(int(math.Ceil(maxY)), c.subPixelHeight-1)

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]

		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}

		c.intersectionBuf = intersections
		slices.Sort(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i]))
			xEnd := int(math.Floor(intersections[i+1]))
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y, col)
			}
		}
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1400 bytes stays under a typical MTU for smooth SSH transmission.
const maxChunkSize = 1400

// Render writes the changed cells to w using half-block characters with
// 24-bit foreground and background colors.
func (c *Canvas) Render(w io.Writer) error {
	c.renderBuf.Reset()
	full := c.shown == nil
	if full {
		c.shown = make([]Color, len(c.pixels))
	}

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			bottom := c.pixels[bottomOffset+col]

			if full {
				if !top.Opaque() && !bottom.Opaque() {
					continue
				}
			} else if c.shown[topOffset+col] == top && c.shown[bottomOffset+col] == bottom {
				continue
			}
			c.shown[topOffset+col] = top
			c.shown[bottomOffset+col] = bottom

			c.moveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			c.writeCell(top, bottom)
		}
	}
	if c.renderBuf.Len() > 0 {
		c.renderBuf.WriteString("\033[0m")
	}

	return writeChunked(w, c.renderBuf.String())
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

func (c *Canvas) writeColor(sgr string, col Color) {
	r, g, b := col.rgb()
	c.renderBuf.WriteString("\033[")
	c.renderBuf.WriteString(sgr)
	c.renderBuf.WriteString(";2;")
	c.renderBuf.Write(strconv.AppendUint(c.numBuf[:0], uint64(r), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendUint(c.numBuf[:0], uint64(g), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendUint(c.numBuf[:0], uint64(b), 10))
	c.renderBuf.WriteByte('m')
}

func (c *Canvas) writeCell(top, bottom Color) {
	switch {
	case !top.Opaque() && !bottom.Opaque():
		c.renderBuf.WriteString("\033[0m ")
	case top == bottom:
		c.writeColor("38", top)
		c.renderBuf.WriteString("\033[49m")
		c.renderBuf.WriteRune(BlockFull)
	case !bottom.Opaque():
		c.writeColor("38", top)
		c.renderBuf.WriteString("\033[49m")
		c.renderBuf.WriteRune(BlockUpperHalf)
	case !top.Opaque():
		c.writeColor("38", bottom)
		c.renderBuf.WriteString("\033[49m")
		c.renderBuf.WriteRune(BlockLowerHalf)
	default:
		c.writeColor("38", top)
		c.writeColor("48", bottom)
		c.renderBuf.WriteRune(BlockUpperHalf)
	}
}

func writeChunked(w io.Writer, data string) error {
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return nil
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
func (c *Canvas) RenderBorder(w io.Writer) error {
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder
	line := strings.Repeat("─", c.termWidth)
	at := func(col, row int, s string) {
		buf.WriteString("\033[" + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "H" + s)
	}

	if hasV {
		if hasH {
			at(left, top, "┌"+line+"┐")
			at(left, bottom, "└"+line+"┘")
		} else {
			at(c.offsetCol+1, top, line)
			at(c.offsetCol+1, bottom, line)
		}
	}

	if hasH {
		startRow, endRow := top+1, bottom
		if !hasV {
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			at(left, row, "│")
			at(right, row, "│")
		}
	}

	_, err := io.WriteString(w, buf.String())
	return err
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to a 1-based terminal position.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px, py := c.toPixel(Point{x, y})
	return px + 1, py/2 + 1
}

// BorrowPoints returns a reusable slice of Points with the given length.
// The returned slice is only valid until the next call to BorrowPoints.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	return c.polygonBuf[:n]
}
