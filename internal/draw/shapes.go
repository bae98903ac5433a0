package draw

import "math"

// FillCircle fills a circle given in logical coordinates. With unequal
// horizontal and vertical scale it becomes an ellipse in pixel space, which
// keeps it round on screen.
func (c *Canvas) FillCircle(center Point, r float64, col Color) {
	if r <= 0 || !col.Opaque() {
		return
	}
	cx, cy := center.X*c.scaleX, center.Y*c.scaleY
	rx, ry := r*c.scaleX, r*c.scaleY

	yStart := max(int(math.Floor(cy-ry)), 0)
	yEnd := min(int(math.Ceil(cy+ry)), c.subPixelHeight-1)
	for y := yStart; y <= yEnd; y++ {
		dy := (float64(y) + 0.5 - cy) / ry
		if dy < -1 || dy > 1 {
			continue
		}
		half := rx * math.Sqrt(1-dy*dy)
		xStart := max(int(math.Ceil(cx-half-0.5)), 0)
		xEnd := min(int(math.Floor(cx+half-0.5)), c.termWidth-1)
		for x := xStart; x <= xEnd; x++ {
			c.pixels[y*c.termWidth+x] = col
		}
	}
	if yStart <= yEnd {
		c.setPixel(int(math.Round(cx)), int(math.Round(cy)), col)
	}
}

// DrawArc draws the part of a circle between two angles (radians, counter
// clockwise from +X with Y pointing down on screen) as a polyline.
func (c *Canvas) DrawArc(center Point, r, from, to float64, col Color) {
	if r <= 0 || !col.Opaque() {
		return
	}
	// One segment per ~2 pixels of arc length.
	pixelR := r * max(c.scaleX, c.scaleY)
	steps := max(int(math.Abs(to-from)*pixelR/2), 4)

	prev := arcPoint(center, r, from)
	for i := 1; i <= steps; i++ {
		p := arcPoint(center, r, from+(to-from)*float64(i)/float64(steps))
		c.DrawLine(prev, p, col)
		prev = p
	}
}

func arcPoint(center Point, r, a float64) Point {
	return Point{X: center.X + r*math.Cos(a), Y: center.Y - r*math.Sin(a)}
}

// RegularPolygon returns the vertices of a regular polygon, rotated by rot
// radians. The slice is borrowed from the canvas.
func (c *Canvas) RegularPolygon(center Point, r float64, sides int, rot float64) []Point {
	pts := c.BorrowPoints(sides)
	for i := range pts {
		pts[i] = arcPoint(center, r, rot+2*math.Pi*float64(i)/float64(sides))
	}
	return pts
}

// Transform rotates the points by rot radians around the origin, scales
// them and moves them to center, in place.
func Transform(pts []Point, center Point, scale, rot float64) {
	sin, cos := math.Sincos(rot)
	for i, p := range pts {
		x := (p.X*cos - p.Y*sin) * scale
		y := (p.X*sin + p.Y*cos) * scale
		pts[i] = Point{X: center.X + x, Y: center.Y + y}
	}
}
