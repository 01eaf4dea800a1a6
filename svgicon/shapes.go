package svgicon

import (
	"math"
)

// Reduction of the basic shapes (rect, circle, ellipse)
// and of the elliptical arcs to lines and cubic curves.

// maxArcSpan is the largest angle, in radians, covered by one
// of the cubic curves approximating an elliptical arc.
const maxArcSpan = math.Pi / 8

// addRect adds a closed rectangle.
func (p *Path) addRect(minX, minY, maxX, maxY float64) {
	p.Start(pt(minX, minY))
	p.Line(pt(maxX, minY))
	p.Line(pt(maxX, maxY))
	p.Line(pt(minX, maxY))
	p.Stop(true)
}

// addRoundRect adds a closed rectangle whose corners are quarters
// of the ellipse of radii rx and ry, clamped to half the sides.
func (p *Path) addRoundRect(minX, minY, maxX, maxY, rx, ry float64) {
	if rx <= 0 || ry <= 0 {
		p.addRect(minX, minY, maxX, maxY)
		return
	}
	rx = math.Min(rx, (maxX-minX)/2)
	ry = math.Min(ry, (maxY-minY)/2)
	q := &matrixAdder{M: Identity, path: p}
	corner := func(cx, cy, from float64) {
		a := ellipticArc{rx: rx, ry: ry, cx: cx, cy: cy, sweep: true}
		a.x0, a.y0 = a.pointAt(from)
		a.x1, a.y1 = a.pointAt(from + math.Pi/2)
		a.trace(q)
	}
	q.Start(pt(minX+rx, minY))
	q.Line(pt(maxX-rx, minY))
	corner(maxX-rx, minY+ry, -math.Pi/2)
	q.Line(pt(maxX, maxY-ry))
	corner(maxX-rx, maxY-ry, 0)
	q.Line(pt(minX+rx, maxY))
	corner(minX+rx, maxY-ry, math.Pi/2)
	q.Line(pt(minX, minY+ry))
	corner(minX+rx, minY+ry, math.Pi)
	p.Stop(true)
}

// addEllipse adds an axis aligned ellipse centered at (cx, cy),
// as two half arcs.
func (p *Path) addEllipse(cx, cy, rx, ry float64) {
	q := &matrixAdder{M: Identity, path: p}
	q.Start(pt(cx+rx, cy))
	half := ellipticArc{rx: rx, ry: ry, cx: cx, cy: cy, sweep: true, x0: cx + rx, y0: cy, x1: cx - rx, y1: cy}
	half.trace(q)
	half.x0, half.x1 = half.x1, half.x0
	half.trace(q)
	p.Stop(true)
}

// ellipticArc is the part of the ellipse centered on (cx, cy),
// of radii rx and ry, rotated by rot radians, going from
// (x0, y0) to (x1, y1).
type ellipticArc struct {
	rx, ry, rot  float64
	cx, cy       float64
	x0, y0       float64
	x1, y1       float64
	large, sweep bool
}

// pointAt returns the point of parameter eta.
func (a ellipticArc) pointAt(eta float64) (x, y float64) {
	sin, cos := math.Sincos(a.rot)
	ax, by := a.rx*math.Cos(eta), a.ry*math.Sin(eta)
	return a.cx + ax*cos - by*sin, a.cy + ax*sin + by*cos
}

// tangentAt returns the derivative at parameter eta.
func (a ellipticArc) tangentAt(eta float64) (dx, dy float64) {
	sin, cos := math.Sincos(a.rot)
	ay, bx := a.rx*math.Sin(eta), a.ry*math.Cos(eta)
	return -ay*cos - bx*sin, -ay*sin + bx*cos
}

// span returns the starting parameter of the arc and its signed extent,
// honoring the large arc and sweep flags.
func (a ellipticArc) span() (start, delta float64) {
	from := math.Atan2(a.y0-a.cy, a.x0-a.cx) - a.rot
	to := math.Atan2(a.y1-a.cy, a.x1-a.cx) - a.rot
	start = math.Atan2(math.Sin(from)/a.ry, math.Cos(from)/a.rx)
	end := math.Atan2(math.Sin(to)/a.ry, math.Cos(to)/a.rx)
	delta = end - start
	if (math.Abs(to-from) > math.Pi) != a.large {
		if delta < 0 {
			delta += 2 * math.Pi
		} else {
			delta -= 2 * math.Pi
		}
	}
	// the center may sit on the chord, leaving the flags to decide
	if delta < 0 && a.sweep {
		delta += 2 * math.Pi
	} else if delta >= 0 && !a.sweep {
		delta -= 2 * math.Pi
	}
	return start, delta
}

// trace appends the arc to `p` as cubic curves, following
// L. Maisonobe, "Drawing an elliptical arc using polylines,
// quadratic or cubic Bezier curves" (2003), and returns the end point.
// The last curve ends exactly on (x1, y1).
func (a ellipticArc) trace(p *matrixAdder) (x, y float64) {
	start, delta := a.span()
	n := int(math.Abs(delta)/maxArcSpan) + 1
	step := delta / float64(n)
	t := math.Tan(step / 2)
	alpha := math.Sin(step) * (math.Sqrt(4+3*t*t) - 1) / 3

	x, y = a.x0, a.y0
	dx, dy := a.tangentAt(start)
	for i := 1; i <= n; i++ {
		eta := start + step*float64(i)
		nx, ny := a.x1, a.y1
		if i < n {
			nx, ny = a.pointAt(eta)
		}
		ndx, ndy := a.tangentAt(eta)
		p.CubeBezier(pt(x+alpha*dx, y+alpha*dy), pt(nx-alpha*ndx, ny-alpha*ndy), pt(nx, ny))
		x, y, dx, dy = nx, ny, ndx, ndy
	}
	return x, y
}

// arcCenter returns the center of the arc of radii rx and ry, rotated by
// rot radians, joining start to end. Radii too small to join both points
// are grown, keeping their ratio, and returned updated.
func arcCenter(rx, ry, rot, startX, startY, endX, endY float64, sweep, large bool) (cx, cy, nrx, nry float64) {
	sin, cos := math.Sincos(rot)

	// in the frame where start is the origin, the ellipse axis is
	// horizontal and the ellipse is a circle of radius ry
	nx, ny := endX-startX, endY-startY
	nx, ny = nx*cos+ny*sin, -nx*sin+ny*cos
	nx *= ry / rx

	midX, midY := nx/2, ny/2
	half := midX*midX + midY*midY

	var h float64
	if ry*ry < half {
		r := math.Sqrt(half)
		if rx == ry {
			rx = r
		} else {
			rx = rx * r / ry
		}
		ry = r
	} else {
		h = math.Sqrt(ry*ry-half) / math.Sqrt(half)
	}
	if sweep != large {
		cx, cy = midX+midY*h, midY-midX*h
	} else {
		cx, cy = midX-midY*h, midY+midX*h
	}

	cx *= rx / ry
	return cx*cos - cy*sin + startX, cx*sin + cy*cos + startY, rx, ry
}
