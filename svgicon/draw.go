package svgicon

// Given a parsed SVG document, implements how to
// replay it on a backend.
// This requires a driver implementing the actual operations,
// such as a command recorder or a rasterizer.

// Drawer receives the normalized geometry of one path.
// Only three primitives remain at this stage: quadratic curves are
// elevated to cubic ones, and closes are turned into a line
// back to the start of the sub path.
// Tranformations matrix are already applied to the points
// before sending them to the Drawer.
type Drawer interface {
	// Start starts a new sub path at the given point.
	Start(a Point)

	// Line adds a line from the current point to `b`
	Line(b Point)

	// CubeBezier adds a cubic bezier curve from the current point,
	// with control points `b`, `c` and end point `d`
	CubeBezier(b, c, d Point)
}

type Driver interface {
	// SetupDrawer returns the drawer for the path at `index`
	// (in document order), and will be called at the begining of every path.
	// A nil Drawer skips the path.
	SetupDrawer(index int, path *SvgPath) Drawer
}

// normalizer tracks the current point so that
// relative primitives can be reduced to the Drawer vocabulary
type normalizer struct {
	d     Drawer
	first Point // start of the sub path
	a     Point // current point
}

func (n *normalizer) start(a Point) {
	n.d.Start(a)
	n.first, n.a = a, a
}

func (n *normalizer) line(b Point) {
	n.d.Line(b)
	n.a = b
}

// quadBezier uses the degree elevation
// c1 = a + 2/3 (b - a), c2 = c + 2/3 (b - c)
func (n *normalizer) quadBezier(b, c Point) {
	c1 := Point{n.a.X + 2*(b.X-n.a.X)/3, n.a.Y + 2*(b.Y-n.a.Y)/3}
	c2 := Point{c.X + 2*(b.X-c.X)/3, c.Y + 2*(b.Y-c.Y)/3}
	n.cubeBezier(c1, c2, c)
}

func (n *normalizer) cubeBezier(b, c, d Point) {
	n.d.CubeBezier(b, c, d)
	n.a = d
}

// stop closes the sub path back to its first point if needed
func (n *normalizer) stop(closeLoop bool) {
	if closeLoop && n.first != n.a {
		n.line(n.first)
	}
}

// SetTarget sets the Transform matrix to draw within the bounds of the rectangle arguments
func (s *SvgIcon) SetTarget(x, y, w, h float64) {
	scaleW := w / s.ViewBox.W
	scaleH := h / s.ViewBox.H
	s.Transform = Identity.Translate(x-s.ViewBox.X, y-s.ViewBox.Y).Scale(scaleW, scaleH)
}

// Draw replays the compiled SVG icon into the driver `d`,
// one path at a time, in document order.
func (s *SvgIcon) Draw(d Driver) {
	for i := range s.SVGPaths {
		s.SVGPaths[i].drawTransformed(d, i, s.Transform)
	}
}

// drawTransformed draws the compiled SvgPath into the driver while applying transform t.
func (svgp *SvgPath) drawTransformed(d Driver, index int, t Matrix2D) {
	drawer := d.SetupDrawer(index, svgp)
	if drawer == nil {
		return
	}
	m := t.Mult(svgp.transform)
	n := &normalizer{d: drawer}
	for _, op := range svgp.Path {
		op.drawTo(n, m)
	}
}
