package svgicon

import (
	"math"
)

// Matrix2D represents an SVG style matrix
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the identity matrix
var Identity = Matrix2D{1, 0, 0, 1, 0, 0}

// Mult returns a*b
func (a Matrix2D) Mult(b Matrix2D) Matrix2D {
	return Matrix2D{
		A: a.A*b.A + a.C*b.B,
		B: a.B*b.A + a.D*b.B,
		C: a.A*b.C + a.C*b.D,
		D: a.B*b.C + a.D*b.D,
		E: a.A*b.E + a.C*b.F + a.E,
		F: a.B*b.E + a.D*b.F + a.F}
}

// Transform multiples the input vector by matrix m and outputs the results vector
// components.
func (a Matrix2D) Transform(x1, y1 float64) (x2, y2 float64) {
	x2 = x1*a.A + y1*a.C + a.E
	y2 = x1*a.B + y1*a.D + a.F
	return
}

// TPoint transforms a Point by the matrix
func (a Matrix2D) TPoint(p Point) (q Point) {
	q.X, q.Y = a.Transform(p.X, p.Y)
	return
}

// Translate concatenates a translation by x and y to the matrix
func (a Matrix2D) Translate(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{1, 0, 0, 1, x, y})
}

// Rotate concatenates a rotation of theta radians to the matrix
func (a Matrix2D) Rotate(theta float64) Matrix2D {
	return a.Mult(Matrix2D{
		math.Cos(theta),
		math.Sin(theta),
		-math.Sin(theta),
		math.Cos(theta), 0, 0})
}

// Scale concatenates a scale by x and y to the matrix
func (a Matrix2D) Scale(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{x, 0, 0, y, 0, 0})
}

// SkewY skews the matrix in the Y dimension
func (a Matrix2D) SkewY(theta float64) Matrix2D {
	return a.Mult(Matrix2D{1, math.Tan(theta), 0, 1, 0, 0})
}

// SkewX skews the matrix in the X dimension
func (a Matrix2D) SkewX(theta float64) Matrix2D {
	return a.Mult(Matrix2D{1, 0, math.Tan(theta), 1, 0, 0})
}

func (m Matrix2D) trMove(op MoveTo) Point {
	return m.TPoint(Point(op))
}

func (m Matrix2D) trLine(op LineTo) Point {
	return m.TPoint(Point(op))
}

func (m Matrix2D) trQuad(op QuadTo) (b, c Point) {
	return m.TPoint(op[0]), m.TPoint(op[1])
}

func (m Matrix2D) trCubic(op CubicTo) (b, c, d Point) {
	return m.TPoint(op[0]), m.TPoint(op[1]), m.TPoint(op[2])
}

// matrixAdder is an adder that applies matrix M to all points
type matrixAdder struct {
	path *Path
	M    Matrix2D
}

// Start starts a new path
func (t *matrixAdder) Start(a Point) {
	t.path.Start(t.M.TPoint(a))
}

// Line adds a linear segment to the current curve.
func (t *matrixAdder) Line(b Point) {
	t.path.Line(t.M.TPoint(b))
}

// CubeBezier adds a cubic segment to the current curve.
func (t *matrixAdder) CubeBezier(b, c, d Point) {
	t.path.CubeBezier(t.M.TPoint(b), t.M.TPoint(c), t.M.TPoint(d))
}
