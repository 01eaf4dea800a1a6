// Package svgflat expands curve commands into the dense
// list of integer positions played back by the device.
package svgflat

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/benoitkugler/laserdraw/svgcmd"
)

const (
	// Step is the parametric increment between two points.
	Step = 0.001
	// Steps is the number of points produced for one curve.
	Steps = 1000
)

// Point is a device position.
type Point struct{ X, Z int }

// Mode selects how the three points of a curve command are interpreted.
type Mode uint8

const (
	// ModeQuadratic reads the curve as start, control and end point.
	ModeQuadratic Mode = iota
	// ModeCubic reads the curve as the two control points and the end point
	// of a cubic Bezier starting at the current position.
	ModeCubic
)

func (m Mode) String() string {
	switch m {
	case ModeQuadratic:
		return "quadratic"
	case ModeCubic:
		return "cubic"
	default:
		return fmt.Sprintf("<unknown Mode %d>", m)
	}
}

// ParseMode is the inverse of Mode.String
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "quadratic":
		return ModeQuadratic, nil
	case "cubic":
		return ModeCubic, nil
	}
	return 0, fmt.Errorf("invalid curve mode %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler,
// so that modes may be read from configuration files.
func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// truncate drops the fractional part, toward zero
func truncate(x, y float64) Point { return Point{X: int(x), Z: int(y)} }

// Quadratic returns the points of
//
//	B(t) = (p0 - 2p1 + p2)t² + 2(p1 - p0)t + p0
//
// for t = 0, Step, ..., 1 - Step. The sequence may be iterated
// several times.
func Quadratic(c svgcmd.Curve) iter.Seq[Point] {
	ax, ay := c.P0.X-2*c.P1.X+c.P2.X, c.P0.Y-2*c.P1.Y+c.P2.Y
	bx, by := 2*(c.P1.X-c.P0.X), 2*(c.P1.Y-c.P0.Y)
	return func(yield func(Point) bool) {
		for i := 0; i < Steps; i++ {
			t := float64(i) * Step
			if !yield(truncate(ax*t*t+bx*t+c.P0.X, ay*t*t+by*t+c.P0.Y)) {
				return
			}
		}
	}
}

// Cubic returns the points of the cubic Bezier curve
// going from `from` to c.P2, with control points c.P0 and c.P1,
// sampled as Quadratic does.
func Cubic(from svgcmd.Point, c svgcmd.Curve) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for i := 0; i < Steps; i++ {
			t := float64(i) * Step
			u := 1 - t
			w0, w1, w2, w3 := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
			x := w0*from.X + w1*c.P0.X + w2*c.P1.X + w3*c.P2.X
			y := w0*from.Y + w1*c.P0.Y + w2*c.P1.Y + w3*c.P2.Y
			if !yield(truncate(x, y)) {
				return
			}
		}
	}
}

// Flatten dispatches on the mode. `from` is the current position,
// only used by ModeCubic.
func Flatten(mode Mode, from svgcmd.Point, c svgcmd.Curve) iter.Seq[Point] {
	if mode == ModeCubic {
		return Cubic(from, c)
	}
	return Quadratic(c)
}

// Points collects the sequence.
func Points(seq iter.Seq[Point]) []Point { return slices.Collect(seq) }
