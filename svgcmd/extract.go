package svgcmd

import (
	"errors"
	"io"
	"math"

	"github.com/benoitkugler/laserdraw/svgicon"
)

var _ svgicon.Driver = (*extractor)(nil) // assert interface conformance

func toPoint(p svgicon.Point) Point { return Point{X: p.X, Y: p.Y} }

// recorder accumulates the commands of one path
type recorder struct {
	seq Sequence
}

func (r *recorder) Start(a svgicon.Point) {
	r.seq = append(r.seq, Move(toPoint(a)))
}

func (r *recorder) Line(b svgicon.Point) {
	r.seq = append(r.seq, Line(toPoint(b)))
}

// CubeBezier keeps the three points following the current one,
// which is what the curve command carries.
func (r *recorder) CubeBezier(b, c, d svgicon.Point) {
	r.seq = append(r.seq, Curve{P0: toPoint(b), P1: toPoint(c), P2: toPoint(d)})
}

type extractor struct {
	paths []*recorder
}

func (e *extractor) SetupDrawer(int, *svgicon.SvgPath) svgicon.Drawer {
	r := new(recorder)
	e.paths = append(e.paths, r)
	return r
}

// Extract returns one Sequence per drawable path of the icon,
// in document order. Paths without geometry are skipped.
func Extract(icon *svgicon.SvgIcon) []Sequence {
	var e extractor
	icon.Draw(&e)
	out := make([]Sequence, 0, len(e.paths))
	for _, r := range e.paths {
		if len(r.seq) == 0 {
			continue
		}
		out = append(out, r.seq)
	}
	return out
}

// ExtractStream parses the SVG document from `r` and extracts its paths.
// Parsing failures are reported as *ParseError.
func ExtractStream(r io.Reader, mode svgicon.ErrorMode) ([]Sequence, error) {
	icon, err := svgicon.ReadIconStream(r, mode)
	if err != nil {
		return nil, NewParseError(err)
	}
	seqs := Extract(icon)
	if err := checkFinite(seqs); err != nil {
		return nil, err
	}
	return seqs, nil
}

var errOverflow = errors.New("coordinate overflows after transform")

func finite(pts ...Point) bool {
	for _, p := range pts {
		if math.IsInf(p.X, 0) || math.IsNaN(p.X) || math.IsInf(p.Y, 0) || math.IsNaN(p.Y) {
			return false
		}
	}
	return true
}

// checkFinite rejects points pushed out of the float64 range
// by the document transforms.
func checkFinite(seqs []Sequence) error {
	for i, seq := range seqs {
		for j, c := range seq {
			var ok bool
			switch c := c.(type) {
			case Move:
				ok = finite(Point(c))
			case Line:
				ok = finite(Point(c))
			case Curve:
				ok = finite(c.P0, c.P1, c.P2)
			}
			if !ok {
				return &ParseError{Path: i, Index: j, Err: errOverflow}
			}
		}
	}
	return nil
}
