// Package svgscale rescales command text lines so that
// a drawing fits the addressable range of the device.
//
// Scaling works on the text form of the commands: each line
// is a tag followed by space separated numbers. Lines tagged
// with Z (in any case) are never scaled nor measured.
package svgscale

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/benoitkugler/laserdraw/svgcmd"
)

var errNonFinite = errors.New("non finite coordinate")

// DefaultRange is the addressable range of the device.
const DefaultRange = 600.

// isFixed returns true for lines excluded from scaling
func isFixed(tag string) bool { return strings.EqualFold(tag, "Z") }

// walk calls fn for every numeric argument of the scalable lines
func walk(lines []string, fn func(index int, v float64)) error {
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 || isFixed(fields[0]) {
			continue
		}
		for _, field := range fields[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return &svgcmd.ParseError{Path: -1, Index: i, Line: line, Err: err}
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &svgcmd.ParseError{Path: -1, Index: i, Line: line, Err: errNonFinite}
			}
			fn(i, v)
		}
	}
	return nil
}

// Largest returns the maximum absolute value of the
// numeric arguments of the scalable lines.
func Largest(lines []string) (float64, error) {
	var max float64
	err := walk(lines, func(_ int, v float64) {
		max = math.Max(max, math.Abs(v))
	})
	return max, err
}

// Factor returns the factor mapping the largest coordinate to `target`.
// Degenerate drawings, with every coordinate at 0 or reduced to
// a single point, return a factor of 1.
func Factor(lines []string, target float64) (float64, error) {
	var max float64
	args := map[int][]float64{}
	err := walk(lines, func(index int, v float64) {
		max = math.Max(max, math.Abs(v))
		args[index] = append(args[index], v)
	})
	if err != nil {
		return 0, err
	}
	if max == 0 || singlePoint(args) {
		return 1, nil
	}
	f := target / max
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 1, nil
	}
	return f, nil
}

// singlePoint returns true if every coordinate pair
// of the scalable lines is the same point
func singlePoint(args map[int][]float64) bool {
	var first []float64
	for _, a := range args {
		for pair := range slices.Chunk(a, 2) {
			if first == nil {
				first = pair
			} else if !slices.Equal(first, pair) {
				return false
			}
		}
	}
	return true
}

// Scale returns a copy of `lines` where the scalable lines are
// multiplied by the factor fitting `target`, and the factor used.
func Scale(lines []string, target float64) ([]string, float64, error) {
	f, err := Factor(lines, target)
	if err != nil {
		return nil, 0, err
	}
	out, err := Apply(lines, f)
	return out, f, err
}

// Apply returns a copy of `lines` with the numeric arguments
// of the scalable lines multiplied by `factor`.
// Fixed and blank lines are copied verbatim.
func Apply(lines []string, factor float64) ([]string, error) {
	out := make([]string, len(lines))
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 || isFixed(fields[0]) || factor == 1 {
			out[i] = line
			continue
		}
		var b strings.Builder
		b.WriteString(fields[0])
		for _, field := range fields[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, &svgcmd.ParseError{Path: -1, Index: i, Line: line, Err: err}
			}
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(v*factor, 'f', -1, 64))
		}
		out[i] = b.String()
	}
	return out, nil
}
