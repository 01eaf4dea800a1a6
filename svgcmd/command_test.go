package svgcmd

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/benoitkugler/laserdraw/svgicon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bogus is not part of the vocabulary
type bogus struct{}

func (bogus) Tag() byte  { return 'X' }
func (bogus) isCommand() {}

func TestFormat(t *testing.T) {
	for _, test := range []struct {
		command  Command
		expected string
	}{
		{Move{1, 2}, "M 1 2"},
		{Line{-0.5, 1e-7}, "L -0.5 0.0000001"},
		{Curve{Point{0, 0}, Point{50, 100}, Point{100, 0}}, "C 0 0 50 100 100 0"},
		{Move{123.456789, 600}, "M 123.456789 600"},
	} {
		got, err := Format(test.command)
		require.NoError(t, err)
		assert.Equal(t, test.expected, got)

		back, err := ParseLine(got)
		require.NoError(t, err)
		assert.Equal(t, test.command, back)
	}
}

func TestFormatUnknown(t *testing.T) {
	_, err := Format(bogus{})
	var unknown *UnknownCommandError
	require.True(t, errors.As(err, &unknown))

	_, err = Lines(Sequence{Move{0, 0}, bogus{}})
	require.True(t, errors.As(err, &unknown))
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, pe.Index)
}

func TestParseLine(t *testing.T) {
	c, err := ParseLine("  l 10   20 ")
	require.NoError(t, err)
	assert.Equal(t, Line{10, 20}, c)

	c, err = ParseLine("c 1 2 3 4 5 6")
	require.NoError(t, err)
	assert.Equal(t, Curve{Point{1, 2}, Point{3, 4}, Point{5, 6}}, c)

	_, err = ParseLine("Z")
	var unknown *UnknownCommandError
	assert.True(t, errors.As(err, &unknown))

	for _, bad := range []string{"", "M 1", "M 1 2 3", "C 1 2 3 4 5", "L a b", "M NaN 0", "L 0 +Inf"} {
		_, err := ParseLine(bad)
		var pe *ParseError
		assert.True(t, errors.As(err, &pe), bad)
	}
}

func TestParseLines(t *testing.T) {
	seq, err := ParseLines([]string{"M 0 0", "", "L 10 10", "C 0 0 1 1 2 2"})
	require.NoError(t, err)
	assert.Equal(t, Sequence{Move{0, 0}, Line{10, 10}, Curve{Point{0, 0}, Point{1, 1}, Point{2, 2}}}, seq)

	_, err = ParseLines([]string{"M 0 0", "L 1"})
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, pe.Index)
	assert.Equal(t, "L 1", pe.Line)
	assert.Contains(t, pe.Error(), "command 1")
}

func TestParseErrorMessage(t *testing.T) {
	err := &ParseError{Job: "star.svg", Path: 2, Index: 4, Line: "L x", Err: errors.New("boom")}
	assert.Equal(t, `parse error in star.svg, path 2, command 4 ("L x"): boom`, err.Error())
	assert.Equal(t, "parse error: boom", NewParseError(errors.New("boom")).Error())
}

func TestExtract(t *testing.T) {
	f, err := os.Open("testdata/star.svg")
	require.NoError(t, err)
	defer f.Close()

	seqs, err := ExtractStream(f, svgicon.StrictErrorMode)
	require.NoError(t, err)
	require.Len(t, seqs, 2)

	star := seqs[0]
	// move, nine lines and the closing line
	require.Len(t, star, 11)
	assert.Equal(t, Move{50, 0}, star[0])
	assert.Equal(t, Line{61, 35}, star[1])
	assert.Equal(t, Line{50, 0}, star[10])

	// quadratic segments are elevated to cubic ones
	curve := seqs[1]
	require.Len(t, curve, 2)
	assert.Equal(t, Move{0, 100}, curve[0])
	c, ok := curve[1].(Curve)
	require.True(t, ok)
	assert.InDelta(t, 33.33, c.P0.X, 0.05)
	assert.InDelta(t, 66.67, c.P0.Y, 0.05)
	assert.InDelta(t, 66.67, c.P1.X, 0.05)
	assert.Equal(t, Point{100, 100}, c.P2)

	lines, err := Lines(star)
	require.NoError(t, err)
	assert.Equal(t, "M 50 0", lines[0])
	assert.Equal(t, "L 61 35", lines[1])
}

func TestExtractSkipsEmptyPaths(t *testing.T) {
	seqs, err := ExtractStream(strings.NewReader(`<svg><path d=""/><path d="M1 1"/></svg>`), svgicon.StrictErrorMode)
	require.NoError(t, err)
	assert.Equal(t, []Sequence{{Move{1, 1}}}, seqs)
}

func TestExtractKeepsSourcePrecision(t *testing.T) {
	seqs, err := ExtractStream(strings.NewReader(`<svg viewBox="0 0 1 1"><path d="M 0.01 0.02 L 0.3 0.7 Q 0.1 0.2 0.003 0.004"/></svg>`), svgicon.StrictErrorMode)
	require.NoError(t, err)
	require.Len(t, seqs, 1)
	require.Len(t, seqs[0], 3)
	assert.Equal(t, Move{0.01, 0.02}, seqs[0][0])
	assert.Equal(t, Line{0.3, 0.7}, seqs[0][1])
	c := seqs[0][2].(Curve)
	assert.Equal(t, Point{0.003, 0.004}, c.P2)
	assert.InDelta(t, 0.3+2*(0.1-0.3)/3, c.P0.X, 1e-12)

	lines, err := Lines(seqs[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"M 0.01 0.02", "L 0.3 0.7"}, lines[:2])
}

func TestExtractOverflow(t *testing.T) {
	_, err := ExtractStream(strings.NewReader(`<svg><path d="M 0 0 L 1e300 1" transform="scale(1e300)"/></svg>`), svgicon.StrictErrorMode)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 0, pe.Path)
	assert.Equal(t, 1, pe.Index)

	// large but representable coordinates are kept as is
	seqs, err := ExtractStream(strings.NewReader(`<svg><path d="M 0 0 L 40000000 1"/></svg>`), svgicon.StrictErrorMode)
	require.NoError(t, err)
	assert.Equal(t, Line{40000000, 1}, seqs[0][1])
}

func TestExtractMalformed(t *testing.T) {
	_, err := ExtractStream(strings.NewReader(`<svg><path d="M 0 0 L 1"/></svg>`), svgicon.StrictErrorMode)
	var pe *ParseError
	assert.True(t, errors.As(err, &pe))
}
