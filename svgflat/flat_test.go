package svgflat

import (
	"testing"

	"github.com/benoitkugler/laserdraw/svgcmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var arch = svgcmd.Curve{P0: svgcmd.Point{X: 0, Y: 0}, P1: svgcmd.Point{X: 50, Y: 100}, P2: svgcmd.Point{X: 100, Y: 0}}

func TestQuadratic(t *testing.T) {
	points := Points(Quadratic(arch))
	require.Len(t, points, Steps)
	assert.Equal(t, Point{0, 0}, points[0])
	assert.Equal(t, Point{50, 50}, points[500])
	// the end point itself is not produced
	assert.Equal(t, Point{99, 0}, points[Steps-1])

	for _, p := range points {
		assert.True(t, p.X >= 0 && p.X <= 100)
		assert.True(t, p.Z >= 0 && p.Z <= 50)
	}
}

func TestTruncation(t *testing.T) {
	c := svgcmd.Curve{P0: svgcmd.Point{X: 1.9, Y: -1.9}, P1: svgcmd.Point{X: 1.9, Y: -1.9}, P2: svgcmd.Point{X: 1.9, Y: -1.9}}
	for p := range Quadratic(c) {
		assert.Equal(t, Point{1, -1}, p)
	}
}

func TestRestartable(t *testing.T) {
	seq := Quadratic(arch)
	first := Points(seq)
	second := Points(seq)
	assert.Equal(t, first, second)

	// early exit
	n := 0
	for range seq {
		n++
		if n == 10 {
			break
		}
	}
	assert.Equal(t, 10, n)
}

func TestCubic(t *testing.T) {
	from := svgcmd.Point{X: 0, Y: 0}
	c := svgcmd.Curve{P0: svgcmd.Point{X: 0, Y: 100}, P1: svgcmd.Point{X: 100, Y: 100}, P2: svgcmd.Point{X: 100, Y: 0}}
	points := Points(Cubic(from, c))
	require.Len(t, points, Steps)
	assert.Equal(t, Point{0, 0}, points[0])
	assert.Equal(t, Point{50, 75}, points[500])

	assert.Equal(t, points, Points(Flatten(ModeCubic, from, c)))
	assert.Equal(t, Points(Quadratic(c)), Points(Flatten(ModeQuadratic, from, c)))
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeQuadratic, ModeCubic} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	var m Mode
	require.NoError(t, m.UnmarshalText([]byte("Cubic")))
	assert.Equal(t, ModeCubic, m)
	assert.Error(t, m.UnmarshalText([]byte("linear")))
}
