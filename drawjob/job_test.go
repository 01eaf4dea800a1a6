package drawjob

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benoitkugler/laserdraw/svgcmd"
	"github.com/benoitkugler/laserdraw/svgdevice"
	"github.com/benoitkugler/laserdraw/svgicon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordSink struct {
	lines []string
	fail  func(line string) error
}

func (s *recordSink) Send(_ context.Context, line string) error {
	s.lines = append(s.lines, line)
	if s.fail != nil {
		return s.fail(line)
	}
	return nil
}

func prepareString(t *testing.T, content string) (Plan, error) {
	t.Helper()
	return Prepare(Job{Name: "test.svg", Document: strings.NewReader(content), ErrorMode: svgicon.StrictErrorMode})
}

var twoStrokes = []svgcmd.Sequence{
	{svgcmd.Move{X: 0, Y: 0}, svgcmd.Line{X: 200, Y: 100}},
	{svgcmd.Move{X: 20, Y: 20}, svgcmd.Line{X: 600, Y: 40}},
}

func TestPrepareScalesJointly(t *testing.T) {
	plan, err := PrepareFile("testdata/two.svg", 0, svgicon.StrictErrorMode)
	require.NoError(t, err)
	assert.Equal(t, 2., plan.Factor)
	assert.Equal(t, twoStrokes, plan.Sequences)

	plan, err = PrepareFile("testdata/two.svg", 30, svgicon.StrictErrorMode)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, plan.Factor, 1e-12)
	end, ok := plan.Sequences[1][1].(svgcmd.Line)
	require.True(t, ok)
	assert.InDelta(t, 30, end.X, 1e-9)
	assert.InDelta(t, 2, end.Y, 1e-9)
}

func TestPrepareDegenerate(t *testing.T) {
	plan, err := prepareString(t, `<svg><path d="M 5 5"/></svg>`)
	require.NoError(t, err)
	assert.Equal(t, 1., plan.Factor)
	assert.Equal(t, []svgcmd.Sequence{{svgcmd.Move{X: 5, Y: 5}}}, plan.Sequences)

	plan, err = prepareString(t, `<svg><title>nothing</title></svg>`)
	require.NoError(t, err)
	assert.Equal(t, 1., plan.Factor)
	assert.Empty(t, plan.Sequences)
}

func TestPrepareErrors(t *testing.T) {
	for _, content := range []string{
		`<svg><path d="M 0 0 L 1"/></svg>`,
		`<svg><path d="M 0 0"></svg>`,
		`<svg><text>unsupported in strict mode</text></svg>`,
		``,
	} {
		_, err := prepareString(t, content)
		var pe *svgcmd.ParseError
		require.True(t, errors.As(err, &pe), content)
		assert.Equal(t, "test.svg", pe.Job)
		assert.Contains(t, err.Error(), "test.svg")
	}

	_, err := PrepareFile("testdata/missing.svg", 0, svgicon.StrictErrorMode)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLocate(t *testing.T) {
	err := locate(&svgcmd.ParseError{Path: -1, Index: 3, Err: errors.New("bad")}, "job", 2)
	var pe *svgcmd.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Path)
	assert.Equal(t, 3, pe.Index)
	assert.Equal(t, "job", pe.Job)

	err = locate(errors.New("plain"), "job", 1)
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, pe.Path)
	assert.Equal(t, -1, pe.Index)
}

func TestRun(t *testing.T) {
	var sink recordSink
	driver := svgdevice.NewDriver(&sink, svgdevice.Options{})
	r, err := Run(context.Background(), driver, Plan{Sequences: twoStrokes, Factor: 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"s delegate",
		"m 0,0", "l on", "m 200,100", "l off",
		"m 20,20", "l on", "m 600,40", "l off",
	}, sink.lines)
	assert.Equal(t, svgdevice.Report{Commands: 4, Directives: 9}, r)
}

func TestRunDelegateFailure(t *testing.T) {
	sink := recordSink{fail: func(line string) error {
		if line == "s delegate" {
			return errors.New("unplugged")
		}
		return nil
	}}
	driver := svgdevice.NewDriver(&sink, svgdevice.Options{})
	r, err := Run(context.Background(), driver, Plan{Sequences: twoStrokes[:1]}, nil)
	require.NoError(t, err)
	assert.Len(t, sink.lines, 5)
	assert.Equal(t, 1, r.Failures)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sink := recordSink{fail: func(line string) error {
		if line == "l on" {
			cancel()
		}
		return nil
	}}
	driver := svgdevice.NewDriver(&sink, svgdevice.Options{Timing: svgdevice.Timing{Settle: 1}})
	_, err := Run(ctx, driver, Plan{Sequences: twoStrokes}, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "path 0")
	assert.Equal(t, "l off", sink.lines[len(sink.lines)-1])
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.SVG", "a.svg", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("<svg/>"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.svg"), 0o755))

	files, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.svg"), filepath.Join(dir, "b.SVG")}, files)

	_, err = List(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
