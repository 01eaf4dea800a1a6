// Package drawjob runs a drawing job: it reads a document,
// fits it to the device range and plays it on a driver.
//
// Preparation is pure and fails before any device I/O,
// so that a bad document never leaves the laser half way.
package drawjob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/benoitkugler/laserdraw/svgcmd"
	"github.com/benoitkugler/laserdraw/svgdevice"
	"github.com/benoitkugler/laserdraw/svgicon"
	"github.com/benoitkugler/laserdraw/svgscale"
)

// Job describes one document to draw.
type Job struct {
	Name      string // used in error messages
	Document  io.Reader
	Range     float64 // device range, svgscale.DefaultRange if zero
	ErrorMode svgicon.ErrorMode
}

// Plan is a prepared job, ready to be played.
type Plan struct {
	Sequences []svgcmd.Sequence // one per path, in document order
	Factor    float64           // scale applied to the document
}

// locate adds the job name, and the path index if not already set
func locate(err error, job string, path int) error {
	var pe *svgcmd.ParseError
	if !errors.As(err, &pe) {
		pe = svgcmd.NewParseError(err)
	}
	pe.Job = job
	if pe.Path < 0 {
		pe.Path = path
	}
	return pe
}

// Prepare extracts the paths of the document and scales them
// jointly, so that the largest coordinate of the whole drawing
// matches the device range.
// Errors are *svgcmd.ParseError or *svgcmd.UnknownCommandError,
// wrapped in a ParseError locating them.
func Prepare(job Job) (Plan, error) {
	target := job.Range
	if target <= 0 {
		target = svgscale.DefaultRange
	}
	seqs, err := svgcmd.ExtractStream(job.Document, job.ErrorMode)
	if err != nil {
		return Plan{}, locate(err, job.Name, -1)
	}

	// serialize every path, keeping its boundaries
	var (
		all    []string
		bounds = make([]int, len(seqs)+1)
	)
	for i, seq := range seqs {
		lines, err := svgcmd.Lines(seq)
		if err != nil {
			return Plan{}, locate(err, job.Name, i)
		}
		all = append(all, lines...)
		bounds[i+1] = len(all)
	}

	scaled, factor, err := svgscale.Scale(all, target)
	if err != nil {
		var pe *svgcmd.ParseError
		if errors.As(err, &pe) && pe.Index >= 0 {
			// index into `all`, relative to the path
			path := sort.SearchInts(bounds, pe.Index+1) - 1
			pe.Index -= bounds[path]
			return Plan{}, locate(pe, job.Name, path)
		}
		return Plan{}, locate(err, job.Name, -1)
	}

	plan := Plan{Factor: factor, Sequences: make([]svgcmd.Sequence, len(seqs))}
	for i := range seqs {
		seq, err := svgcmd.ParseLines(scaled[bounds[i]:bounds[i+1]])
		if err != nil {
			return Plan{}, locate(err, job.Name, i)
		}
		plan.Sequences[i] = seq
	}
	return plan, nil
}

// PrepareFile opens and prepares the SVG file at `path`.
func PrepareFile(path string, target float64, mode svgicon.ErrorMode) (Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return Plan{}, err
	}
	defer f.Close()
	return Prepare(Job{Name: filepath.Base(path), Document: f, Range: target, ErrorMode: mode})
}

// Run switches the controller to delegate mode and
// plays the plan, path after path.
// As for the directives, a failed mode switch is only logged.
func Run(ctx context.Context, driver *svgdevice.Driver, plan Plan, logger *slog.Logger) (svgdevice.Report, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var total svgdevice.Report
	if err := driver.Delegate(ctx); err != nil {
		total.Failures++
		logger.Error("switching to delegate mode", "err", err)
	}
	total.Directives++
	for i, seq := range plan.Sequences {
		r, err := driver.Play(ctx, seq)
		total.Add(r)
		if err != nil {
			return total, fmt.Errorf("path %d: %w", i, err)
		}
		logger.Debug("path played", "path", i, "commands", r.Commands, "failures", r.Failures)
	}
	return total, nil
}

// List returns the SVG files of `dir`, sorted by name.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".svg") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}
