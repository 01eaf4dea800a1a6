package svgcmd

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var errEmptyLine = errors.New("empty command line")

func errArity(tag string, expected, got int) error {
	return fmt.Errorf("command %s expects %d arguments, got %d", tag, expected, got)
}

// ParseError reports malformed geometry or a malformed command line.
// It is fatal to the drawing job and is raised before any
// device I/O happens.
type ParseError struct {
	Job   string // name of the drawing job, if known
	Path  int    // index of the path element in the document, or -1
	Index int    // index of the command (or text line), or -1
	Line  string // offending text line, if any
	Err   error
}

// NewParseError returns a ParseError with no location.
func NewParseError(err error) *ParseError {
	return &ParseError{Path: -1, Index: -1, Err: err}
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse error")
	if e.Job != "" {
		fmt.Fprintf(&b, " in %s", e.Job)
	}
	if e.Path >= 0 {
		fmt.Fprintf(&b, ", path %d", e.Path)
	}
	if e.Index >= 0 {
		fmt.Fprintf(&b, ", command %d", e.Index)
	}
	if e.Line != "" {
		fmt.Fprintf(&b, " (%q)", e.Line)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnknownCommandError is returned for a command outside of
// the Move, Line, Curve vocabulary, which means the
// intermediate representation is corrupted.
type UnknownCommandError struct {
	Tag     string  // unknown text tag, when parsing
	Command Command // unknown variant, when formatting
}

func (e *UnknownCommandError) Error() string {
	if e.Command != nil {
		return fmt.Sprintf("unknown command %T", e.Command)
	}
	return fmt.Sprintf("unknown command tag %q", e.Tag)
}

// withIndex locates `err` at the given line
func withIndex(err error, index int, line string) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Index, pe.Line = index, line
		return pe
	}
	return &ParseError{Path: -1, Index: index, Line: line, Err: err}
}

// parseCoordinate parses a finite float64
func parseCoordinate(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non finite coordinate %s", s)
	}
	return f, nil
}
