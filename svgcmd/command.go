// Package svgcmd defines the laser command vocabulary:
// the Move, Line and Curve primitives extracted from an SVG
// document, and their one line text form
//
//	M <x> <y>
//	L <x> <y>
//	C <p0x> <p0y> <p1x> <p1y> <p2x> <p2y>
package svgcmd

import (
	"strconv"
	"strings"
)

// Point is a position in source document units.
type Point struct{ X, Y float64 }

// Command is one drawing primitive.
// It is implemented by Move, Line and Curve only.
type Command interface {
	Tag() byte
	isCommand()
}

// Move positions the beam without firing.
type Move Point

// Line fires the beam up to the given point.
type Line Point

// Curve holds the three points carried by a curve command.
// They are interpreted by the flattener as start, control and end
// point of a quadratic Bezier (see svgflat).
type Curve struct{ P0, P1, P2 Point }

func (Move) Tag() byte  { return 'M' }
func (Line) Tag() byte  { return 'L' }
func (Curve) Tag() byte { return 'C' }

func (Move) isCommand()  {}
func (Line) isCommand()  {}
func (Curve) isCommand() {}

// Sequence is one path element, in document order.
type Sequence []Command

// formatFloat uses the shortest decimal representation
// reading back to the same float64
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Format returns the text line for `c`.
func Format(c Command) (string, error) {
	var args []float64
	switch c := c.(type) {
	case Move:
		args = []float64{c.X, c.Y}
	case Line:
		args = []float64{c.X, c.Y}
	case Curve:
		args = []float64{c.P0.X, c.P0.Y, c.P1.X, c.P1.Y, c.P2.X, c.P2.Y}
	default:
		return "", &UnknownCommandError{Command: c}
	}
	var b strings.Builder
	b.WriteByte(c.Tag())
	for _, a := range args {
		b.WriteByte(' ')
		b.WriteString(formatFloat(a))
	}
	return b.String(), nil
}

// Lines serializes the whole sequence, one line per command.
func Lines(seq Sequence) ([]string, error) {
	out := make([]string, len(seq))
	for i, c := range seq {
		line, err := Format(c)
		if err != nil {
			return nil, &ParseError{Path: -1, Index: i, Err: err}
		}
		out[i] = line
	}
	return out, nil
}

// arity returns the expected number of numeric arguments for a tag,
// or -1 if the tag is unknown
func arity(tag string) int {
	switch strings.ToUpper(tag) {
	case "M", "L":
		return 2
	case "C":
		return 6
	}
	return -1
}

// ParseLine parses the text form of a command.
// The tag is case-insensitive and separated from
// the arguments by whitespace.
func ParseLine(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, &ParseError{Path: -1, Index: -1, Line: line, Err: errEmptyLine}
	}
	n := arity(fields[0])
	if n == -1 {
		return nil, &UnknownCommandError{Tag: fields[0]}
	}
	if len(fields)-1 != n {
		return nil, &ParseError{Path: -1, Index: -1, Line: line, Err: errArity(fields[0], n, len(fields)-1)}
	}
	args := make([]float64, n)
	for i, field := range fields[1:] {
		f, err := parseCoordinate(field)
		if err != nil {
			return nil, &ParseError{Path: -1, Index: -1, Line: line, Err: err}
		}
		args[i] = f
	}
	switch strings.ToUpper(fields[0]) {
	case "M":
		return Move{args[0], args[1]}, nil
	case "L":
		return Line{args[0], args[1]}, nil
	default:
		return Curve{Point{args[0], args[1]}, Point{args[2], args[3]}, Point{args[4], args[5]}}, nil
	}
}

// ParseLines parses every non blank line.
func ParseLines(lines []string) (Sequence, error) {
	out := make(Sequence, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		c, err := ParseLine(line)
		if err != nil {
			return nil, withIndex(err, i, line)
		}
		out = append(out, c)
	}
	return out, nil
}
