package svgicon

import (
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

var (
	errParamMismatch = errors.New("param mismatch")
	errNonFinite     = errors.New("non finite number")
)

type (
	// iconCursor is used while parsing SVG files
	iconCursor struct {
		pathCursor
		icon                            *SvgIcon
		styleStack                      []Matrix2D // current transforms
		inTitleText, inDescText, inDefs bool
		currentDef                      []definition
	}

	// definition is used to store what's given in a def tag
	definition struct {
		ID, Tag string
		Attrs   []xml.Attr
	}
)

// parseFloat is strconv.ParseFloat, restricted to finite values
func parseFloat(s string, bitSize int) (float64, error) {
	f, err := strconv.ParseFloat(s, bitSize)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s", errNonFinite, s)
	}
	return f, nil
}

// parseBasicFloat accepts an optional px unit
func parseBasicFloat(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	return parseFloat(s, 64)
}

func (c *iconCursor) readTransformAttr(m1 Matrix2D, k string) (Matrix2D, error) {
	ln := len(c.points)
	switch k {
	case "rotate":
		if ln == 1 {
			m1 = m1.Rotate(c.points[0] * math.Pi / 180)
		} else if ln == 3 {
			m1 = m1.Translate(c.points[1], c.points[2]).
				Rotate(c.points[0]*math.Pi/180).
				Translate(-c.points[1], -c.points[2])
		} else {
			return m1, errParamMismatch
		}
	case "translate":
		if ln == 1 {
			m1 = m1.Translate(c.points[0], 0)
		} else if ln == 2 {
			m1 = m1.Translate(c.points[0], c.points[1])
		} else {
			return m1, errParamMismatch
		}
	case "skewx":
		if ln == 1 {
			m1 = m1.SkewX(c.points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "skewy":
		if ln == 1 {
			m1 = m1.SkewY(c.points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "scale":
		if ln == 1 {
			m1 = m1.Scale(c.points[0], c.points[0])
		} else if ln == 2 {
			m1 = m1.Scale(c.points[0], c.points[1])
		} else {
			return m1, errParamMismatch
		}
	case "matrix":
		if ln == 6 {
			m1 = m1.Mult(Matrix2D{
				A: c.points[0],
				B: c.points[1],
				C: c.points[2],
				D: c.points[3],
				E: c.points[4],
				F: c.points[5]})
		} else {
			return m1, errParamMismatch
		}
	default:
		return m1, errParamMismatch
	}
	return m1, nil
}

func (c *iconCursor) parseTransform(v string) (Matrix2D, error) {
	ts := strings.Split(v, ")")
	m1 := c.styleStack[len(c.styleStack)-1]
	for _, t := range ts {
		t = strings.TrimSpace(t)
		if len(t) == 0 {
			continue
		}
		d := strings.Split(t, "(")
		if len(d) != 2 || len(d[1]) < 1 {
			return m1, errParamMismatch // badly formed transformation
		}
		err := c.getPoints(d[1])
		if err != nil {
			return m1, err
		}
		m1, err = c.readTransformAttr(m1, strings.ToLower(strings.TrimSpace(d[0])))
		if err != nil {
			return m1, fmt.Errorf("transform %q: %w", t, err)
		}
	}
	return m1, nil
}

// pushStyle reads the transform of the element, and push it on the style stack.
// Note that this parses both the contents of a style attribute plus
// the direct transform attribute.
// Colors, strokes and opacities have no meaning for a laser trace and
// are not retained.
func (c *iconCursor) pushStyle(attrs []xml.Attr) error {
	var pairs []string
	for _, attr := range attrs {
		switch strings.ToLower(attr.Name.Local) {
		case "style":
			pairs = append(pairs, strings.Split(attr.Value, ";")...)
		default:
			pairs = append(pairs, attr.Name.Local+":"+attr.Value)
		}
	}
	// Make a copy of the top style
	current := c.styleStack[len(c.styleStack)-1]
	for _, pair := range pairs {
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) < 2 {
			continue
		}
		if strings.ToLower(strings.TrimSpace(kv[0])) != "transform" {
			continue
		}
		m, err := c.parseTransform(strings.TrimSpace(kv[1]))
		if err != nil {
			return err
		}
		current = m
	}
	c.styleStack = append(c.styleStack, current) // Push style onto stack
	return nil
}

// unsupported reports an element the parser does not handle,
// according to the error mode
func (c *iconCursor) unsupported(tag string) error {
	errStr := "Cannot process svg element " + tag
	if c.errorMode == StrictErrorMode {
		return errors.New(errStr)
	} else if c.errorMode == WarnErrorMode {
		slog.Warn(errStr)
	}
	return nil
}

func (c *iconCursor) readStartElement(se xml.StartElement) (err error) {
	if c.inDefs {
		ID := ""
		for _, attr := range se.Attr {
			if attr.Name.Local == "id" {
				ID = attr.Value
			}
		}
		if ID != "" && len(c.currentDef) > 0 {
			c.icon.defs[c.currentDef[0].ID] = c.currentDef
			c.currentDef = make([]definition, 0)
		}
		c.currentDef = append(c.currentDef, definition{
			ID:    ID,
			Tag:   se.Name.Local,
			Attrs: se.Attr,
		})
		return nil
	}
	df, ok := drawFuncs[se.Name.Local]
	if !ok {
		return c.unsupported(se.Name.Local)
	}
	err = df(c, se.Attr)
	if err != nil {
		return fmt.Errorf("element <%s>: %w", se.Name.Local, err)
	}

	c.flushPath(se.Name.Local, se.Attr)
	return nil
}

// flushPath stores the path parsed from the current element, if any
func (c *iconCursor) flushPath(tag string, attrs []xml.Attr) {
	if len(c.path) == 0 {
		return
	}
	var id string
	for _, attr := range attrs {
		if attr.Name.Local == "id" {
			id = attr.Value
		}
	}
	pathCopy := append(Path{}, c.path...)
	c.icon.SVGPaths = append(c.icon.SVGPaths,
		SvgPath{Path: pathCopy, ID: id, Tag: tag, transform: c.styleStack[len(c.styleStack)-1]})
	c.path = c.path[:0]
}
