package svgicon

import (
	"errors"
	"fmt"
	"math"
	"unicode"
)

// pathCursor is used to parse SVG format path strings into a Path
type pathCursor struct {
	path                   Path
	placeX, placeY         float64 // current point
	curX, curY             float64 // offset applied by a <use> element
	cntlPtX, cntlPtY       float64 // last control point, for smooth curves
	pathStartX, pathStartY float64
	points                 []float64
	lastKey                byte
	errorMode              ErrorMode
}

var errCommandUnknown = errors.New("unknown path command")

// readNumbers reads the SVG number list in `s`.
// Numbers may be separated by spaces, commas, or
// nothing at all when the next one starts with a sign or a second dot ("1.5.5").
func readNumbers(s string, dst []float64) ([]float64, error) {
	i, n := 0, len(s)
	for i < n {
		r := s[i]
		if r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r' {
			i++
			continue
		}
		start := i
		if r == '+' || r == '-' {
			i++
		}
		digits, dot := 0, false
		for i < n {
			if s[i] >= '0' && s[i] <= '9' {
				digits++
			} else if s[i] == '.' && !dot {
				dot = true
			} else {
				break
			}
			i++
		}
		if digits == 0 {
			return dst, fmt.Errorf("invalid number in %q at offset %d", s, start)
		}
		if i < n && (s[i] == 'e' || s[i] == 'E') {
			j := i + 1
			if j < n && (s[j] == '+' || s[j] == '-') {
				j++
			}
			if j < n && s[j] >= '0' && s[j] <= '9' {
				for j < n && s[j] >= '0' && s[j] <= '9' {
					j++
				}
				i = j
			}
		}
		f, err := parseFloat(s[start:i], 64)
		if err != nil {
			return dst, err
		}
		dst = append(dst, f)
	}
	return dst, nil
}

// getPoints reads a set of floating point values from the SVG format number string,
// and add them to the cursor's points slice.
func (c *pathCursor) getPoints(dataPoints string) (err error) {
	c.points, err = readNumbers(dataPoints, c.points[:0])
	return err
}

// reflect returns the reflection of the last control point
// around the current point, or the current point when
// the previous command is not of the same family
func (c *pathCursor) reflect(family string) (x, y float64) {
	for i := 0; i < len(family); i++ {
		if c.lastKey == family[i] {
			return 2*c.placeX - c.cntlPtX, 2*c.placeY - c.cntlPtY
		}
	}
	return c.placeX, c.placeY
}

func (c *pathCursor) addSeg(segString string) error {
	// Parse the string describing the numeric points in SVG format
	if err := c.getPoints(segString[1:]); err != nil {
		return err
	}
	l := len(c.points)
	k := segString[0]
	rel := false
	if unicode.IsLower(rune(k)) {
		rel = true
		k = byte(unicode.ToUpper(rune(k)))
	}
	var relX, relY float64
	if rel {
		relX, relY = c.placeX, c.placeY
	}
	switch k {
	case 'Z':
		if l != 0 {
			return errParamMismatch
		}
		c.path.Stop(true)
		c.placeX, c.placeY = c.pathStartX, c.pathStartY
	case 'M':
		if l%2 != 0 || l == 0 {
			return errParamMismatch
		}
		c.placeX = c.points[0] + relX
		c.placeY = c.points[1] + relY
		c.pathStartX, c.pathStartY = c.placeX, c.placeY
		c.path.Start(pt(c.placeX+c.curX, c.placeY+c.curY))
		for i := 2; i < l-1; i += 2 {
			if rel {
				relX, relY = c.placeX, c.placeY
			}
			c.placeX = c.points[i] + relX
			c.placeY = c.points[i+1] + relY
			c.path.Line(pt(c.placeX+c.curX, c.placeY+c.curY))
		}
	case 'L':
		if l%2 != 0 || l == 0 {
			return errParamMismatch
		}
		for i := 0; i < l-1; i += 2 {
			if rel {
				relX, relY = c.placeX, c.placeY
			}
			c.placeX = c.points[i] + relX
			c.placeY = c.points[i+1] + relY
			c.path.Line(pt(c.placeX+c.curX, c.placeY+c.curY))
		}
	case 'H':
		if l == 0 {
			return errParamMismatch
		}
		for _, p := range c.points {
			if rel {
				relX = c.placeX
			}
			c.placeX = p + relX
			c.path.Line(pt(c.placeX+c.curX, c.placeY+c.curY))
		}
	case 'V':
		if l == 0 {
			return errParamMismatch
		}
		for _, p := range c.points {
			if rel {
				relY = c.placeY
			}
			c.placeY = p + relY
			c.path.Line(pt(c.placeX+c.curX, c.placeY+c.curY))
		}
	case 'Q':
		if l%4 != 0 || l == 0 {
			return errParamMismatch
		}
		for i := 0; i < l-3; i += 4 {
			if rel {
				relX, relY = c.placeX, c.placeY
			}
			c.cntlPtX, c.cntlPtY = c.points[i]+relX, c.points[i+1]+relY
			c.placeX, c.placeY = c.points[i+2]+relX, c.points[i+3]+relY
			c.path.QuadBezier(pt(c.cntlPtX+c.curX, c.cntlPtY+c.curY),
				pt(c.placeX+c.curX, c.placeY+c.curY))
		}
	case 'T':
		if l%2 != 0 || l == 0 {
			return errParamMismatch
		}
		for i := 0; i < l-1; i += 2 {
			if rel {
				relX, relY = c.placeX, c.placeY
			}
			c.cntlPtX, c.cntlPtY = c.reflect("QT")
			c.placeX, c.placeY = c.points[i]+relX, c.points[i+1]+relY
			c.path.QuadBezier(pt(c.cntlPtX+c.curX, c.cntlPtY+c.curY),
				pt(c.placeX+c.curX, c.placeY+c.curY))
			c.lastKey = 'T'
		}
	case 'C':
		if l%6 != 0 || l == 0 {
			return errParamMismatch
		}
		for i := 0; i < l-5; i += 6 {
			if rel {
				relX, relY = c.placeX, c.placeY
			}
			x1, y1 := c.points[i]+relX, c.points[i+1]+relY
			c.cntlPtX, c.cntlPtY = c.points[i+2]+relX, c.points[i+3]+relY
			c.placeX, c.placeY = c.points[i+4]+relX, c.points[i+5]+relY
			c.path.CubeBezier(pt(x1+c.curX, y1+c.curY),
				pt(c.cntlPtX+c.curX, c.cntlPtY+c.curY),
				pt(c.placeX+c.curX, c.placeY+c.curY))
		}
	case 'S':
		if l%4 != 0 || l == 0 {
			return errParamMismatch
		}
		for i := 0; i < l-3; i += 4 {
			if rel {
				relX, relY = c.placeX, c.placeY
			}
			x1, y1 := c.reflect("CS")
			c.cntlPtX, c.cntlPtY = c.points[i]+relX, c.points[i+1]+relY
			c.placeX, c.placeY = c.points[i+2]+relX, c.points[i+3]+relY
			c.path.CubeBezier(pt(x1+c.curX, y1+c.curY),
				pt(c.cntlPtX+c.curX, c.cntlPtY+c.curY),
				pt(c.placeX+c.curX, c.placeY+c.curY))
			c.lastKey = 'S'
		}
	case 'A':
		if l%7 != 0 || l == 0 {
			return errParamMismatch
		}
		for i := 0; i < l-6; i += 7 {
			if rel {
				relX, relY = c.placeX, c.placeY
			}
			arc := c.points[i : i+7 : i+7]
			rx, ry := math.Abs(arc[0]), math.Abs(arc[1])
			endX, endY := arc[5]+relX, arc[6]+relY
			if rx == 0 || ry == 0 {
				// degenerate arc is a straight line
				c.placeX, c.placeY = endX, endY
				c.path.Line(pt(c.placeX+c.curX, c.placeY+c.curY))
				continue
			}
			if endX == c.placeX && endY == c.placeY {
				continue // zero length arc is omitted
			}
			e := ellipticArc{
				rot: arc[2] * math.Pi / 180, large: arc[3] != 0, sweep: arc[4] != 0,
				x0: c.placeX, y0: c.placeY, x1: endX, y1: endY,
			}
			e.cx, e.cy, e.rx, e.ry = arcCenter(rx, ry, e.rot, e.x0, e.y0, e.x1, e.y1, e.sweep, e.large)
			adder := &matrixAdder{path: &c.path, M: Identity.Translate(c.curX, c.curY)}
			c.placeX, c.placeY = e.trace(adder)
		}
	default:
		return fmt.Errorf("%w: %c", errCommandUnknown, segString[0])
	}
	if k != 'T' && k != 'S' {
		c.lastKey = k
	}
	return nil
}

// compilePath translates the svgPath description string into a path.
// The resulting path element is stored in the pathCursor.
func (c *pathCursor) compilePath(svgPath string) error {
	c.init()
	lastIndex := -1
	for i, v := range svgPath {
		if unicode.IsLetter(v) && v != 'e' && v != 'E' {
			if lastIndex != -1 {
				if err := c.addSeg(svgPath[lastIndex:i]); err != nil {
					return fmt.Errorf("path segment %q: %w", svgPath[lastIndex:i], err)
				}
			} else if v != 'M' && v != 'm' {
				return fmt.Errorf("path data must start with a move, got %q", v)
			}
			lastIndex = i
		}
	}
	if lastIndex != -1 {
		if err := c.addSeg(svgPath[lastIndex:]); err != nil {
			return fmt.Errorf("path segment %q: %w", svgPath[lastIndex:], err)
		}
	}
	return nil
}

// init resets the cursor before compiling a new path
func (c *pathCursor) init() {
	c.placeX, c.placeY = 0, 0
	c.cntlPtX, c.cntlPtY = 0, 0
	c.pathStartX, c.pathStartY = 0, 0
	c.points = c.points[:0]
	c.lastKey = 0
}
