package svgicon

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
)

func init() {
	// useF replays definitions through drawFuncs
	drawFuncs["use"] = useF
}

// svgFunc handles the attributes of one element,
// appending its geometry to the cursor path.
type svgFunc func(c *iconCursor, attrs []xml.Attr) error

// drawFuncs lists the supported elements. Only those with a
// geometry end up as a traced path.
var drawFuncs = map[string]svgFunc{
	"svg":      svgF,
	"g":        noopF,
	"line":     lineF,
	"rect":     rectF,
	"circle":   ellipseF,
	"ellipse":  ellipseF,
	"polyline": polylineF,
	"polygon":  polygonF,
	"path":     pathF,
	"desc":     descF,
	"defs":     defsF,
	"title":    titleF,

	// paint servers and metadata carry no geometry
	"linearGradient": noopF,
	"radialGradient": noopF,
	"stop":           noopF,
	"metadata":       noopF,
	"style":          noopF,
}

func pt(x, y float64) Point { return Point{X: x, Y: y} }

// readFloats stores the numeric attributes named in `dst`.
// Absent attributes leave their target untouched.
func readFloats(attrs []xml.Attr, dst map[string]*float64) error {
	for _, attr := range attrs {
		target, ok := dst[attr.Name.Local]
		if !ok {
			continue
		}
		v, err := parseBasicFloat(attr.Value)
		if err != nil {
			return fmt.Errorf("attribute %s: %w", attr.Name.Local, err)
		}
		*target = v
	}
	return nil
}

func svgF(c *iconCursor, attrs []xml.Attr) error {
	c.icon.ViewBox = Bounds{}
	var width, height float64
	for _, attr := range attrs {
		var err error
		switch attr.Name.Local {
		case "viewBox":
			if err = c.getPoints(attr.Value); err == nil && len(c.points) != 4 {
				err = errParamMismatch
			}
			if err == nil {
				c.icon.ViewBox = Bounds{X: c.points[0], Y: c.points[1], W: c.points[2], H: c.points[3]}
			}
		case "width":
			c.icon.Width = attr.Value
			if !strings.HasSuffix(attr.Value, "%") {
				width, err = parseBasicFloat(attr.Value)
			}
		case "height":
			c.icon.Height = attr.Value
			if !strings.HasSuffix(attr.Value, "%") {
				height, err = parseBasicFloat(attr.Value)
			}
		}
		if err != nil {
			return fmt.Errorf("svg %s: %w", attr.Name.Local, err)
		}
	}
	// the viewport size stands for a missing view box
	if c.icon.ViewBox.W == 0 {
		c.icon.ViewBox.W = width
	}
	if c.icon.ViewBox.H == 0 {
		c.icon.ViewBox.H = height
	}
	return nil
}

// noopF is used by grouping elements, which only push a transform
func noopF(*iconCursor, []xml.Attr) error { return nil }

func rectF(c *iconCursor, attrs []xml.Attr) error {
	var x, y, w, h, rx, ry float64
	err := readFloats(attrs, map[string]*float64{
		"x": &x, "y": &y, "width": &w, "height": &h, "rx": &rx, "ry": &ry,
	})
	if err != nil || w == 0 || h == 0 {
		return err
	}
	if rx == 0 {
		rx = ry
	} else if ry == 0 {
		ry = rx
	}
	x, y = x+c.curX, y+c.curY
	c.path.addRoundRect(x, y, x+w, y+h, rx, ry)
	return nil
}

// ellipseF handles both circles (r) and ellipses (rx, ry).
// A zero radius disables the rendering.
func ellipseF(c *iconCursor, attrs []xml.Attr) error {
	var cx, cy, r, rx, ry float64
	err := readFloats(attrs, map[string]*float64{
		"cx": &cx, "cy": &cy, "r": &r, "rx": &rx, "ry": &ry,
	})
	if err != nil {
		return err
	}
	if rx == 0 {
		rx = r
	}
	if ry == 0 {
		ry = r
	}
	if rx == 0 || ry == 0 {
		return nil
	}
	c.path.addEllipse(cx+c.curX, cy+c.curY, rx, ry)
	return nil
}

func lineF(c *iconCursor, attrs []xml.Attr) error {
	var x1, y1, x2, y2 float64
	err := readFloats(attrs, map[string]*float64{
		"x1": &x1, "y1": &y1, "x2": &x2, "y2": &y2,
	})
	if err != nil {
		return err
	}
	c.path.Start(pt(x1+c.curX, y1+c.curY))
	c.path.Line(pt(x2+c.curX, y2+c.curY))
	return nil
}

// polyline traces the open polygonal chain of the points attribute.
// It returns the number of vertices added.
func polyline(c *iconCursor, attrs []xml.Attr) (int, error) {
	c.points = c.points[:0]
	for _, attr := range attrs {
		if attr.Name.Local != "points" {
			continue
		}
		if err := c.getPoints(attr.Value); err != nil {
			return 0, err
		}
		if len(c.points)%2 != 0 {
			return 0, errors.New("odd number of coordinates in points")
		}
	}
	if len(c.points) < 4 {
		return 0, nil
	}
	c.path.Start(pt(c.points[0]+c.curX, c.points[1]+c.curY))
	for i := 2; i+1 < len(c.points); i += 2 {
		c.path.Line(pt(c.points[i]+c.curX, c.points[i+1]+c.curY))
	}
	return len(c.points) / 2, nil
}

func polylineF(c *iconCursor, attrs []xml.Attr) error {
	_, err := polyline(c, attrs)
	return err
}

func polygonF(c *iconCursor, attrs []xml.Attr) error {
	n, err := polyline(c, attrs)
	if n > 0 {
		c.path.Stop(true)
	}
	return err
}

func pathF(c *iconCursor, attrs []xml.Attr) error {
	for _, attr := range attrs {
		if attr.Name.Local != "d" {
			continue
		}
		if err := c.compilePath(attr.Value); err != nil {
			return err
		}
	}
	return nil
}

func descF(c *iconCursor, _ []xml.Attr) error {
	c.inDescText = true
	c.icon.Descriptions = append(c.icon.Descriptions, "")
	return nil
}

func titleF(c *iconCursor, _ []xml.Attr) error {
	c.inTitleText = true
	c.icon.Titles = append(c.icon.Titles, "")
	return nil
}

func defsF(c *iconCursor, _ []xml.Attr) error {
	c.inDefs = true
	return nil
}

func (c *iconCursor) popStyle() { c.styleStack = c.styleStack[:len(c.styleStack)-1] }

// useF replays a definition saved under the `#id` reference
// of its href, offset by its x and y attributes.
func useF(c *iconCursor, attrs []xml.Attr) error {
	var href string
	for _, attr := range attrs {
		if attr.Name.Local == "href" {
			href = attr.Value
		}
	}
	var x, y float64
	if err := readFloats(attrs, map[string]*float64{"x": &x, "y": &y}); err != nil {
		return err
	}
	id, ok := strings.CutPrefix(href, "#")
	if !ok || id == "" {
		return fmt.Errorf("use: unsupported href %q", href)
	}
	defs, ok := c.icon.defs[id]
	if !ok {
		return fmt.Errorf("use: unknown definition %q", id)
	}

	c.curX, c.curY = x, y
	defer func() { c.curX, c.curY = 0, 0 }()
	for _, def := range defs {
		if def.Tag == "endg" {
			c.popStyle()
			continue
		}
		if err := c.pushStyle(def.Attrs); err != nil {
			return err
		}
		df, ok := drawFuncs[def.Tag]
		if !ok {
			c.popStyle()
			if err := c.unsupported(def.Tag); err != nil {
				return err
			}
			continue
		}
		if err := df(c, def.Attrs); err != nil {
			return err
		}
		c.flushPath(def.Tag, def.Attrs)
		if def.Tag != "g" {
			c.popStyle()
		}
	}
	return nil
}
