// Implements a raster backend to preview drawings,
// by wrapping rasterx.
//
// Two previews are available: the outline of the source
// document (RasterIcon), and the trace the laser will actually
// draw once the document is prepared (Render).
package svgraster

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/benoitkugler/laserdraw/svgcmd"
	"github.com/benoitkugler/laserdraw/svgflat"
	"github.com/benoitkugler/laserdraw/svgicon"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

var _ svgicon.Driver = (*Renderer)(nil) // assert interface conformance

// StrokeWidth is the width of the traced lines, in pixels.
const StrokeWidth = 2

// Renderer strokes paths with a uniform pen.
type Renderer struct {
	dasher   *rasterx.Dasher
	inStroke bool
}

// NewRenderer returns a renderer drawing in black.
// If scanner is nil, a default scanner rasterx.ScannerGV is used on `img`.
func NewRenderer(img *image.RGBA, scanner rasterx.Scanner) *Renderer {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if scanner == nil {
		scanner = rasterx.NewScannerGV(w, h, img, img.Bounds())
	}
	rd := &Renderer{dasher: rasterx.NewDasher(w, h, scanner)}
	rd.dasher.SetStroke(fixed.I(StrokeWidth), 0, rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Bevel, nil, 0)
	rd.dasher.Scanner.SetColor(color.Black)
	return rd
}

// SetupDrawer flushes the previous path.
func (rd *Renderer) SetupDrawer(int, *svgicon.SvgPath) svgicon.Drawer {
	rd.Flush()
	return rd
}

func (rd *Renderer) Start(a svgicon.Point) {
	rd.stop()
	rd.dasher.Start(toFixed(a))
	rd.inStroke = true
}

func (rd *Renderer) Line(b svgicon.Point) {
	rd.dasher.Line(toFixed(b))
}

func (rd *Renderer) CubeBezier(b, c, d svgicon.Point) {
	rd.dasher.CubeBezier(toFixed(b), toFixed(c), toFixed(d))
}

func (rd *Renderer) stop() {
	if rd.inStroke {
		rd.dasher.Stop(false)
		rd.inStroke = false
	}
}

// Flush rasterizes the pending strokes.
func (rd *Renderer) Flush() {
	rd.stop()
	rd.dasher.Draw()
	rd.dasher.Clear()
}

// RasterIcon renders the outline of the icon, fitted into a w x h image.
func RasterIcon(icon *svgicon.SvgIcon, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if icon.ViewBox.W > 0 && icon.ViewBox.H > 0 {
		icon.SetTarget(0, 0, float64(w), float64(h))
	}
	rd := NewRenderer(img, nil)
	icon.Draw(rd)
	rd.Flush()
	return img
}

// RasterSVGIconToImage parses and renders the icon at the size of its view box.
func RasterSVGIconToImage(icon io.Reader, mode svgicon.ErrorMode) (*image.RGBA, error) {
	parsedIcon, err := svgicon.ReadIconStream(icon, mode)
	if err != nil {
		return nil, err
	}
	return RasterIcon(parsedIcon, int(parsedIcon.ViewBox.W), int(parsedIcon.ViewBox.H)), nil
}

// toFixed rounds to the rasterizer resolution.
func toFixed(p svgicon.Point) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(p.X * 64), Y: fixed.Int26_6(p.Y * 64)}
}

// Render traces the laser path of the prepared sequences,
// in device units: moves are not drawn, each line and curve is
// a separate stroke, curves going through their flattened points.
func Render(seqs []svgcmd.Sequence, w, h int, mode svgflat.Mode) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	rd := NewRenderer(img, nil)
	var current svgcmd.Point
	for _, seq := range seqs {
		for _, c := range seq {
			switch c := c.(type) {
			case svgcmd.Move:
				current = svgcmd.Point(c)
			case svgcmd.Line:
				rd.Start(svgicon.Point{X: float64(int(current.X)), Y: float64(int(current.Y))})
				rd.Line(svgicon.Point{X: float64(int(c.X)), Y: float64(int(c.Y))})
				current = svgcmd.Point(c)
			case svgcmd.Curve:
				first := true
				for p := range svgflat.Flatten(mode, current, c) {
					if first {
						rd.Start(svgicon.Point{X: float64(p.X), Y: float64(p.Z)})
						first = false
						continue
					}
					rd.Line(svgicon.Point{X: float64(p.X), Y: float64(p.Z)})
				}
				current = c.P2
			}
		}
	}
	rd.Flush()
	return img
}

// WritePNG encodes the preview.
func WritePNG(out io.Writer, img image.Image) error {
	return png.Encode(out, img)
}
