// Package render rasterizes radar charts to PNG or SVG with go-chart's
// drawing primitives.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/okian/radar/internal/domain/radar"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrUnsupportedFormat is returned for image formats other than png and svg.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Format is an output image format.
type Format string

// Supported formats.
const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat maps a file extension or name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(s, "."))) {
	case PNG:
		return PNG, nil
	case SVG:
		return SVG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

const (
	defaultSize  = 800
	gridRings    = 4
	labelOffset  = 14
	legendRow    = 20
	legendSwatch = 12
	markerRadius = 3
	fillAlpha    = 0x40
	fontSize     = 10
)

// palette follows the default qualitative colors of common plotting tools so
// traces read the same as in the browser.
var palette = []drawing.Color{
	drawing.ColorFromHex("636efa"),
	drawing.ColorFromHex("ef553b"),
	drawing.ColorFromHex("00cc96"),
	drawing.ColorFromHex("ab63fa"),
	drawing.ColorFromHex("ffa15a"),
	drawing.ColorFromHex("19d3f3"),
	drawing.ColorFromHex("ff6692"),
	drawing.ColorFromHex("b6e880"),
	drawing.ColorFromHex("ff97ff"),
	drawing.ColorFromHex("fecb52"),
}

var (
	background = drawing.ColorFromHex("dfdfdf")
	gridColor  = drawing.ColorFromHex("ffffff")
	textColor  = drawing.ColorFromHex("000000")
)

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithSize sets the image size in pixels.
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 && height > 0 {
			r.width, r.height = width, height
		}
	}
}

// Renderer draws radar charts.
type Renderer struct {
	width, height int
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{width: defaultSize, height: defaultSize}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes c to w as an image in format f.
func (r *Renderer) Render(w io.Writer, c radar.Chart, f Format) error {
	var provider chart.RendererProvider
	switch f {
	case PNG:
		provider = chart.PNG
	case SVG:
		provider = chart.SVG
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}

	rr, err := provider(r.width, r.height)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}
	rr.SetFont(font)
	rr.SetFontSize(fontSize)
	rr.SetFontColor(textColor)

	legendHeight := legendRow * (len(c.Traces) + 1)
	g := geometry{
		cx:     float64(r.width) / 2,
		cy:     float64(legendHeight) + float64(r.height-legendHeight)/2,
		radius: math.Min(float64(r.width), float64(r.height-legendHeight))/2 - 60,
		axes:   len(c.Axes),
	}
	if g.radius < 10 {
		g.radius = 10
	}

	drawGrid(rr, g)
	drawAxes(rr, g, c.Axes)
	for i, t := range c.Traces {
		drawTrace(rr, g, t, palette[i%len(palette)])
	}
	drawLegend(rr, c.Traces)

	if err := rr.Save(w); err != nil {
		return fmt.Errorf("save %s: %w", f, err)
	}
	return nil
}

type geometry struct {
	cx, cy, radius float64
	axes           int
}

// angle of axis i: the first axis points up, the rest follow clockwise.
func (g geometry) angle(i int) float64 {
	if g.axes == 0 {
		return -math.Pi / 2
	}
	return -math.Pi/2 + 2*math.Pi*float64(i)/float64(g.axes)
}

func (g geometry) point(i int, r float64) (int, int) {
	a := g.angle(i)
	return int(math.Round(g.cx + r*g.radius*math.Cos(a))), int(math.Round(g.cy + r*g.radius*math.Sin(a)))
}

func drawGrid(rr chart.Renderer, g geometry) {
	rr.SetFillColor(background)
	rr.SetStrokeColor(background)
	rr.SetStrokeWidth(1)
	rr.Circle(g.radius, int(g.cx), int(g.cy))
	rr.FillStroke()

	rr.SetStrokeColor(gridColor)
	for ring := 1; ring <= gridRings; ring++ {
		level := float64(ring) / gridRings
		if g.axes < 3 {
			rr.Circle(level*g.radius, int(g.cx), int(g.cy))
			rr.Stroke()
			continue
		}
		x, y := g.point(0, level)
		rr.MoveTo(x, y)
		for i := 1; i < g.axes; i++ {
			x, y = g.point(i, level)
			rr.LineTo(x, y)
		}
		rr.Close()
		rr.Stroke()
	}
}

func drawAxes(rr chart.Renderer, g geometry, axes []string) {
	rr.SetStrokeColor(gridColor)
	rr.SetStrokeWidth(1)
	for i, name := range axes {
		x, y := g.point(i, 1)
		rr.MoveTo(int(g.cx), int(g.cy))
		rr.LineTo(x, y)
		rr.Stroke()

		box := rr.MeasureText(name)
		a := g.angle(i)
		lx := g.cx + (g.radius+labelOffset)*math.Cos(a)
		ly := g.cy + (g.radius+labelOffset)*math.Sin(a)
		switch c := math.Cos(a); {
		case c < -0.1:
			lx -= float64(box.Width())
		case c <= 0.1:
			lx -= float64(box.Width()) / 2
		}
		if math.Sin(a) > 0.1 {
			ly += float64(box.Height())
		}
		rr.Text(name, int(lx), int(ly))
	}
}

func drawTrace(rr chart.Renderer, g geometry, t radar.Trace, color drawing.Color) {
	if len(t.Points) == 0 {
		return
	}
	rr.SetStrokeColor(color)
	rr.SetFillColor(color.WithAlpha(fillAlpha))
	rr.SetStrokeWidth(2)
	x, y := g.point(0, t.Points[0].Radius)
	rr.MoveTo(x, y)
	for i := 1; i < len(t.Points); i++ {
		x, y = g.point(i, t.Points[i].Radius)
		rr.LineTo(x, y)
	}
	rr.Close()
	rr.FillStroke()

	rr.SetFillColor(color)
	for i, p := range t.Points {
		x, y := g.point(i, p.Radius)
		rr.Circle(markerRadius, x, y)
		rr.Fill()
	}
}

func drawLegend(rr chart.Renderer, traces []radar.Trace) {
	for i, t := range traces {
		color := palette[i%len(palette)]
		top := legendRow * i
		left := legendRow

		rr.SetFillColor(color)
		rr.SetStrokeColor(color)
		rr.MoveTo(left, top+4)
		rr.LineTo(left+legendSwatch, top+4)
		rr.LineTo(left+legendSwatch, top+4+legendSwatch)
		rr.LineTo(left, top+4+legendSwatch)
		rr.Close()
		rr.FillStroke()

		rr.Text(t.Player, left+legendSwatch+6, top+4+legendSwatch)
	}
}
