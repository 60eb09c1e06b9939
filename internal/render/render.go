// Package render draws models.Chart values as SVG or PNG images.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/RMahshie/specplot/pkg/models"
)

// ErrNoSeries is returned when a chart has nothing to draw
var ErrNoSeries = errors.New("chart has no series to draw")

// Format is an output image format
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat validates an image format name; empty means SVG
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(value)) {
	case "", FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unsupported image format %q", value)
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// Extension returns the file extension including the dot
func (f Format) Extension() string {
	if f == FormatPNG {
		return ".png"
	}
	return ".svg"
}

// Options controls figure size and line styling
type Options struct {
	Width     int
	Height    int
	Format    Format
	LineWidth float64
	FontSize  float64
}

// DefaultOptions matches the dashboard figure size
var DefaultOptions = Options{
	Width:     1024,
	Height:    768,
	Format:    FormatSVG,
	LineWidth: 2,
	FontSize:  12,
}

// Renderer turns chart descriptions into images
type Renderer struct {
	opts Options
}

// New creates a renderer, filling unset options from DefaultOptions
func New(opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = DefaultOptions.Width
	}
	if opts.Height <= 0 {
		opts.Height = DefaultOptions.Height
	}
	if opts.Format == "" {
		opts.Format = DefaultOptions.Format
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = DefaultOptions.LineWidth
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultOptions.FontSize
	}
	return &Renderer{opts: opts}
}

// Format returns the image format this renderer produces
func (r *Renderer) Format() Format {
	return r.opts.Format
}

// Bytes renders c into memory
func (r *Renderer) Bytes(c models.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(c, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render draws c to w
func (r *Renderer) Render(c models.Chart, w io.Writer) error {
	series := make([]chart.Series, 0, len(c.Series)+2*len(c.Markers))
	xmin, xmax := math.Inf(1), math.Inf(-1)
	ymin, ymax := math.Inf(1), math.Inf(-1)

	for i, s := range c.Series {
		xs, ys := s.X, s.Y
		if c.LogY {
			xs, ys = positiveOnly(xs, ys)
		}
		if len(xs) == 0 {
			continue
		}
		for j := range xs {
			xmin, xmax = math.Min(xmin, xs[j]), math.Max(xmax, xs[j])
			ymin, ymax = math.Min(ymin, ys[j]), math.Max(ymax, ys[j])
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: paletteColor(i),
				StrokeWidth: r.opts.LineWidth,
			},
		})
	}
	if len(series) == 0 {
		return ErrNoSeries
	}

	var yTicks []chart.Tick
	var yRange chart.Range
	if c.LogY {
		yTicks = decadeTicks(ymin, ymax)
		yRange = &logRange{ContinuousRange: chart.ContinuousRange{Min: yTicks[0].Value, Max: yTicks[len(yTicks)-1].Value}}
	} else {
		yTicks = niceTicks(ymin, ymax, 6)
		yRange = &chart.ContinuousRange{Min: yTicks[0].Value, Max: yTicks[len(yTicks)-1].Value}
	}
	lowY, highY := yTicks[0].Value, yTicks[len(yTicks)-1].Value

	for _, m := range c.Markers {
		if m.X < xmin || m.X > xmax {
			continue
		}
		color := paletteColor(m.Color)
		series = append(series,
			chart.ContinuousSeries{
				Name:    "peak " + m.Label,
				XValues: []float64{m.X, m.X},
				YValues: []float64{lowY, highY},
				Style: chart.Style{
					StrokeColor:     color,
					StrokeWidth:     1,
					StrokeDashArray: []float64{5, 5},
				},
			},
			chart.AnnotationSeries{
				Annotations: []chart.Value2{{XValue: m.X, YValue: lowY, Label: m.Label}},
				Style: chart.Style{
					StrokeColor: color,
					FontSize:    r.opts.FontSize * 0.8,
				},
			},
		)
	}

	xTicks := niceTicks(xmin, xmax, 8)
	axisStyle := chart.Style{FontSize: r.opts.FontSize}

	graph := chart.Chart{
		Title:  c.Title,
		Width:  r.opts.Width,
		Height: r.opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:      c.XLabel,
			NameStyle: axisStyle,
			Style:     axisStyle,
			Ticks:     xTicks,
			Range: &chart.ContinuousRange{
				Min:        xTicks[0].Value,
				Max:        xTicks[len(xTicks)-1].Value,
				Descending: c.XReversed,
			},
		},
		YAxis: chart.YAxis{
			Name:      c.YLabel,
			NameStyle: axisStyle,
			Style:     axisStyle,
			Ticks:     yTicks,
			Range:     yRange,
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	provider := chart.SVG
	if r.opts.Format == FormatPNG {
		provider = chart.PNG
	}
	if err := graph.Render(provider, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// logRange maps values onto the axis by their base-10 logarithm
type logRange struct {
	chart.ContinuousRange
}

// Translate maps value to a pixel offset within the domain
func (r *logRange) Translate(value float64) int {
	if value < r.Min {
		value = r.Min
	}
	lo, hi := math.Log10(r.Min), math.Log10(r.Max)
	ratio := (math.Log10(value) - lo) / (hi - lo)
	return int(math.Ceil(ratio * float64(r.Domain)))
}

func positiveOnly(xs, ys []float64) ([]float64, []float64) {
	outX := make([]float64, 0, len(xs))
	outY := make([]float64, 0, len(ys))
	for i := range xs {
		if ys[i] > 0 {
			outX = append(outX, xs[i])
			outY = append(outY, ys[i])
		}
	}
	return outX, outY
}

// palette is the default qualitative colour cycle, shared by curves and their peak markers
var palette = []drawing.Color{
	{R: 0x63, G: 0x6e, B: 0xfa, A: 0xff},
	{R: 0xef, G: 0x55, B: 0x3b, A: 0xff},
	{R: 0x00, G: 0xcc, B: 0x96, A: 0xff},
	{R: 0xab, G: 0x63, B: 0xfa, A: 0xff},
	{R: 0xff, G: 0xa1, B: 0x5a, A: 0xff},
	{R: 0x19, G: 0xd3, B: 0xf3, A: 0xff},
	{R: 0xff, G: 0x66, B: 0x92, A: 0xff},
	{R: 0xb6, G: 0xe8, B: 0x80, A: 0xff},
	{R: 0xff, G: 0x97, B: 0xff, A: 0xff},
	{R: 0xfe, G: 0xcb, B: 0x52, A: 0xff},
}

func paletteColor(i int) drawing.Color {
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}
