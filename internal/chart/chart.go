// Package chart renders the genre rating summary as a PNG bar chart.
package chart

import (
	"bytes"
	"log/slog"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"moviepulse/internal/errors"
	"moviepulse/pkg/contracts/domain"
)

const (
	DefaultTitle  = "Average rating by genre"
	NoDataTitle   = "Average rating by genre (no data)"
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 6 * vg.Inch
)

// Options controls chart rendering
type Options struct {
	Title string
	// TopN caps the number of bars; 0 draws every ranked label
	TopN   int
	Width  vg.Length
	Height vg.Length
}

// DefaultOptions returns the standard chart size and title
func DefaultOptions() Options {
	return Options{
		Title:  DefaultTitle,
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}
}

// Renderer draws genre summaries
type Renderer struct {
	opts   Options
	logger *slog.Logger
}

// NewRenderer creates a renderer, filling unset options with defaults
func NewRenderer(opts Options, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultOptions()
	if opts.Title == "" {
		opts.Title = def.Title
	}
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	return &Renderer{
		opts:   opts,
		logger: logger.With(slog.String("component", "chart")),
	}
}

// RenderPNG draws one bar per ranked label in rank order. An empty summary
// still produces an image, titled to say there is no data.
func (r *Renderer) RenderPNG(summary domain.GenreSummary) ([]byte, error) {
	if r.opts.TopN > 0 && len(summary.Ranked) > r.opts.TopN {
		summary.Ranked = summary.Ranked[:r.opts.TopN]
	}
	ranked := summary.Ranked

	p := plot.New()
	p.Title.Text = r.opts.Title
	p.Y.Label.Text = "mean rating"
	p.X.Label.Text = "genre"
	p.Y.Min = 0

	if len(ranked) == 0 {
		p.Title.Text = NoDataTitle
		p.X.Min, p.X.Max = 0, 1
		p.Y.Max = 1
	} else {
		values := plotter.Values(summary.Means())
		labels := summary.Labels()
		maxMean := 0.0
		for _, v := range values {
			maxMean = math.Max(maxMean, v)
		}

		bars, err := plotter.NewBarChart(values, barWidth(r.opts.Width, len(ranked)))
		if err != nil {
			return nil, errors.NewRenderError("failed to build bar chart", err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(0)

		p.Add(bars, plotter.NewGrid())
		p.NominalX(labels...)
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
		if maxMean > 0 {
			p.Y.Max = maxMean * 1.1
		}
	}

	w, err := p.WriterTo(r.opts.Width, r.opts.Height, "png")
	if err != nil {
		return nil, errors.NewRenderError("failed to create png canvas", err)
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, errors.NewRenderError("failed to encode png", err)
	}

	r.logger.Debug("chart rendered",
		slog.Int("bars", len(ranked)),
		slog.Int("bytes", buf.Len()),
		slog.String("title", p.Title.Text))

	return buf.Bytes(), nil
}

// barWidth spreads the bars over about 80% of the canvas
func barWidth(width vg.Length, bars int) vg.Length {
	if bars <= 0 {
		return vg.Points(20)
	}
	w := width * 0.8 / vg.Length(bars) * 0.7
	if w < vg.Points(4) {
		return vg.Points(4)
	}
	if w > vg.Points(60) {
		return vg.Points(60)
	}
	return w
}

