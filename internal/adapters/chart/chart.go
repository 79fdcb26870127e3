// Package chart renders power telemetry as a line chart.
package chart

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/okian/dmasviz/internal/domain/power"
	"github.com/okian/dmasviz/pkg/logger"
	"github.com/okian/dmasviz/pkg/metrics"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Default rendering constants.
const (
	defaultTitle    = "Power"
	defaultFormat   = "png"
	defaultWidthCM  = 24
	defaultHeightCM = 14
	// maxCategoryTicks bounds the labels drawn on a categorical epoch axis.
	maxCategoryTicks = 12
)

var contentTypes = map[string]string{
	"png": "image/png",
	"svg": "image/svg+xml",
	"pdf": "application/pdf",
}

// Formats lists the supported output formats.
func Formats() []string {
	return []string{"png", "svg", "pdf"}
}

// Chart is a rendered image.
type Chart struct {
	Format string
	Data   []byte
	Series int
}

// ContentType returns the MIME type of the image.
func (c Chart) ContentType() string {
	return contentTypes[c.Format]
}

// Ext returns the file extension including the dot.
func (c Chart) Ext() string {
	return "." + c.Format
}

// Renderer draws power data.
type Renderer struct {
	title    string
	width    vg.Length
	height   vg.Length
	format  string
	exact   bool
	logger  logger.Logger
	metrics *metrics.Manager
}

// NewRenderer creates a renderer with defaults overridden by opts.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		title:   defaultTitle,
		width:   defaultWidthCM * vg.Centimeter,
		height:  defaultHeightCM * vg.Centimeter,
		format:  defaultFormat,
		logger:  logger.Nop(),
		metrics: metrics.Global(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws one line per satellite index against the epoch column, with
// grid lines and a legend. Indices run from 0 through the satellite count
// unless WithExactSeries is set; a row without a reading at the last index
// fails with power.ErrReadingIndex. Any reading that cannot be converted
// fails the whole chart.
func (r *Renderer) Render(ctx context.Context, p power.Power) (Chart, error) {
	if _, ok := contentTypes[r.format]; !ok {
		return Chart{}, fmt.Errorf("%w: %q", ErrFormat, r.format)
	}
	if len(p.Samples) == 0 {
		return Chart{}, ErrNoSamples
	}
	start := time.Now()

	series, err := p.Series(!r.exact)
	if err != nil {
		return Chart{}, err
	}

	plt := plot.New()
	plt.Title.Text = r.title
	plt.X.Label.Text = "epoch"
	plt.Y.Label.Text = "power"
	plt.Add(plotter.NewGrid())
	plt.Legend.Top = true

	xs, ticks := epochAxis(p.Epochs())
	if ticks != nil {
		plt.X.Tick.Marker = ticks
	}

	for i, s := range series {
		xys := make(plotter.XYs, len(s.Values))
		for j, v := range s.Values {
			xys[j].X = xs[j]
			xys[j].Y = v
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return Chart{}, fmt.Errorf("%w: series %s: %w", ErrRender, s.Name, err)
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i / len(plotutil.DefaultColors))
		plt.Add(line)
		plt.Legend.Add(s.Name, line)
	}

	wt, err := plt.WriterTo(r.width, r.height, r.format)
	if err != nil {
		return Chart{}, fmt.Errorf("%w: %w", ErrRender, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return Chart{}, fmt.Errorf("%w: %w", ErrRender, err)
	}

	elapsed := time.Since(start)
	times := p.Times()
	r.metrics.RecordRender(float64(elapsed.Microseconds())/1000, len(series))
	r.logger.Info(ctx, "rendered power chart",
		logger.Int("series", len(series)), logger.Int("samples", len(p.Samples)),
		logger.String("from", times[0]), logger.String("to", times[len(times)-1]),
		logger.String("format", r.format), logger.Duration("elapsed", elapsed))

	return Chart{Format: r.format, Data: buf.Bytes(), Series: len(series)}, nil
}

// epochAxis places samples on the x axis. Numeric epochs are plotted by
// value. If any epoch is not a number every sample is placed by its row
// index and labelled with its epoch text.
func epochAxis(epochs []string) ([]float64, plot.Ticker) {
	xs := make([]float64, len(epochs))
	numeric := true
	for i, e := range epochs {
		v, err := strconv.ParseFloat(strings.TrimSpace(e), 64)
		if err != nil {
			numeric = false
			break
		}
		xs[i] = v
	}
	if numeric {
		return xs, nil
	}

	step := (len(epochs) + maxCategoryTicks - 1) / maxCategoryTicks
	if step < 1 {
		step = 1
	}
	ticks := make(plot.ConstantTicks, 0, len(epochs))
	for i, e := range epochs {
		xs[i] = float64(i)
		label := ""
		if i%step == 0 {
			label = e
		}
		ticks = append(ticks, plot.Tick{Value: float64(i), Label: label})
	}
	return xs, ticks
}
