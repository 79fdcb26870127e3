package chart

import (
	"github.com/okian/dmasviz/pkg/logger"
	"github.com/okian/dmasviz/pkg/metrics"
	"gonum.org/v1/plot/vg"
)

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(r *Renderer) {
		r.title = title
	}
}

// WithSize sets the chart size in centimetres. Non-positive values are
// ignored.
func WithSize(widthCM, heightCM float64) Option {
	return func(r *Renderer) {
		if widthCM > 0 && heightCM > 0 {
			r.width = vg.Length(widthCM) * vg.Centimeter
			r.height = vg.Length(heightCM) * vg.Centimeter
		}
	}
}

// WithFormat sets the output format: png, svg or pdf.
func WithFormat(format string) Option {
	return func(r *Renderer) {
		if format != "" {
			r.format = format
		}
	}
}

// WithExactSeries draws only the header satellites, dropping the series
// one index past the last name that is drawn by default.
func WithExactSeries(exact bool) Option {
	return func(r *Renderer) {
		r.exact = exact
	}
}

// WithLogger sets the renderer's logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics sets the metrics manager renders are recorded on.
func WithMetrics(m *metrics.Manager) Option {
	return func(r *Renderer) {
		if m != nil {
			r.metrics = m
		}
	}
}
