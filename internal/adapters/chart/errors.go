package chart

import "errors"

// Sentinel kinds for chart errors.
var (
	ErrNoSamples = errors.New("no samples to plot")
	ErrFormat    = errors.New("unsupported chart format")
	ErrRender    = errors.New("chart render failed")
)
