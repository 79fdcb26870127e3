// Package config defines the visualizer configuration and how it is loaded.
package config

import (
	"fmt"
	"runtime"
	"slices"

	"github.com/okian/dmasviz/internal/adapters/chart"
)

var viewers = []string{ViewerFile, ViewerHTTP}

// Viewer kinds.
const (
	ViewerFile = "file"
	ViewerHTTP = "http"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// DataRoot is the parent directory of the problem statement directories.
	DataRoot string `koanf:"data_root"`

	// File names inside a problem statement directory.
	PowerFile   string `koanf:"power_file"`
	TaskFile    string `koanf:"task_file"`
	SubtaskFile string `koanf:"subtask_file"`

	// OutputDir receives rendered charts when the file viewer is used.
	OutputDir string `koanf:"output_dir"`

	ChartFormat   string  `koanf:"chart_format"`
	ChartWidthCM  float64 `koanf:"chart_width_cm"`
	ChartHeightCM float64 `koanf:"chart_height_cm"`
	ChartTitle    string  `koanf:"chart_title"`

	// ExactSeries plots only the named satellites. By default the plotter
	// also draws the index one past the last name, which needs an extra
	// reading column in every power row.
	ExactSeries bool `koanf:"exact_series"`

	// Viewer is "file" (write and return) or "http" (serve until dismissed).
	Viewer string `koanf:"viewer"`

	// Addr configures the HTTP viewer listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Workers bounds how many problem statements are plotted at once.
	Workers int `koanf:"workers"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		DataRoot:      "..",
		PowerFile:     "power.csv",
		TaskFile:      "taskScores.csv",
		SubtaskFile:   "subtaskScores.csv",
		OutputDir:     ".",
		ChartFormat:   "png",
		ChartWidthCM:  24,
		ChartHeightCM: 14,
		ChartTitle:    "Power",
		Viewer:        ViewerFile,
		Addr:          ":9080",
		Workers:       runtime.NumCPU(),
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.DataRoot == "":
		return fmt.Errorf("%w: data_root must not be empty", ErrInvalidConfig)
	case !slices.Contains(chart.Formats(), c.ChartFormat):
		return fmt.Errorf("%w: chart_format %q not one of %v", ErrInvalidConfig, c.ChartFormat, chart.Formats())
	case !slices.Contains(viewers, c.Viewer):
		return fmt.Errorf("%w: viewer %q not one of %v", ErrInvalidConfig, c.Viewer, viewers)
	case c.ChartWidthCM <= 0 || c.ChartHeightCM <= 0:
		return fmt.Errorf("%w: chart size must be positive", ErrInvalidConfig)
	case c.Viewer == ViewerHTTP && c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidConfig)
	}
	return nil
}
