package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/okian/dmasviz/internal/adapters/chart"
	"github.com/okian/dmasviz/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should point at the sibling problem directories", func() {
			convey.So(cfg.DataRoot, convey.ShouldEqual, "..")
			convey.So(cfg.PowerFile, convey.ShouldEqual, "power.csv")
			convey.So(cfg.TaskFile, convey.ShouldEqual, "taskScores.csv")
			convey.So(cfg.SubtaskFile, convey.ShouldEqual, "subtaskScores.csv")
			convey.So(cfg.Viewer, convey.ShouldEqual, config.ViewerFile)
			convey.So(cfg.ChartFormat, convey.ShouldEqual, "png")
			convey.So(cfg.ExactSeries, convey.ShouldBeFalse)
			convey.So(cfg.Workers, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		convey.Convey("When the data root is empty", func() {
			cfg.DataRoot = ""
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the chart format is unknown", func() {
			cfg.ChartFormat = "gif"
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "gif")
		})

		convey.Convey("When the viewer is unknown", func() {
			cfg.Viewer = "window"
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the chart has no height", func() {
			cfg.ChartHeightCM = 0
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When there are no workers", func() {
			cfg.Workers = 0
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the chart format is one the renderer supports", func() {
			for _, format := range chart.Formats() {
				cfg.ChartFormat = format
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			}
		})

		convey.Convey("When the http viewer has no address", func() {
			cfg.Viewer = config.ViewerHTTP
			cfg.Addr = ""
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
