package chart_test

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/okian/dmasviz/internal/adapters/chart"
	"github.com/okian/dmasviz/internal/domain/power"
	"github.com/okian/dmasviz/pkg/logger"
	"github.com/okian/dmasviz/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// samplePower builds two named satellites whose rows carry the extra reading
// column read at the index past the last name.
func samplePower(epochs ...string) power.Power {
	p := power.Power{SatNames: [][]string{{"S1", "S2"}}}
	for i, e := range epochs {
		v := float64(i)
		p.Samples = append(p.Samples, power.Sample{
			Time:     e,
			Epoch:    e,
			Readings: []string{formatFloat(1.5 + v/10), formatFloat(2.5 + v/10), formatFloat(3.5 + v/10)},
		})
	}
	p.Length = len(p.Samples)
	return p
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func newRenderer(opts ...chart.Option) *chart.Renderer {
	m := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
	return chart.NewRenderer(append([]chart.Option{chart.WithMetrics(m)}, opts...)...)
}

func TestRender(t *testing.T) {
	Convey("Given power data for two satellites", t, func() {
		p := samplePower("0", "1", "2")

		Convey("When rendered as png", func() {
			c, err := newRenderer().Render(context.Background(), p)

			Convey("Then a png with one line per satellite index through the count is produced", func() {
				So(err, ShouldBeNil)
				So(c.Series, ShouldEqual, 3)
				So(bytes.HasPrefix(c.Data, pngMagic), ShouldBeTrue)
				So(c.ContentType(), ShouldEqual, "image/png")
				So(c.Ext(), ShouldEqual, ".png")
			})
		})

		Convey("When rendered as svg with a title", func() {
			c, err := newRenderer(chart.WithFormat("svg"), chart.WithTitle("scenario power")).Render(context.Background(), p)

			Convey("Then the svg carries the title and legend", func() {
				So(err, ShouldBeNil)
				So(string(c.Data), ShouldContainSubstring, "<svg")
				So(string(c.Data), ShouldContainSubstring, "scenario power")
				So(string(c.Data), ShouldContainSubstring, "S2")
				So(string(c.Data), ShouldContainSubstring, "series_2")
			})
		})

		Convey("When only the named satellites are requested", func() {
			c, err := newRenderer(chart.WithExactSeries(true)).Render(context.Background(), p)

			Convey("Then one line per name is drawn", func() {
				So(err, ShouldBeNil)
				So(c.Series, ShouldEqual, 2)
			})
		})

		Convey("When rows lack the reading past the last satellite", func() {
			for i := range p.Samples {
				p.Samples[i].Readings = p.Samples[i].Readings[:2]
			}

			Convey("Then the default render fails on the extra index", func() {
				_, err := newRenderer().Render(context.Background(), p)
				So(errors.Is(err, power.ErrReadingIndex), ShouldBeTrue)
			})

			Convey("And the exact render still succeeds", func() {
				c, err := newRenderer(chart.WithExactSeries(true)).Render(context.Background(), p)
				So(err, ShouldBeNil)
				So(c.Series, ShouldEqual, 2)
			})
		})

		Convey("When rendered with a JSON logger", func() {
			var buf bytes.Buffer
			So(logger.InitWithWriter(&buf, logger.FormatJSON), ShouldBeNil)
			_, err := newRenderer(chart.WithLogger(logger.Get())).Render(context.Background(), p)

			Convey("Then the logged span runs from the first to the last time", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldContainSubstring, `"from":"0"`)
				So(buf.String(), ShouldContainSubstring, `"to":"2"`)
				So(buf.String(), ShouldContainSubstring, `"series":3`)
			})
		})

		Convey("When a reading is not numeric", func() {
			p.Samples[0].Readings[1] = "x"
			_, err := newRenderer().Render(context.Background(), p)
			So(errors.Is(err, power.ErrReadingParse), ShouldBeTrue)
		})

		Convey("When the format is unknown", func() {
			_, err := newRenderer(chart.WithFormat("bmp")).Render(context.Background(), p)
			So(errors.Is(err, chart.ErrFormat), ShouldBeTrue)
		})
	})

	Convey("Given power data with timestamp epochs", t, func() {
		p := samplePower("2020-01-01T00:00:00Z", "2020-01-01T00:01:00Z")

		Convey("Then it renders on a categorical axis", func() {
			c, err := newRenderer(chart.WithFormat("svg")).Render(context.Background(), p)
			So(err, ShouldBeNil)
			So(string(c.Data), ShouldContainSubstring, "2020-01-01T00:00:00Z")
		})
	})

	Convey("Given power data without samples", t, func() {
		_, err := newRenderer().Render(context.Background(), power.Power{SatNames: [][]string{{"S1"}}})
		So(err, ShouldEqual, chart.ErrNoSamples)
	})
}
