package power_test

import (
	"errors"
	"testing"

	"github.com/okian/dmasviz/internal/domain/power"
	. "github.com/smartystreets/goconvey/convey"
)

func twoSatellites() power.Power {
	return power.Power{
		SatNames: [][]string{{"S1", "S2"}},
		Samples: []power.Sample{
			{Time: "0", Epoch: "0", Readings: []string{"1.5", "2.5"}},
			{Time: "1", Epoch: "1", Readings: []string{"1.6", "2.6"}},
			{Time: "2", Epoch: "2", Readings: []string{"1.7", "2.7"}},
		},
		Length: 3,
	}
}

func TestPowerSeries(t *testing.T) {
	Convey("Given power data for two satellites", t, func() {
		p := twoSatellites()

		Convey("When series are built over the header", func() {
			series, err := p.Series(false)

			Convey("Then there is one series per satellite", func() {
				So(err, ShouldBeNil)
				So(series, ShouldHaveLength, 2)
				So(series[0].Name, ShouldEqual, "S1")
				So(series[1].Values, ShouldResemble, []float64{2.5, 2.6, 2.7})
			})
		})

		Convey("When series include the trailing index", func() {
			series, err := p.Series(true)

			Convey("Then the extra index is out of range", func() {
				So(series, ShouldBeNil)
				So(errors.Is(err, power.ErrReadingIndex), ShouldBeTrue)
			})
		})

		Convey("When every row carries an extra column", func() {
			for i := range p.Samples {
				p.Samples[i].Readings = append(p.Samples[i].Readings, "9")
			}
			series, err := p.Series(true)

			Convey("Then the trailing series is drawn under a generated name", func() {
				So(err, ShouldBeNil)
				So(series, ShouldHaveLength, 3)
				So(series[2].Name, ShouldEqual, "series_2")
				So(series[2].Values, ShouldResemble, []float64{9, 9, 9})
			})
		})

		Convey("When a reading is not numeric", func() {
			p.Samples[1].Readings[0] = "n/a"
			_, err := p.Series(false)

			Convey("Then the build fails with a parse error", func() {
				So(errors.Is(err, power.ErrReadingParse), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "row 1")
			})
		})

		Convey("When a reading is padded with spaces", func() {
			p.Samples[0].Readings[0] = " 3.5 "
			v, err := p.Reading(0, 0)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 3.5)
		})

		Convey("When a row is short", func() {
			p.Samples[2].Readings = p.Samples[2].Readings[:1]
			_, err := p.Series(false)
			So(errors.Is(err, power.ErrReadingIndex), ShouldBeTrue)
		})

		Convey("Accessors return columns in row order", func() {
			So(p.Epochs(), ShouldResemble, []string{"0", "1", "2"})
			So(p.Times(), ShouldResemble, []string{"0", "1", "2"})
			So(p.Satellites(), ShouldResemble, []string{"S1", "S2"})
			v, err := p.Reading(1, 1)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 2.6)
		})
	})

	Convey("Given power data without a header", t, func() {
		_, err := power.Power{}.Series(false)
		So(err, ShouldEqual, power.ErrNoSatellites)
		So(power.Power{}.Satellites(), ShouldBeNil)
	})
}
