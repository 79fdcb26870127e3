// Package power models per-satellite power telemetry as written by the
// simulator's power.csv.
package power

import (
	"fmt"
	"strconv"
	"strings"
)

// Sample is one telemetry row. Values stay as read from the file.
type Sample struct {
	Time     string
	Epoch    string
	Readings []string
}

// Power is a loaded power.csv.
//
// SatNames holds the header row as a single nested sequence, mirroring the
// file layout: SatNames[0] lists the satellites. Rows are not checked against
// the header, so Readings may be ragged.
type Power struct {
	SatNames [][]string
	Samples  []Sample
	Length   int
}

// Series is the numeric readings of one satellite across all samples.
type Series struct {
	Name   string
	Values []float64
}

// Satellites returns the header satellite names.
func (p Power) Satellites() []string {
	if len(p.SatNames) == 0 {
		return nil
	}
	return p.SatNames[0]
}

// Epochs returns the epoch column in row order.
func (p Power) Epochs() []string {
	out := make([]string, len(p.Samples))
	for i, s := range p.Samples {
		out[i] = s.Epoch
	}
	return out
}

// Times returns the time column in row order.
func (p Power) Times() []string {
	out := make([]string, len(p.Samples))
	for i, s := range p.Samples {
		out[i] = s.Time
	}
	return out
}

// Reading converts the reading of satellite sat in row to a float.
func (p Power) Reading(row, sat int) (float64, error) {
	if row < 0 || row >= len(p.Samples) {
		return 0, fmt.Errorf("%w: row %d of %d", ErrReadingIndex, row, len(p.Samples))
	}
	readings := p.Samples[row].Readings
	if sat < 0 || sat >= len(readings) {
		return 0, fmt.Errorf("%w: satellite %d in row %d has %d readings", ErrReadingIndex, sat, row, len(readings))
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(readings[sat]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: row %d satellite %d: %w", ErrReadingParse, row, sat, err)
	}
	return v, nil
}

// SeriesCount returns how many series Series will build. With trailing set
// the indices run from 0 up to and including the header satellite count, so
// one index past the last named satellite is drawn.
func (p Power) SeriesCount(trailing bool) int {
	n := len(p.Satellites())
	if trailing {
		n++
	}
	return n
}

// Series builds one numeric series per satellite index. Any reading that is
// missing or not a number aborts the whole build.
func (p Power) Series(trailing bool) ([]Series, error) {
	count := p.SeriesCount(trailing)
	if count == 0 {
		return nil, ErrNoSatellites
	}
	names := p.Satellites()
	out := make([]Series, 0, count)
	for sat := 0; sat < count; sat++ {
		name := fmt.Sprintf("series_%d", sat)
		if sat < len(names) {
			name = names[sat]
		}
		values := make([]float64, len(p.Samples))
		for row := range p.Samples {
			v, err := p.Reading(row, sat)
			if err != nil {
				return nil, err
			}
			values[row] = v
		}
		out = append(out, Series{Name: name, Values: values})
	}
	return out, nil
}
