package power

import "errors"

// Sentinel kinds for power series errors.
var (
	ErrReadingIndex = errors.New("reading index out of range")
	ErrReadingParse = errors.New("reading is not a number")
	ErrNoSatellites = errors.New("no satellites in header")
)
