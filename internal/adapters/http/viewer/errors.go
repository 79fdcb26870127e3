package viewer

import "errors"

// Sentinel kinds for viewer errors.
var (
	ErrServe = errors.New("viewer serve failed")
	ErrWrite = errors.New("viewer write failed")
)
