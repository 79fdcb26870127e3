package service

import "errors"

// Sentinel kinds for service wiring errors.
var (
	ErrNoLoader = errors.New("no loader configured")
	ErrNoViewer = errors.New("no viewer configured")
)
