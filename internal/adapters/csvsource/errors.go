package csvsource

import (
	"errors"
	"fmt"
)

// Sentinel kinds for load errors. Every load error wraps exactly one.
var (
	ErrEmptyProblem  = errors.New("empty problem statement")
	ErrOpen          = errors.New("open simulation output")
	ErrRead          = errors.New("read simulation output")
	ErrShortRow      = errors.New("row has too few columns")
	ErrParseField    = errors.New("field conversion failed")
	ErrUnknownParent = errors.New("subtask parent task not loaded")
)

// FieldError locates a conversion failure inside a file.
type FieldError struct {
	File   string
	Line   int
	Column int
	Field  string
	Value  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s:%d: column %d (%s) = %q: %v", e.File, e.Line, e.Column, e.Field, e.Value, e.Err)
}

// Unwrap exposes both the kind and the underlying conversion error.
func (e *FieldError) Unwrap() []error {
	return []error{ErrParseField, e.Err}
}

// kindOf names the sentinel behind err for metric labels.
func kindOf(err error) string {
	switch {
	case errors.Is(err, ErrOpen):
		return "open"
	case errors.Is(err, ErrShortRow):
		return "short_row"
	case errors.Is(err, ErrParseField):
		return "parse"
	case errors.Is(err, ErrUnknownParent):
		return "unknown_parent"
	case errors.Is(err, ErrRead):
		return "read"
	default:
		return "other"
	}
}
