package scores

import "errors"

// ErrUnknownTask is returned when a subtask names a task that is not loaded.
var ErrUnknownTask = errors.New("unknown parent task")
