package app

import "errors"

// ErrNoResult is returned when a scenario is saved before any optimization ran.
var ErrNoResult = errors.New("no optimization result available")
