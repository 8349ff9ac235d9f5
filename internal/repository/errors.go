package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist.
// Callers should test with errors.Is.
var ErrNotFound = errors.New("not found")
