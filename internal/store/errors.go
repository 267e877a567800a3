package store

import "errors"

// ErrNotFound indicates the requested row does not exist. Callers surface
// it directly; it is never retried.
var ErrNotFound = errors.New("not found")

// ErrValidation indicates the write was rejected before touching the
// database (invalid status value, score out of range).
var ErrValidation = errors.New("validation failed")
