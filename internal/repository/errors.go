package repository

import "errors"

// ErrNotFound hides the underlying ORM's not-found error from callers.
var ErrNotFound = errors.New("record not found")
