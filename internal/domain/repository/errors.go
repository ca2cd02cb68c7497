package repository

import "errors"

// ErrNotFound is returned by every repository when a lookup misses.
var ErrNotFound = errors.New("not found")
