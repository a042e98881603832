package repository

import "errors"

// ErrNotFound is returned by Get when no row has the requested id.
var ErrNotFound = errors.New("not found")
