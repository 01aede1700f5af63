package database

import "errors"

// ErrNotFound is returned when a run or problem has no stored rows.
var ErrNotFound = errors.New("not found in result database")
