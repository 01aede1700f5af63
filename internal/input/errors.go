package input

import "errors"

var (
	// ErrUnsupportedFormat is returned for a file extension with no loader.
	ErrUnsupportedFormat = errors.New("unsupported input format")

	// ErrEmptyInput is returned when a source holds no records.
	ErrEmptyInput = errors.New("input contains no problems")
)
