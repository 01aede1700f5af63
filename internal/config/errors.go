package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and describe the first
// problem found.
//
// Design decision: package-level sentinels let callers use errors.Is()
// while Validate stays free of formatting. Values that need context (such as
// an unknown subject name) are wrapped with fmt.Errorf and %w.
var (
	// ErrNoInput is returned when no problem file is given.
	ErrNoInput = errors.New("no input specified: provide at least one problem file")

	// ErrInvalidTimeout is returned when the run timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrUnknownSubject is returned when a disabled subject is not a known subject.
	ErrUnknownSubject = errors.New("unknown subject")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
