// Package log provides the solvecheck loggers: standard log/slog loggers
// whose handler masks sensitive attributes and clamps long values.
//
// Problem records come from a homework-help front end and may carry student
// identifiers, e-mail addresses and upstream API tokens next to the problem
// text. The SanitizingHandler masks:
//   - attributes whose key names a credential or a student identity
//   - string values that look like bearer tokens, JWTs, provider API keys
//     or e-mail addresses
//
// and clamps every other string value to MaxValueRunes runes, so that a
// debug line about one problem never dumps a whole page of OCR text.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Debug("plugin failed", "subject", "finance", "problem", id)
//	slog.SetDefault(logger)
package log
