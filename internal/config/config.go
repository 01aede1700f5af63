package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/solvecheck/internal/model"
)

// Default configuration values.
const (
	// DefaultTimeout bounds a whole verification run. Verifying one problem
	// takes milliseconds; the limit only guards against huge inputs.
	DefaultTimeout = 5 * time.Minute

	// DefaultBatchSize is the number of problems verified concurrently.
	DefaultBatchSize = 10

	// AppName is the application name used for XDG directory paths.
	AppName = "solvecheck"

	// DatabaseFile is the file name of the result database inside DBDir.
	DatabaseFile = "solvecheck.db"
)

// Config holds all options of a verification run.
// It is populated from CLI flags, then from the configuration file, and
// passed down explicitly rather than kept in global state.
//
// Design decision: one flat struct, like the flag set it mirrors. The
// engine itself has no configuration beyond the disabled subjects, so
// nesting would only add indirection.
type Config struct {
	// Inputs are the problem files to verify (.json, .jsonl, .yaml, .yml).
	// "-" reads JSON Lines from standard input.
	Inputs []string

	// Timeout bounds the whole run.
	Timeout time.Duration

	// BatchSize is the number of problems verified concurrently.
	BatchSize int

	// Verbose enables debug logging.
	Verbose bool

	// JSONReport selects the JSON report. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects the Markdown report. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// ConfigFilePath is an explicit configuration file. When empty,
	// .solvecheck is searched in the current and home directories.
	ConfigFilePath string

	// DisabledSubjects are subjects whose plugins are removed from the engine.
	DisabledSubjects []string

	// DBDir is the directory of the result database.
	DBDir string

	// SaveToDB stores the run and its results in the database.
	SaveToDB bool
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Timeout:   DefaultTimeout,
		BatchSize: DefaultBatchSize,
		DBDir:     XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for solvecheck.
// On Linux: ~/.local/share/solvecheck
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for solvecheck.
// On Linux: ~/.config/solvecheck
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DatabasePath returns the path of the result database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DBDir, DatabaseFile)
}

// Subjects resolves DisabledSubjects into model subjects.
func (c *Config) Subjects() ([]model.Subject, error) {
	out := make([]model.Subject, 0, len(c.DisabledSubjects))
	for _, name := range c.DisabledSubjects {
		s, ok := model.ParseSubject(strings.ToLower(strings.TrimSpace(name)))
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSubject, name)
		}
		out = append(out, s)
	}
	return out, nil
}

// Apply merges a configuration file into the config. Values set on the
// command line win: the file only fills fields that still hold defaults.
func (c *Config) Apply(f *File) {
	if f == nil {
		return
	}
	if c.BatchSize == DefaultBatchSize && f.BatchSize > 0 {
		c.BatchSize = f.BatchSize
	}
	if f.DBDir != "" && c.DBDir == XDGDataDir() {
		c.DBDir = f.DBDir
	}
	if f.SaveResults {
		c.SaveToDB = true
	}
	c.DisabledSubjects = append(c.DisabledSubjects, f.DisabledSubjects...)
}

// Validate checks the configuration and returns the first problem found.
//
// Design decision: validation runs once after flags and the file are
// merged, before any input is read, so that a typo fails fast.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if _, err := c.Subjects(); err != nil {
		return err
	}
	return nil
}
