package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/nao1215/solvecheck/internal/model"
)

// TestNewConfig documents the defaults; changing one must be intentional.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Timeout is 5 minutes", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 5*time.Minute {
			t.Errorf("expected Timeout to be 5m, got %v", cfg.Timeout)
		}
	})

	t.Run("default BatchSize is 10", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 10 {
			t.Errorf("expected BatchSize to be 10, got %d", cfg.BatchSize)
		}
	})

	t.Run("default DBDir is the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir to be %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("results are not saved by default", func(t *testing.T) {
		t.Parallel()
		if cfg.SaveToDB {
			t.Error("expected SaveToDB to be false")
		}
	})
}

// TestConfigValidate checks one validation rule per case.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func() *Config {
		return &Config{
			Inputs:    []string{"problems.jsonl"},
			Timeout:   time.Minute,
			BatchSize: 4,
		}
	}

	tests := []struct {
		name     string
		modify   func(c *Config)
		expected error
	}{
		{"valid config returns nil", func(*Config) {}, nil},
		{"no inputs returns ErrNoInput", func(c *Config) { c.Inputs = nil }, ErrNoInput},
		{"zero timeout returns ErrInvalidTimeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
		{"negative batch size returns ErrInvalidBatchSize", func(c *Config) { c.BatchSize = -1 }, ErrInvalidBatchSize},
		{"both report formats conflict", func(c *Config) { c.JSONReport, c.MarkdownReport = true, true }, ErrConflictingReportFormats},
		{"unknown subject", func(c *Config) { c.DisabledSubjects = []string{"astrology"} }, ErrUnknownSubject},
		{"known subject aliases", func(c *Config) { c.DisabledSubjects = []string{"Finance", "stats", "linalg"} }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.expected == nil && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
			if tt.expected != nil && !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestConfigSubjects(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.DisabledSubjects = []string{"heat", " Statistics "}
	got, err := cfg.Subjects()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []model.Subject{model.SubjectHeatTransfer, model.SubjectStatistics}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("subjects mismatch (-want +got):\n%s", diff)
	}

	cfg.DisabledSubjects = []string{"alchemy"}
	if _, err := cfg.Subjects(); !errors.Is(err, ErrUnknownSubject) || !strings.Contains(err.Error(), "alchemy") {
		t.Errorf("expected ErrUnknownSubject naming the subject, got %v", err)
	}
}

func TestConfigApply(t *testing.T) {
	t.Parallel()

	t.Run("file fills defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.Apply(&File{BatchSize: 3, DBDir: "/tmp/db", SaveResults: true, DisabledSubjects: []string{"finance"}})
		if cfg.BatchSize != 3 {
			t.Errorf("expected BatchSize 3, got %d", cfg.BatchSize)
		}
		if cfg.DBDir != "/tmp/db" {
			t.Errorf("expected DBDir /tmp/db, got %q", cfg.DBDir)
		}
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to be true")
		}
		if diff := cmp.Diff([]string{"finance"}, cfg.DisabledSubjects); diff != "" {
			t.Errorf("disabled subjects mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("flags win over file", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.BatchSize = 20
		cfg.DBDir = "/flag/dir"
		cfg.Apply(&File{BatchSize: 3, DBDir: "/tmp/db"})
		if cfg.BatchSize != 20 {
			t.Errorf("expected BatchSize 20, got %d", cfg.BatchSize)
		}
		if cfg.DBDir != "/flag/dir" {
			t.Errorf("expected DBDir /flag/dir, got %q", cfg.DBDir)
		}
	})

	t.Run("nil file is a no-op", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.Apply(nil)
		if diff := cmp.Diff(NewConfig(), cfg); diff != "" {
			t.Errorf("config changed (-want +got):\n%s", diff)
		}
	})
}

func TestDatabasePath(t *testing.T) {
	t.Parallel()

	cfg := &Config{DBDir: "/data"}
	if got := cfg.DatabasePath(); got != filepath.Join("/data", DatabaseFile) {
		t.Errorf("expected %q, got %q", filepath.Join("/data", DatabaseFile), got)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.solvecheck")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `disabledSubjects:
  - finance
  - economics
batchSize: 4
dbDir: /var/lib/solvecheck
saveResults: true
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := &File{
			DisabledSubjects: []string{"finance", "economics"},
			BatchSize:        4,
			DBDir:            "/var/lib/solvecheck",
			SaveResults:      true,
		}
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("file mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

func TestTemplateIsValidConfig(t *testing.T) {
	t.Parallel()

	var f File
	if err := yaml.Unmarshal(Template, &f); err != nil {
		t.Fatalf("expected template to parse, got %v", err)
	}
	if f.BatchSize != DefaultBatchSize {
		t.Errorf("expected template batch size %d, got %d", DefaultBatchSize, f.BatchSize)
	}
	cfg := NewConfig()
	cfg.Inputs = []string{"x.json"}
	cfg.Apply(&f)
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected template to validate, got %v", err)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("batchSize: 2"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if got := FindConfigFile(configPath); got != configPath {
			t.Errorf("expected %q, got %q", configPath, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile("/nonexistent/path/config.yaml"); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{"data": XDGDataDir(), "config": XDGConfigDir()} {
		if !strings.HasSuffix(dir, AppName) {
			t.Errorf("expected %s dir to end with %q, got %q", name, AppName, dir)
		}
	}
}
