package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/solvecheck/internal/config"
)

func TestNewInitCmd(t *testing.T) {
	t.Parallel()

	cmd := NewInitCmd()
	flag := cmd.Flags().Lookup("output")
	if flag == nil {
		t.Fatal("expected output flag")
	}
	if flag.DefValue != config.DefaultConfigFile {
		t.Errorf("expected default %q, got %q", config.DefaultConfigFile, flag.DefValue)
	}
	if f := cmd.Flags().Lookup("force"); f == nil || f.Shorthand != "f" {
		t.Error("expected force flag with shorthand 'f'")
	}
}

func TestRunInitCmd(t *testing.T) {
	t.Parallel()

	t.Run("writes the template into nested directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "conf.yaml")
		out, err := runCLI(t, "init", "-o", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read: %v", err)
		}
		if !bytes.Equal(got, config.Template) {
			t.Error("expected file content to equal the template")
		}
		if !strings.Contains(out, "Created configuration file") {
			t.Errorf("expected confirmation, got %q", out)
		}

		// The written template must load cleanly.
		if _, err := config.LoadConfigFile(path); err != nil {
			t.Errorf("expected template to parse, got %v", err)
		}
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), ".solvecheck", "batchSize: 3\n")
		if _, err := runCLI(t, "init", "-o", path); err == nil {
			t.Fatal("expected an error for an existing file")
		}
		got, _ := os.ReadFile(path) //nolint:errcheck // checked by content
		if string(got) != "batchSize: 3\n" {
			t.Error("expected existing file to be untouched")
		}

		if _, err := runCLI(t, "init", "-o", path, "-f"); err != nil {
			t.Fatalf("unexpected error with force: %v", err)
		}
		got, _ = os.ReadFile(path) //nolint:errcheck // checked by content
		if !bytes.Equal(got, config.Template) {
			t.Error("expected force to overwrite with the template")
		}
	})
}
