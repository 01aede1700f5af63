package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

// writeFile writes content to name inside dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

const linearProblems = `{"id":"lin-ok","question":"Solve 2x + 3 = 11","final":"x = 4"}
{"id":"lin-bad","question":"Solve 3x - 2 = 7","final":"x = 2"}
{"id":"essay","question":"Describe the water cycle"}
`

const linearProblemsFixed = `{"id":"lin-ok","question":"Solve 2x + 3 = 11","final":"x = 4"}
{"id":"lin-bad","question":"Solve 3x - 2 = 7","final":"x = 3"}
`
