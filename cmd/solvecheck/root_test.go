package main

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has metadata", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "solvecheck" {
			t.Errorf("expected use 'solvecheck', got %q", cmd.Use)
		}
		if cmd.Short == "" || cmd.Long == "" {
			t.Error("expected non-empty descriptions")
		}
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
		if !cmd.SilenceUsage || !cmd.SilenceErrors {
			t.Error("expected usage and errors to be silenced")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		var names []string
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		sort.Strings(names)
		want := []string{"compare", "history", "init", "subjects", "verify", "version"}
		if diff := cmp.Diff(want, names); diff != "" {
			t.Errorf("subcommands mismatch (-want +got):\n%s", diff)
		}
	})
}
