package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/solvecheck/internal/database"
	"github.com/nao1215/solvecheck/internal/model"
	"github.com/nao1215/solvecheck/internal/report"
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two stored runs",
		Long: `Compare shows how answer statuses changed between two stored runs.

Problems are matched by ID, so a corrected answer re-submitted under the same
ID shows up as fixed. The output lists:
- Fixed problems that match now but did not before
- Regressed problems that matched before but do not now
- Other status changes and problems present in only one run

Without flags the latest two runs are compared.

Examples:
  # Compare the latest two runs
  solvecheck compare

  # Compare run A (previous) with run B (current)
  solvecheck compare --run <run-a> --with <run-b>

  # Compare a run with the latest run, as JSON
  solvecheck compare --run <run-a> --json`,
		Args: cobra.NoArgs,
		RunE: runCompareCmd,
	}

	cmd.Flags().String("db-dir", "",
		"Result database directory (default: XDG data directory)")
	cmd.Flags().StringP("run", "r", "",
		"Previous run ID (default: the run before the latest)")
	cmd.Flags().StringP("with", "w", "",
		"Current run ID (default: the latest run)")
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison in Markdown format")

	return cmd
}

func runCompareCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := storeConfig(cmd)
	if err != nil {
		return err
	}
	previousID, err := cmd.Flags().GetString("run")
	if err != nil {
		return err
	}
	currentID, err := cmd.Flags().GetString("with")
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DBDir, database.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if previousID == "" || currentID == "" {
		latest, err := db.LatestRunIDs(ctx, 2)
		if err != nil {
			return err
		}
		switch {
		case currentID == "" && previousID == "":
			if len(latest) < 2 {
				return fmt.Errorf("at least 2 stored runs are required for comparison (found %d)", len(latest))
			}
			currentID, previousID = latest[0], latest[1]
		case currentID == "":
			if len(latest) == 0 {
				return fmt.Errorf("no stored runs: %w", database.ErrNotFound)
			}
			currentID = latest[0]
		default:
			// Only --with given: compare against the newest other run.
			for _, id := range latest {
				if id != currentID {
					previousID = id
					break
				}
			}
			if previousID == "" {
				return fmt.Errorf("no other run to compare %s with: %w", currentID, database.ErrNotFound)
			}
		}
	}
	if previousID == currentID {
		return fmt.Errorf("cannot compare run %s with itself", currentID)
	}

	previous, err := db.LoadRun(ctx, previousID)
	if err != nil {
		return err
	}
	current, err := db.LoadRun(ctx, currentID)
	if err != nil {
		return err
	}

	comparison := model.CompareReports(previous, current)
	return writeReport(cfg, cmd.OutOrStdout(), false, func(w report.Writer) error {
		_, err := w.WriteComparison(comparison)
		return err
	})
}
