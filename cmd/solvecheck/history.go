package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/solvecheck/internal/config"
	"github.com/nao1215/solvecheck/internal/database"
	"github.com/nao1215/solvecheck/internal/report"
)

const historyTimeLayout = "2006-01-02 15:04:05"

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [problem-id]",
		Short: "Show stored runs and per-problem history",
		Long: `History reads the result database written by "solvecheck verify --save".

Without arguments it lists stored runs, newest first. With a problem ID (or a
full fingerprint) it lists every stored verdict for that problem. With --run
it prints the full report of one run.

Examples:
  # List stored runs
  solvecheck history

  # Verdicts for one problem across runs
  solvecheck history hw-3-q2

  # Re-print a stored run as Markdown
  solvecheck history --run 7d0c... --markdown`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().String("db-dir", "",
		"Result database directory (default: XDG data directory)")
	cmd.Flags().StringP("run", "r", "",
		"Print the report of a stored run")
	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of runs to list (0 for all)")
	cmd.Flags().BoolP("json", "j", false,
		"Output the run report as JSON (with --run)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the run report as Markdown (with --run)")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	runID, err := cmd.Flags().GetString("run")
	if err != nil {
		return err
	}
	if runID != "" && len(args) > 0 {
		return errors.New("give either a problem ID or --run, not both")
	}
	cfg, err := storeConfig(cmd)
	if err != nil {
		return err
	}

	// Reading never creates a database.
	db, err := database.Open(cfg.DBDir, database.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	switch {
	case runID != "":
		loaded, err := db.LoadRun(ctx, runID)
		if err != nil {
			return err
		}
		return writeReport(cfg, out, true, func(w report.Writer) error {
			_, err := w.Write(loaded)
			return err
		})
	case len(args) == 1:
		return printProblemHistory(ctx, out, db, args[0])
	default:
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}
		return printRuns(ctx, out, db, limit)
	}
}

// storeConfig reads the database and report-format flags shared by the
// history and compare commands.
func storeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.JSONReport && cfg.MarkdownReport {
		return nil, config.ErrConflictingReportFormats
	}
	cfg.Verbose = getVerboseFlag(cmd)
	return cfg, nil
}

func printRuns(ctx context.Context, out io.Writer, db *database.ResultDB, limit int) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No stored runs found in the database.")
		fmt.Fprintln(out, "\nUse 'solvecheck verify --save <files>' to store a run.")
		return nil
	}

	fmt.Fprintf(out, "Stored runs (%d):\n\n", len(runs))
	fmt.Fprintf(out, "  %-36s  %-19s  %6s  %6s  %8s  %10s\n", "Run ID", "Started", "Total", "Match", "Mismatch", "Unverified")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 94))
	for _, r := range runs {
		fmt.Fprintf(out, "  %-36s  %-19s  %6d  %6d  %8d  %10d\n",
			r.RunID,
			r.StartedAt.Local().Format(historyTimeLayout),
			r.Summary.Total, r.Summary.Matches, r.Summary.Mismatches, r.Summary.Unverified,
		)
	}
	fmt.Fprintln(out, "\nUse 'solvecheck history --run <id>' to print a run.")
	fmt.Fprintln(out, "Use 'solvecheck compare' to compare the latest two runs.")
	return nil
}

func printProblemHistory(ctx context.Context, out io.Writer, db *database.ResultDB, key string) error {
	entries, err := db.History(ctx, key)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "History for %s (%d verdicts):\n\n", key, len(entries))
	fmt.Fprintf(out, "  %-19s  %-10s  %-16s  %s\n", "Verified", "Status", "Subject", "Run ID")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 90))
	for _, e := range entries {
		subject := string(e.Subject)
		if subject == "" {
			subject = "-"
		}
		status := string(e.Status)
		if status == "" {
			status = "unverified"
		}
		fmt.Fprintf(out, "  %-19s  %-10s  %-16s  %s\n",
			e.VerifiedAt.Local().Format(historyTimeLayout), status, subject, e.RunID)
		if e.Error != "" {
			fmt.Fprintf(out, "      error: %s\n", e.Error)
		}
	}
	return nil
}
