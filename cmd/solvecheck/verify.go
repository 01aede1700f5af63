package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/solvecheck/internal/config"
	"github.com/nao1215/solvecheck/internal/database"
	"github.com/nao1215/solvecheck/internal/input"
	applog "github.com/nao1215/solvecheck/internal/log"
	"github.com/nao1215/solvecheck/internal/model"
	"github.com/nao1215/solvecheck/internal/pipeline"
	"github.com/nao1215/solvecheck/internal/report"
	"github.com/nao1215/solvecheck/internal/verify"
)

// NewVerifyCmd creates the verify command.
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [files...]",
		Short: "Verify the final answers in problem files",
		Long: `Verify reads problem records and recomputes each expected result.

Input files may be JSON (a record or an array), JSON Lines (.jsonl) or YAML.
Use "-" to read JSON Lines from standard input. Each record has the fields
id, type, question, raw_text, steps (before, after, text, action) and final.

The exit status is 0 even when answers do not match; it is non-zero only for
input, configuration, storage or cancellation errors.

Examples:
  # Verify a JSON Lines file
  solvecheck verify homework.jsonl

  # Verify several files and write a Markdown report
  solvecheck verify --markdown -o report.md set1.json set2.yaml

  # Store results for "history" and "compare"
  solvecheck verify --save homework.jsonl

  # Skip subjects
  solvecheck verify --disable finance --disable economics homework.json

Configuration file (.solvecheck) example:
  disabledSubjects:
    - accounting
  batchSize: 20
  saveResults: true`,
		Args: cobra.ArbitraryArgs,
		RunE: runVerifyCmd,
	}

	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Maximum duration of the whole run")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of problems verified concurrently")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .solvecheck in current or home directory)")
	cmd.Flags().StringSlice("disable", nil,
		"Subject to skip (repeatable)")

	cmd.Flags().Bool("save", false,
		"Store the run in the result database")
	cmd.Flags().String("db-dir", "",
		"Result database directory (default: XDG data directory)")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().BoolP("all", "a", false,
		"List matching answers too in the text report")

	return cmd
}

func runVerifyCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := applog.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	showAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}

	_, err = runVerify(ctx, cfg, cmd.OutOrStdout(), logger, showAll)
	return err
}

// buildConfig creates a Config from flags and the configuration file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Inputs = args
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}
	if cfg.DisabledSubjects, err = cmd.Flags().GetStringSlice("disable"); err != nil {
		return nil, err
	}
	if cfg.SaveToDB, err = cmd.Flags().GetBool("save"); err != nil {
		return nil, err
	}
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
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}

	// An explicit path must exist; the searched locations are optional.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.Apply(file)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}
	return cfg, nil
}

// runVerify loads the inputs, verifies them and writes the report.
func runVerify(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger, showAll bool) (*model.Report, error) {
	problems, err := input.LoadAll(cfg.Inputs)
	if err != nil {
		return nil, err
	}
	disabled, err := cfg.Subjects()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	engine := verify.NewEngine(verify.WithLogger(logger), verify.WithDisabled(disabled...))
	runReport := model.NewReport(database.NewRunID())

	// A nil *ResultDB must not become a non-nil interface.
	var store pipeline.ResultStore
	var db *database.ResultDB
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		if err := db.BeginRun(ctx, runReport.RunID, runReport.StartedAt); err != nil {
			return nil, err
		}
		store = db
		logger.Debug("database opened", "path", db.Path())
	}

	logger.Info("starting verification",
		"run", runReport.RunID,
		"problems", len(problems),
		"batchSize", cfg.BatchSize,
	)

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.DefaultPipeline(engine, store, runReport.RunID, pipeline.WithLogger(logger))
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)
	results, batchErr := bp.ProcessBatch(ctx, problems)
	for _, res := range results {
		if res != nil {
			runReport.Results = append(runReport.Results, res)
		}
	}
	runReport.FinishedAt = time.Now()
	runReport.Summarize()

	if db != nil {
		// The run context may already be done; the summary row still matters.
		if err := db.FinishRun(context.WithoutCancel(ctx), runReport); err != nil {
			logger.Error("failed to finish run", "run", runReport.RunID, "error", err)
		}
	}

	if err := writeReport(cfg, stdout, showAll, func(w report.Writer) error {
		_, err := w.Write(runReport)
		return err
	}); err != nil {
		return runReport, err
	}

	if batchErr != nil {
		if errors.Is(batchErr, context.DeadlineExceeded) {
			return runReport, fmt.Errorf("verification timed out after %s: %w", cfg.Timeout, batchErr)
		}
		return runReport, fmt.Errorf("verification cancelled: %w", batchErr)
	}
	return runReport, nil
}

// writeReport opens the configured destination, picks the writer for the
// configured format and hands it to write.
func writeReport(cfg *config.Config, stdout io.Writer, showAll bool, write func(report.Writer) error) error {
	out := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewFullJSONWriter(out, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out, report.WithShowAll(showAll), report.WithVerbose(cfg.Verbose))
	}
	return write(w)
}
