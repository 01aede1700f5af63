package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/solvecheck/internal/model"
)

// FileName is the database file created inside the database directory.
const FileName = "solvecheck.db"

// ResultDB stores verification runs and their results.
//
// Design decision: a single database file holds every run so that history
// and comparison queries never have to open more than one file.
type ResultDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures ResultDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and file when missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Open opens or creates the result database in dbDir.
func Open(dbDir string, opts Options) (*ResultDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	mode := "rwc"
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("database %s: %w", dbPath, ErrNotFound)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		mode = "rw"
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?mode="+mode+"&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer; batch workers queue on the pool.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &ResultDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return rdb, nil
}

// Path returns the database file path.
func (r *ResultDB) Path() string {
	return r.dbPath
}

// Close closes the database connection.
func (r *ResultDB) Close() error {
	return r.db.Close()
}

func (r *ResultDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL DEFAULT '',
		total INTEGER NOT NULL DEFAULT 0,
		matches INTEGER NOT NULL DEFAULT 0,
		mismatches INTEGER NOT NULL DEFAULT 0,
		unverified INTEGER NOT NULL DEFAULT 0,
		errors INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- position keeps input order within a run
	CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		position INTEGER NOT NULL,
		problem_id TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		subject TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		verified_at TEXT NOT NULL DEFAULT '',
		result_json TEXT NOT NULL,
		UNIQUE(run_id, fingerprint)
	);

	CREATE INDEX IF NOT EXISTS idx_results_problem ON results(problem_id);
	CREATE INDEX IF NOT EXISTS idx_results_fingerprint ON results(fingerprint);
	`
	_, err := r.db.ExecContext(context.Background(), schema)
	return err
}

// BeginRun records the start of a run. Calling it again for the same run
// is a no-op.
func (r *ResultDB) BeginRun(ctx context.Context, runID string, startedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO runs (id, started_at) VALUES (?, ?)`,
		runID, formatTimestamp(startedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to begin run: %w", err)
	}
	return nil
}

// SaveResult stores one result under runID, replacing an earlier result for
// the same problem content in that run.
func (r *ResultDB) SaveResult(ctx context.Context, runID string, res *model.Result) error {
	if err := r.BeginRun(ctx, runID, time.Now()); err != nil {
		return err
	}
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}

	query := `
	INSERT INTO results (run_id, position, problem_id, fingerprint, subject, status, error, verified_at, result_json)
	VALUES (?, (SELECT COUNT(*) FROM results WHERE run_id = ?), ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(run_id, fingerprint) DO UPDATE SET
		problem_id = excluded.problem_id,
		subject = excluded.subject,
		status = excluded.status,
		error = excluded.error,
		verified_at = excluded.verified_at,
		result_json = excluded.result_json
	`
	_, err = r.db.ExecContext(ctx, query,
		runID, runID,
		res.ProblemID,
		res.Fingerprint,
		string(res.Subject),
		string(res.Status),
		res.Error,
		formatTimestamp(res.VerifiedAt),
		string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// FinishRun stores the run's end time and summary counts.
func (r *ResultDB) FinishRun(ctx context.Context, report *model.Report) error {
	if err := r.BeginRun(ctx, report.RunID, report.StartedAt); err != nil {
		return err
	}
	report.Summarize()
	s := report.Summary
	finished := report.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
	UPDATE runs SET finished_at = ?, total = ?, matches = ?, mismatches = ?, unverified = ?, errors = ?
	WHERE id = ?`,
		formatTimestamp(finished), s.Total, s.Matches, s.Mismatches, s.Unverified, s.Errors, report.RunID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// SaveReport stores a whole report: the run row and every result.
func (r *ResultDB) SaveReport(ctx context.Context, report *model.Report) error {
	if err := r.BeginRun(ctx, report.RunID, report.StartedAt); err != nil {
		return err
	}
	for _, res := range report.Results {
		if res == nil {
			continue
		}
		if err := r.SaveResult(ctx, report.RunID, res); err != nil {
			return err
		}
	}
	return r.FinishRun(ctx, report)
}

// RunRecord is the stored summary of one run.
type RunRecord struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Summary    model.Summary
}

// ListRuns returns runs newest first. A limit of 0 or less means no limit.
func (r *ResultDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, started_at, finished_at, total, matches, mismatches, unverified, errors
	FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var (
			rec               RunRecord
			started, finished string
		)
		if err := rows.Scan(&rec.RunID, &started, &finished,
			&rec.Summary.Total, &rec.Summary.Matches, &rec.Summary.Mismatches,
			&rec.Summary.Unverified, &rec.Summary.Errors); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		rec.StartedAt = parseTimestamp(started)
		rec.FinishedAt = parseTimestamp(finished)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// LatestRunIDs returns up to n run IDs, newest first.
func (r *ResultDB) LatestRunIDs(ctx context.Context, n int) ([]string, error) {
	runs, err := r.ListRuns(ctx, n)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(runs))
	for i, run := range runs {
		ids[i] = run.RunID
	}
	return ids, nil
}

// LoadRun rebuilds a stored run as a report with results in input order.
func (r *ResultDB) LoadRun(ctx context.Context, runID string) (*model.Report, error) {
	var started, finished string
	err := r.db.QueryRowContext(ctx,
		`SELECT started_at, finished_at FROM runs WHERE id = ?`, runID,
	).Scan(&started, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	report := model.NewReport(runID)
	report.StartedAt = parseTimestamp(started)
	report.FinishedAt = parseTimestamp(finished)

	rows, err := r.db.QueryContext(ctx,
		`SELECT result_json FROM results WHERE run_id = ? ORDER BY position, id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		var res model.Result
		if err := json.Unmarshal([]byte(data), &res); err != nil {
			return nil, fmt.Errorf("failed to parse result: %w", err)
		}
		report.Results = append(report.Results, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	report.Summarize()
	return report, nil
}

// HistoryEntry is one stored verdict for a problem.
type HistoryEntry struct {
	RunID       string
	ProblemID   string
	Fingerprint string
	Subject     model.Subject
	Status      model.AnswerStatus
	Error       string
	VerifiedAt  time.Time
}

// History returns every stored verdict whose problem ID or fingerprint equals
// key, newest first. It returns ErrNotFound when there is none.
func (r *ResultDB) History(ctx context.Context, key string) ([]HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT results.run_id, problem_id, fingerprint, subject, status, error, verified_at
	FROM results JOIN runs ON runs.id = results.run_id
	WHERE problem_id = ? OR fingerprint = ?
	ORDER BY runs.started_at DESC, results.verified_at DESC`, key, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var (
			e               HistoryEntry
			subject, status string
			verifiedAt      string
		)
		if err := rows.Scan(&e.RunID, &e.ProblemID, &e.Fingerprint, &subject, &status, &e.Error, &verifiedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		e.Subject = model.Subject(subject)
		e.Status = model.AnswerStatus(status)
		e.VerifiedAt = parseTimestamp(verifiedAt)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("problem %s: %w", key, ErrNotFound)
	}
	return out, nil
}

// timestampFormats are tried in order when reading stored times.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// storeLayout has fixed-width fractions so stored times sort as text.
const storeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(storeLayout)
}

// parseTimestamp returns the zero time for an empty or unknown value.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
