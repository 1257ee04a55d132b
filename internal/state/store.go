package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a queried run does not exist.
var ErrNotFound = errors.New("run not found")

// Outcome is the terminal state of a prepare run.
type Outcome string

const (
	OutcomePending     Outcome = "pending"
	OutcomeSucceeded   Outcome = "succeeded"
	OutcomeFailed      Outcome = "failed"
	OutcomeLaunchError Outcome = "launch_error"
)

// Run is one recorded prepare attempt.
type Run struct {
	ID         string    `yaml:"id"`
	Version    string    `yaml:"version"`
	Dir        string    `yaml:"dir"`
	Executable string    `yaml:"executable"`
	Args       []string  `yaml:"args"`
	Outcome    Outcome   `yaml:"outcome"`
	ExitCode   *int      `yaml:"exit_code,omitempty"` // nil when Maven never ran
	Stdout     string    `yaml:"stdout,omitempty"`
	Stderr     string    `yaml:"stderr,omitempty"`
	Message    string    `yaml:"message,omitempty"`
	StartedAt  time.Time `yaml:"started_at"`
	FinishedAt time.Time `yaml:"finished_at,omitempty"`
}

// Store wraps a SQLite database holding run history.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path with WAL mode.
// Use ":memory:" for in-memory databases in tests.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening state db %s: %w", dbPath, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// SQLite handles one writer at a time
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertRun records the start of a run.
func (s *Store) InsertRun(ctx context.Context, run *Run) error {
	args, err := json.Marshal(run.Args)
	if err != nil {
		return fmt.Errorf("marshaling args: %w", err)
	}
	outcome := run.Outcome
	if outcome == "" {
		outcome = OutcomePending
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, version, dir, executable, args, outcome, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Version, run.Dir, run.Executable, string(args),
		string(outcome), run.StartedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}
	return nil
}

// FinishRun stores the outcome and captured output of a run.
func (s *Store) FinishRun(ctx context.Context, run *Run) error {
	var exitCode sql.NullInt64
	if run.ExitCode != nil {
		exitCode = sql.NullInt64{Int64: int64(*run.ExitCode), Valid: true}
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE runs SET outcome=?, exit_code=?, stdout=?, stderr=?, message=?, finished_at=?
		 WHERE id=?`,
		string(run.Outcome), exitCode,
		nullString(run.Stdout), nullString(run.Stderr), nullString(run.Message),
		run.FinishedAt.UnixMilli(), run.ID,
	)
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", run.ID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing run %s: rows affected: %w", run.ID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const runColumns = `id, version, dir, executable, args, outcome, exit_code, stdout, stderr, message, started_at, finished_at`

// GetRun retrieves a run by id.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first. limit <= 0 means all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var run Run
	var args string
	var outcome string
	var exitCode sql.NullInt64
	var stdout, stderr, message sql.NullString
	var startedAt int64
	var finishedAt sql.NullInt64

	err := sc.Scan(
		&run.ID, &run.Version, &run.Dir, &run.Executable, &args, &outcome,
		&exitCode, &stdout, &stderr, &message, &startedAt, &finishedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(args), &run.Args); err != nil {
		return nil, fmt.Errorf("unmarshaling args for run %s: %w", run.ID, err)
	}
	run.Outcome = Outcome(outcome)
	if exitCode.Valid {
		code := int(exitCode.Int64)
		run.ExitCode = &code
	}
	run.Stdout = stdout.String
	run.Stderr = stderr.String
	run.Message = message.String
	run.StartedAt = time.UnixMilli(startedAt)
	if finishedAt.Valid {
		run.FinishedAt = time.UnixMilli(finishedAt.Int64)
	}
	return &run, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
