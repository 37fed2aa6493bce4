package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/mleary/quotedash/pkg/pipeline"
)

// SQLiteRunRepository provides persistent storage for pipeline run history.
type SQLiteRunRepository struct {
	db *sql.DB
}

// NewSQLiteRunRepository creates a new SQLite-based run repository.
// Database location: ~/.quotedash/quotedash.db
func NewSQLiteRunRepository() (*SQLiteRunRepository, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	dbPath := filepath.Join(homeDir, ".quotedash", "quotedash.db")
	return NewSQLiteRunRepositoryWithPath(dbPath)
}

// NewSQLiteRunRepositoryWithPath creates a repository with a custom database
// path. Useful for testing.
func NewSQLiteRunRepositoryWithPath(dbPath string) (*SQLiteRunRepository, error) {
	// Create directory if it doesn't exist
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database connection
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// Initialize database schema
	if err := InitializeDatabase(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &SQLiteRunRepository{db: db}, nil
}

// Close closes the database connection.
func (r *SQLiteRunRepository) Close() error {
	return r.db.Close()
}

// Save persists a run and its step records to the database.
// Updates the run if it already exists (based on ID).
func (r *SQLiteRunRepository) Save(run *pipeline.Run) error {
	if run == nil {
		return fmt.Errorf("cannot save nil run")
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var completedAt sql.NullTime
	if !run.CompletedAt.IsZero() {
		completedAt.Valid = true
		completedAt.Time = run.CompletedAt
	}

	var failedStep, errorMessage sql.NullString
	if run.FailedStep != "" {
		failedStep.Valid = true
		failedStep.String = string(run.FailedStep)
	}
	if run.ErrorMessage != "" {
		errorMessage.Valid = true
		errorMessage.String = run.ErrorMessage
	}

	// Upsert run record
	query := `
		INSERT INTO runs (
			id, topic, count, status, started_at, completed_at,
			failed_step, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			completed_at = excluded.completed_at,
			failed_step = excluded.failed_step,
			error_message = excluded.error_message`

	_, err = tx.Exec(query,
		string(run.ID), run.Topic, run.Count, string(run.Status),
		run.StartedAt, completedAt, failedStep, errorMessage)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	// Replace step records wholesale; runs carry at most a handful
	if _, err := tx.Exec("DELETE FROM run_steps WHERE run_id = ?", string(run.ID)); err != nil {
		return fmt.Errorf("failed to clear step records: %w", err)
	}

	for position, record := range run.StepRecords {
		var stepStarted, stepCompleted sql.NullTime
		if !record.StartedAt.IsZero() {
			stepStarted.Valid = true
			stepStarted.Time = record.StartedAt
		}
		if !record.CompletedAt.IsZero() {
			stepCompleted.Valid = true
			stepCompleted.Time = record.CompletedAt
		}

		var message sql.NullString
		if record.Message != "" {
			message.Valid = true
			message.String = record.Message
		}

		_, err := tx.Exec(`
			INSERT INTO run_steps (
				run_id, position, step_id, status, quote_count,
				message, started_at, completed_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			string(run.ID), position, string(record.StepID), string(record.Status),
			record.QuoteCount, message, stepStarted, stepCompleted)
		if err != nil {
			return fmt.Errorf("failed to save step record: %w", err)
		}
	}

	return tx.Commit()
}

// Load retrieves a run and its step records by ID.
func (r *SQLiteRunRepository) Load(id pipeline.RunID) (*pipeline.Run, error) {
	row := r.db.QueryRow(`
		SELECT id, topic, count, status, started_at, completed_at,
		       failed_step, error_message
		FROM runs WHERE id = ?`, string(id))

	run, err := scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run not found: %s", id)
		}
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT step_id, status, quote_count, message, started_at, completed_at
		FROM run_steps WHERE run_id = ? ORDER BY position`, string(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load step records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			stepID, status         string
			quoteCount             int
			message                sql.NullString
			startedAt, completedAt sql.NullTime
		)
		if err := rows.Scan(&stepID, &status, &quoteCount, &message, &startedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("failed to scan step record: %w", err)
		}

		record := &pipeline.StepRecord{
			StepID:     pipeline.StepID(stepID),
			Status:     pipeline.StepStatus(status),
			QuoteCount: quoteCount,
		}
		if message.Valid {
			record.Message = message.String
		}
		if startedAt.Valid {
			record.StartedAt = startedAt.Time
		}
		if completedAt.Valid {
			record.CompletedAt = completedAt.Time
		}

		run.StepRecords = append(run.StepRecords, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate step records: %w", err)
	}

	return run, nil
}

// List returns the most recent runs, newest first, without step records.
// Use Load to retrieve a run with its steps.
func (r *SQLiteRunRepository) List(limit int) ([]*pipeline.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(`
		SELECT id, topic, count, status, started_at, completed_at,
		       failed_step, error_message
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*pipeline.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}

// Delete removes a run and its step records.
func (r *SQLiteRunRepository) Delete(id pipeline.RunID) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM run_steps WHERE run_id = ?", string(id)); err != nil {
		return fmt.Errorf("failed to delete step records: %w", err)
	}

	result, err := tx.Exec("DELETE FROM runs WHERE id = ?", string(id))
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run not found: %s", id)
	}

	return tx.Commit()
}

// rowScanner abstracts sql.Row and sql.Rows for scanRun.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanRun reads one run row into a pipeline.Run.
func scanRun(row rowScanner) (*pipeline.Run, error) {
	var (
		id, topic, status        string
		count                    int
		startedAt                time.Time
		completedAt              sql.NullTime
		failedStep, errorMessage sql.NullString
	)

	if err := row.Scan(&id, &topic, &count, &status, &startedAt,
		&completedAt, &failedStep, &errorMessage); err != nil {
		return nil, err
	}

	run := &pipeline.Run{
		ID:          pipeline.RunID(id),
		Topic:       topic,
		Count:       count,
		Status:      pipeline.RunStatus(status),
		StartedAt:   startedAt,
		StepRecords: []*pipeline.StepRecord{},
	}
	if completedAt.Valid {
		run.CompletedAt = completedAt.Time
	}
	if failedStep.Valid {
		run.FailedStep = pipeline.StepID(failedStep.String)
	}
	if errorMessage.Valid {
		run.ErrorMessage = errorMessage.String
	}

	return run, nil
}
