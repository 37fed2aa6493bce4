package storage

import (
	"database/sql"
	"fmt"
)

// MigrationVersion tracks the current database schema version.
const MigrationVersion = 1

// InitializeDatabase creates the SQLite database schema for run history.
// This includes migration version tracking to support future schema updates.
func InitializeDatabase(db *sql.DB) error {
	// Create migrations table to track schema version
	migrationsTable := `
	CREATE TABLE IF NOT EXISTS migrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		version INTEGER NOT NULL UNIQUE,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := db.Exec(migrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	// Check current version
	var currentVersion int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to check migration version: %w", err)
	}

	// Apply migrations
	if currentVersion < 1 {
		if err := applyMigration1(db); err != nil {
			return fmt.Errorf("failed to apply migration 1: %w", err)
		}
	}

	return nil
}

// applyMigration1 creates the initial database schema.
func applyMigration1(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Runs table - tracks pipeline run lifecycle
	runsTable := `
	CREATE TABLE runs (
		id TEXT PRIMARY KEY,
		topic TEXT NOT NULL,
		count INTEGER NOT NULL,
		status TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP,
		failed_step TEXT,
		error_message TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := tx.Exec(runsTable); err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}

	// Run steps table - per-step outcomes in execution order
	runStepsTable := `
	CREATE TABLE run_steps (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		step_id TEXT NOT NULL,
		status TEXT NOT NULL,
		quote_count INTEGER NOT NULL DEFAULT 0,
		message TEXT,
		started_at TIMESTAMP,
		completed_at TIMESTAMP
	);`

	if _, err := tx.Exec(runStepsTable); err != nil {
		return fmt.Errorf("failed to create run_steps table: %w", err)
	}

	// Indexes for common queries
	indexes := []string{
		"CREATE INDEX idx_runs_started_at ON runs(started_at DESC);",
		"CREATE INDEX idx_runs_status ON runs(status, started_at DESC);",
		"CREATE INDEX idx_run_steps_run_id ON run_steps(run_id, position);",
	}

	for _, index := range indexes {
		if _, err := tx.Exec(index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	// Record migration
	if _, err := tx.Exec("INSERT INTO migrations (version) VALUES (?)", 1); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return tx.Commit()
}
