package execution

import (
	"fmt"
	"log"

	"github.com/mleary/quotedash/pkg/pipeline"
	"github.com/mleary/quotedash/pkg/storage"
)

// Logger handles run logging to persistent storage.
type Logger struct {
	repository *storage.SQLiteRunRepository
}

// NewLogger creates a new run logger.
func NewLogger(repo *storage.SQLiteRunRepository) *Logger {
	return &Logger{
		repository: repo,
	}
}

// LogRunStart logs the start of a pipeline run.
func (l *Logger) LogRunStart(run *pipeline.Run) {
	if l.repository == nil {
		// No repository configured, skip logging
		return
	}

	if err := l.repository.Save(run); err != nil {
		// Log error but don't fail the run
		log.Printf("Warning: failed to log run start: %v", err)
	}
}

// LogRunComplete logs the terminal state of a pipeline run.
func (l *Logger) LogRunComplete(run *pipeline.Run) {
	if l.repository == nil {
		// No repository configured, skip logging
		return
	}

	if err := l.repository.Save(run); err != nil {
		// Log error but don't fail the run
		log.Printf("Warning: failed to log run completion: %v", err)
	}
}

// LogStep logs a step outcome. Step records are persisted as part of the
// run entity; this is for real-time debug output.
func (l *Logger) LogStep(record *pipeline.StepRecord) {
	log.Printf("Step %s: %s (%d quotes, duration: %v)",
		record.StepID,
		record.Status,
		record.QuoteCount,
		record.Duration(),
	)
}

// GetRun retrieves one run with its step records from storage.
func (l *Logger) GetRun(id pipeline.RunID) (*pipeline.Run, error) {
	if l.repository == nil {
		return nil, fmt.Errorf("no repository configured")
	}

	return l.repository.Load(id)
}

// ListRuns retrieves the most recent run records.
func (l *Logger) ListRuns(limit int) ([]*pipeline.Run, error) {
	if l.repository == nil {
		return nil, fmt.Errorf("no repository configured")
	}

	return l.repository.List(limit)
}

// DeleteRun removes a run record from storage.
func (l *Logger) DeleteRun(id pipeline.RunID) error {
	if l.repository == nil {
		return fmt.Errorf("no repository configured")
	}

	return l.repository.Delete(id)
}
