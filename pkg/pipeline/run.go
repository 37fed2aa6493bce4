package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunID uniquely identifies a pipeline run.
type RunID string

// NewRunID generates a new unique run ID.
func NewRunID() RunID {
	return RunID(uuid.NewString())
}

// RunStatus represents the lifecycle state of a pipeline run.
type RunStatus string

const (
	// StatusPending means the run has been created but not started.
	StatusPending RunStatus = "pending"
	// StatusRunning means the run is executing steps.
	StatusRunning RunStatus = "running"
	// StatusCompleted means all steps plus the completion step finished.
	StatusCompleted RunStatus = "completed"
	// StatusFailed means a step failed and the pipeline halted.
	StatusFailed RunStatus = "failed"
)

// StepStatus represents the outcome of a single step within a run.
type StepStatus string

const (
	// StepStatusCompleted means the step fetched and rendered successfully.
	StepStatusCompleted StepStatus = "completed"
	// StepStatusFailed means the step's fetch failed.
	StepStatusFailed StepStatus = "failed"
	// StepStatusSkipped means the step never ran because an earlier step failed.
	StepStatusSkipped StepStatus = "skipped"
)

// StepRecord captures the outcome of one step for the run history.
type StepRecord struct {
	// StepID identifies which step this record is for.
	StepID StepID
	// Status is the step outcome.
	Status StepStatus
	// QuoteCount is the number of quote records the step rendered.
	QuoteCount int
	// Message holds the failure message for failed steps.
	Message string
	// StartedAt is when the step's fetch began.
	StartedAt time.Time
	// CompletedAt is when the step finished (success or failure).
	CompletedAt time.Time
}

// Duration returns how long the step took.
func (r *StepRecord) Duration() time.Duration {
	if r.CompletedAt.IsZero() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// Run represents a single execution of the sequential fetch pipeline.
type Run struct {
	// ID is the unique identifier for this run.
	ID RunID
	// Topic is the topic supplied for this run.
	Topic string
	// Count is the per-step quote count supplied for this run.
	Count int
	// Status is the current lifecycle state.
	Status RunStatus
	// StartedAt is when the run was created.
	StartedAt time.Time
	// CompletedAt is when the run reached a terminal state.
	CompletedAt time.Time
	// ErrorMessage holds the failure message for failed runs.
	ErrorMessage string
	// FailedStep identifies which step failed, if any.
	FailedStep StepID
	// StepRecords tracks per-step outcomes in execution order.
	StepRecords []*StepRecord
}

// NewRun creates a run in Pending status for the given input.
func NewRun(input Input) (*Run, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	return &Run{
		ID:          NewRunID(),
		Topic:       input.Topic,
		Count:       input.Count,
		Status:      StatusPending,
		StartedAt:   time.Now(),
		StepRecords: []*StepRecord{},
	}, nil
}

// Start transitions the run from Pending to Running.
func (r *Run) Start() error {
	if r.Status != StatusPending {
		return fmt.Errorf("cannot start run: expected status pending, got %s", r.Status)
	}

	r.Status = StatusRunning
	r.StartedAt = time.Now()
	return nil
}

// Complete marks the run as successfully completed.
func (r *Run) Complete() error {
	if r.Status != StatusRunning {
		return fmt.Errorf("cannot complete run: expected status running, got %s", r.Status)
	}

	r.Status = StatusCompleted
	r.CompletedAt = time.Now()
	return nil
}

// Fail marks the run as failed at the given step. Steps after the failed
// one are recorded as skipped so the history shows the halt point.
func (r *Run) Fail(step StepID, message string) error {
	if r.Status != StatusRunning {
		return fmt.Errorf("cannot fail run: expected status running, got %s", r.Status)
	}

	r.Status = StatusFailed
	r.CompletedAt = time.Now()
	r.FailedStep = step
	r.ErrorMessage = message

	seen := false
	for _, s := range Steps() {
		if s.ID == step {
			seen = true
			continue
		}
		if seen {
			r.StepRecords = append(r.StepRecords, &StepRecord{
				StepID: s.ID,
				Status: StepStatusSkipped,
			})
		}
	}

	return nil
}

// RecordStep appends a step outcome to the run.
func (r *Run) RecordStep(record *StepRecord) error {
	if record == nil {
		return fmt.Errorf("cannot record nil step")
	}
	r.StepRecords = append(r.StepRecords, record)
	return nil
}

// Duration returns how long the run took, or the elapsed time if still running.
func (r *Run) Duration() time.Duration {
	if r.CompletedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// IsTerminal reports whether the run reached a terminal state.
func (r *Run) IsTerminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}
