package execution

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	qerrors "github.com/mleary/quotedash/pkg/errors"
	"github.com/mleary/quotedash/pkg/pipeline"
	"github.com/mleary/quotedash/pkg/quotes"
)

// ErrRunInProgress is returned by Run when a run is already in flight.
// The workflow owns a single State; concurrent runs would corrupt it.
var ErrRunInProgress = errors.New("a run is already in progress")

// DefaultStepDelay is the artificial pacing delay between network steps.
// It is presentation pacing, not real latency, and is configurable.
const DefaultStepDelay = 900 * time.Millisecond

// Fetcher issues one step's network request. Implemented by quotes.Client.
type Fetcher interface {
	Fetch(ctx context.Context, path, topic string, count int) ([]quotes.Quote, error)
}

// Runner executes the sequential fetch pipeline: four steps in strict
// order, each gated by the previous step's success, interleaved with a
// fixed artificial delay and a render call. There is no parallelism and no
// retry; a step failure halts the pipeline through the single error path.
type Runner struct {
	fetcher  Fetcher
	renderer Renderer
	logger   *Logger
	monitor  *Monitor
	delay    time.Duration
	filter   *quotes.Filter

	mu    sync.Mutex
	state pipeline.State
}

// NewRunner creates a runner wiring a fetcher to a renderer.
func NewRunner(fetcher Fetcher, renderer Renderer) *Runner {
	return &Runner{
		fetcher:  fetcher,
		renderer: renderer,
		monitor:  NewMonitor(),
		delay:    DefaultStepDelay,
	}
}

// SetDelay overrides the pacing delay between steps. Zero disables pacing
// (used by tests).
func (r *Runner) SetDelay(delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	r.delay = delay
}

// SetFilter applies a quote filter to every step's payload before render.
func (r *Runner) SetFilter(filter *quotes.Filter) {
	r.filter = filter
}

// SetLogger attaches a run-history logger.
func (r *Runner) SetLogger(logger *Logger) {
	r.logger = logger
}

// Monitor returns the runner's event monitor.
func (r *Runner) Monitor() *Monitor {
	return r.monitor
}

// State returns a snapshot of the workflow state.
func (r *Runner) State() pipeline.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Run executes the pipeline for the given input and blocks until a terminal
// state is reached. It returns the run record in both terminal states; the
// error is non-nil on the failure path.
//
// Run refuses to start while another run is in flight.
func (r *Runner) Run(ctx context.Context, input pipeline.Input) (*pipeline.Run, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	r.mu.Lock()
	if r.state.IsRunning {
		r.mu.Unlock()
		return nil, ErrRunInProgress
	}
	r.state = pipeline.State{IsRunning: true}
	r.mu.Unlock()

	run, err := pipeline.NewRun(input)
	if err != nil {
		r.setIdle(0, 0)
		return nil, err
	}

	r.renderer.RunStarted(input)
	if err := run.Start(); err != nil {
		r.setIdle(0, 0)
		return nil, err
	}

	if r.logger != nil {
		r.logger.LogRunStart(run)
	}
	r.monitor.Emit(Event{Type: EventRunStarted, RunID: run.ID})

	steps := pipeline.Steps()
	for i, step := range steps {
		// Pacing delay separates consecutive network steps
		if i > 0 {
			if err := r.pause(ctx); err != nil {
				return r.failRun(run, step, qerrors.NewTransportFailure(step.Path, err))
			}
		}

		r.setActiveStep(i + 1)
		r.monitor.Emit(Event{Type: EventStepStarted, RunID: run.ID, StepID: step.ID})

		startedAt := time.Now()
		records, err := r.fetcher.Fetch(ctx, step.Path, input.Topic, input.Count)
		if err != nil {
			run.StepRecords = append(run.StepRecords, &pipeline.StepRecord{
				StepID:      step.ID,
				Status:      pipeline.StepStatusFailed,
				Message:     err.Error(),
				StartedAt:   startedAt,
				CompletedAt: time.Now(),
			})
			return r.failRun(run, step, err)
		}

		if r.filter != nil {
			filtered, err := r.filter.Apply(records)
			if err != nil {
				return r.failRun(run, step, err)
			}
			records = filtered
		}

		record := &pipeline.StepRecord{
			StepID:      step.ID,
			Status:      pipeline.StepStatusCompleted,
			QuoteCount:  len(records),
			StartedAt:   startedAt,
			CompletedAt: time.Now(),
		}
		if err := run.RecordStep(record); err != nil {
			return r.failRun(run, step, err)
		}
		if r.logger != nil {
			r.logger.LogStep(record)
		}

		r.setProgress(step.Checkpoint)
		r.renderer.StepCompleted(step, records, step.Checkpoint)
		r.monitor.Emit(Event{
			Type:       EventStepCompleted,
			RunID:      run.ID,
			StepID:     step.ID,
			Progress:   step.Checkpoint,
			QuoteCount: len(records),
		})
	}

	// Completion step: advance to 100 and reach the success terminal state
	r.setIdle(len(steps)+1, 100)
	if err := run.Complete(); err != nil {
		return run, err
	}

	r.renderer.RunCompleted()
	r.monitor.Emit(Event{Type: EventRunCompleted, RunID: run.ID, Progress: 100})
	if r.logger != nil {
		r.logger.LogRunComplete(run)
	}

	return run, nil
}

// failRun routes a step failure through the single error path: record the
// terminal state, reset the workflow state, and hand the failure to the
// renderer. Steps after the failed one never run.
func (r *Runner) failRun(run *pipeline.Run, step pipeline.Step, cause error) (*pipeline.Run, error) {
	_ = run.Fail(step.ID, cause.Error())

	r.setIdle(0, 0)

	r.renderer.RunFailed(step, cause)
	r.monitor.Emit(Event{Type: EventStepFailed, RunID: run.ID, StepID: step.ID, Err: cause})
	r.monitor.Emit(Event{Type: EventRunFailed, RunID: run.ID, StepID: step.ID, Err: cause})

	if r.logger != nil {
		r.logger.LogRunComplete(run)
	}

	return run, cause
}

// pause waits out the artificial step delay, honoring context cancellation.
func (r *Runner) pause(ctx context.Context) error {
	if r.delay <= 0 {
		return nil
	}

	timer := time.NewTimer(r.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// setActiveStep advances CurrentStep while a run is in flight.
func (r *Runner) setActiveStep(step int) {
	r.mu.Lock()
	r.state.CurrentStep = step
	r.mu.Unlock()
}

// setProgress advances ProgressPercent to a checkpoint.
func (r *Runner) setProgress(percent int) {
	r.mu.Lock()
	r.state.ProgressPercent = percent
	r.mu.Unlock()
}

// setIdle records a terminal state: IsRunning drops, CurrentStep and
// ProgressPercent take their terminal values (0/0 on failure, 5/100 on
// success).
func (r *Runner) setIdle(currentStep, percent int) {
	r.mu.Lock()
	r.state = pipeline.State{
		CurrentStep:     currentStep,
		ProgressPercent: percent,
	}
	r.mu.Unlock()
}
