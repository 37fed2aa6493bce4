package execution

import (
	"fmt"
	"io"

	"github.com/mleary/quotedash/pkg/pipeline"
	"github.com/mleary/quotedash/pkg/quotes"
)

const (
	// StatusComplete is the fixed status text shown when a run completes.
	StatusComplete = "All steps complete"
	// StatusError is the fixed status text shown when a run fails.
	StatusError = "An error occurred"
	// StatusLoading is the status text shown while a run is in flight.
	StatusLoading = "Loading..."
)

// Renderer receives the UI side effects of a pipeline run. It is the only
// surface the runner touches for display; implementations own the mapping
// from step completions and failures onto their regions.
//
// Contract, matching the workflow semantics:
//   - RunStarted: all four regions switch to a loading indicator, progress
//     shows 0 with a loading status, the trigger control is disabled.
//   - StepCompleted: the step's region renders the payload and progress
//     advances to the step's checkpoint. Payloads are not retained.
//   - RunCompleted: progress shows 100 with StatusComplete and the trigger
//     is re-enabled.
//   - RunFailed: progress resets to 0 with StatusError, every region still
//     showing its loading indicator is overwritten with an inline error
//     containing the failure message, regions already rendered keep their
//     content, and the trigger is re-enabled.
type Renderer interface {
	RunStarted(input pipeline.Input)
	StepCompleted(step pipeline.Step, records []quotes.Quote, percent int)
	RunCompleted()
	RunFailed(step pipeline.Step, err error)
}

// TextRenderer implements Renderer by writing plain lines to a writer.
// Used by the headless run command.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer creates a renderer writing to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

// RunStarted announces the run and its input.
func (r *TextRenderer) RunStarted(input pipeline.Input) {
	_, _ = fmt.Fprintf(r.w, "Fetching %d %q quotes in %d steps...\n",
		input.Count, input.Topic, len(pipeline.Steps()))
}

// StepCompleted prints the step's quotes and the new progress value.
func (r *TextRenderer) StepCompleted(step pipeline.Step, records []quotes.Quote, percent int) {
	_, _ = fmt.Fprintf(r.w, "[%3d%%] %s (%d quotes)\n", percent, step.Title, len(records))
	for _, q := range records {
		_, _ = fmt.Fprintf(r.w, "       %q (%s)\n", q.Quote, q.Source)
	}
}

// RunCompleted prints the fixed completion line.
func (r *TextRenderer) RunCompleted() {
	_, _ = fmt.Fprintf(r.w, "[100%%] %s\n", StatusComplete)
}

// RunFailed prints the fixed error line with the failure message.
func (r *TextRenderer) RunFailed(step pipeline.Step, err error) {
	_, _ = fmt.Fprintf(r.w, "[  0%%] %s at %s: %v\n", StatusError, step.Title, err)
}
