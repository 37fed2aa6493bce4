package pipeline

import "fmt"

// StepID identifies one of the four fixed pipeline steps.
type StepID string

const (
	// StepQuotes fetches the main quote list for the selected topic.
	StepQuotes StepID = "quotes"
	// StepAuthorInfo fetches author details for the fetched quotes.
	StepAuthorInfo StepID = "author-info"
	// StepRelatedQuotes fetches quotes related to the selected topic.
	StepRelatedQuotes StepID = "related-quotes"
	// StepRandomQuote fetches a single random quote.
	StepRandomQuote StepID = "random-quote"
)

// Step describes one request/response/render unit in the pipeline.
type Step struct {
	// ID is the unique identifier for this step.
	ID StepID
	// Title is the display title for the step's region.
	Title string
	// Path is the endpoint path the step fetches, relative to the base URL.
	Path string
	// Checkpoint is the progress percentage reached when the step completes.
	Checkpoint int
}

// Steps returns the fixed pipeline steps in execution order.
//
// The order and the progress checkpoints are part of the workflow contract:
// Quotes(20) -> AuthorInfo(40) -> RelatedQuotes(60) -> RandomQuote(80),
// with the completion step advancing progress to 100.
func Steps() []Step {
	return []Step{
		{ID: StepQuotes, Title: "Quotes", Path: "/quotes", Checkpoint: 20},
		{ID: StepAuthorInfo, Title: "Author Info", Path: "/authors", Checkpoint: 40},
		{ID: StepRelatedQuotes, Title: "Related Quotes", Path: "/related", Checkpoint: 60},
		{ID: StepRandomQuote, Title: "Random Quote", Path: "/random", Checkpoint: 80},
	}
}

// StepByID returns the step with the given ID.
func StepByID(id StepID) (Step, error) {
	for _, step := range Steps() {
		if step.ID == id {
			return step, nil
		}
	}
	return Step{}, fmt.Errorf("unknown step: %s", id)
}

// Input holds the parameters supplied once per pipeline run.
type Input struct {
	// Topic selects which quotes to fetch.
	Topic string
	// Count is the number of quotes requested per step.
	Count int
}

// Validate checks that the input satisfies the workflow contract.
func (i Input) Validate() error {
	if i.Topic == "" {
		return fmt.Errorf("topic cannot be empty")
	}
	if i.Count <= 0 {
		return fmt.Errorf("count must be positive, got %d", i.Count)
	}
	return nil
}

// State is the workflow state owned exclusively by the running pipeline.
//
// CurrentStep is 0 before the first step starts, 1..4 while a network step
// is active, and 5 once the completion step has run. Transitions are
// strictly forward during a run; an error or restart resets to zero.
type State struct {
	// CurrentStep is the 1-based index of the active step (0 = idle).
	CurrentStep int
	// ProgressPercent is the last checkpoint reached (0-100).
	ProgressPercent int
	// IsRunning reports whether a run is in flight.
	IsRunning bool
}
