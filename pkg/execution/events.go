package execution

import (
	"sync"
	"time"

	"github.com/mleary/quotedash/pkg/pipeline"
)

// EventType categorizes different event types during a pipeline run.
type EventType string

const (
	// EventRunStarted is emitted when a pipeline run begins.
	EventRunStarted EventType = "run.started"
	// EventRunCompleted is emitted when all steps plus the completion step finish.
	EventRunCompleted EventType = "run.completed"
	// EventRunFailed is emitted when a run halts on a step failure.
	EventRunFailed EventType = "run.failed"

	// EventStepStarted is emitted when a step's fetch begins.
	EventStepStarted EventType = "step.started"
	// EventStepCompleted is emitted when a step fetches and renders successfully.
	EventStepCompleted EventType = "step.completed"
	// EventStepFailed is emitted when a step's fetch fails.
	EventStepFailed EventType = "step.failed"
)

// Event represents a real-time event during a pipeline run.
type Event struct {
	// Type categorizes the event.
	Type EventType
	// Timestamp records when this event occurred.
	Timestamp time.Time
	// RunID identifies which run this event belongs to.
	RunID pipeline.RunID
	// StepID identifies which step this event is about (if applicable).
	StepID pipeline.StepID
	// Progress is the progress percentage after this event.
	Progress int
	// QuoteCount is the number of quotes a completed step rendered.
	QuoteCount int
	// Err contains error details if applicable.
	Err error
}

// Monitor provides real-time observation of pipeline runs with thread-safe
// event broadcasting. Slow subscribers never block the pipeline: events are
// dropped when a subscriber's buffer is full.
type Monitor struct {
	mu          sync.RWMutex
	subscribers []chan Event
	closed      bool
}

// NewMonitor creates a new run monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		subscribers: make([]chan Event, 0),
	}
}

// Subscribe returns a channel that receives all run events.
func (m *Monitor) Subscribe() <-chan Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		// Return a closed channel if the monitor is closed
		ch := make(chan Event)
		close(ch)
		return ch
	}

	// Buffered channel so event emission never blocks the pipeline
	ch := make(chan Event, 64)
	m.subscribers = append(m.subscribers, ch)

	return ch
}

// Unsubscribe closes and removes a subscription.
func (m *Monitor) Unsubscribe(ch <-chan Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			close(sub)
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			break
		}
	}
}

// Emit sends an event to all subscribers (non-blocking).
func (m *Monitor) Emit(event Event) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
			// Event sent successfully
		default:
			// Buffer full, drop event rather than stall the run
		}
	}
}

// Close closes the monitor and all subscriber channels.
func (m *Monitor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	m.closed = true

	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
}
