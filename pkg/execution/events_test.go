package execution

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mleary/quotedash/pkg/pipeline"
)

func TestMonitorDeliversToAllSubscribers(t *testing.T) {
	monitor := NewMonitor()
	defer monitor.Close()

	first := monitor.Subscribe()
	second := monitor.Subscribe()

	monitor.Emit(Event{Type: EventRunStarted, RunID: pipeline.RunID("r1")})

	for _, ch := range []<-chan Event{first, second} {
		select {
		case event := <-ch:
			assert.Equal(t, EventRunStarted, event.Type)
			assert.Equal(t, pipeline.RunID("r1"), event.RunID)
			assert.False(t, event.Timestamp.IsZero())
		case <-time.After(time.Second):
			t.Fatal("expected event was not delivered")
		}
	}
}

func TestMonitorEmitNeverBlocks(t *testing.T) {
	monitor := NewMonitor()
	defer monitor.Close()

	// Never drained; fills its buffer
	_ = monitor.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			monitor.Emit(Event{Type: EventStepCompleted})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full subscriber")
	}
}

func TestMonitorUnsubscribe(t *testing.T) {
	monitor := NewMonitor()
	defer monitor.Close()

	ch := monitor.Subscribe()
	monitor.Unsubscribe(ch)

	// The channel is closed after unsubscribe
	_, open := <-ch
	assert.False(t, open)

	// Emitting after unsubscribe must not panic
	monitor.Emit(Event{Type: EventRunCompleted})
}

func TestMonitorClose(t *testing.T) {
	monitor := NewMonitor()

	ch := monitor.Subscribe()
	monitor.Close()

	_, open := <-ch
	assert.False(t, open)

	// Subscribing after close returns a closed channel
	late := monitor.Subscribe()
	_, open = <-late
	require.False(t, open)

	// Emit and a second Close are no-ops
	monitor.Emit(Event{Type: EventRunCompleted})
	monitor.Close()
}
