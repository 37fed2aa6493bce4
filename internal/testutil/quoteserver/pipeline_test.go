package quoteserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qerrors "github.com/mleary/quotedash/pkg/errors"
	"github.com/mleary/quotedash/pkg/execution"
	"github.com/mleary/quotedash/pkg/pipeline"
	"github.com/mleary/quotedash/pkg/quotes"
	"github.com/mleary/quotedash/pkg/storage"
)

// These tests drive the real runner and client against the mock server,
// covering the pipeline end to end.

func TestPipelineEndToEnd(t *testing.T) {
	client, _ := newTestClient(t, Config{})

	repo, err := storage.NewSQLiteRunRepositoryWithPath(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer func() { _ = repo.Close() }()

	runner := execution.NewRunner(client, execution.NewTextRenderer(io.Discard))
	runner.SetDelay(0)
	runner.SetLogger(execution.NewLogger(repo))

	run, err := runner.Run(context.Background(), pipeline.Input{Topic: "engineering", Count: 3})
	require.NoError(t, err)

	assert.Equal(t, pipeline.StatusCompleted, run.Status)
	require.Len(t, run.StepRecords, 4)

	// The run landed in the history with its steps
	loaded, err := repo.Load(run.ID)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StatusCompleted, loaded.Status)
	assert.Len(t, loaded.StepRecords, 4)
}

func TestPipelineEndToEndHaltsOnInjectedFailure(t *testing.T) {
	client, _ := newTestClient(t, Config{
		FailPath:   "/related",
		FailStatus: http.StatusServiceUnavailable,
	})

	runner := execution.NewRunner(client, execution.NewTextRenderer(io.Discard))
	runner.SetDelay(0)

	run, err := runner.Run(context.Background(), pipeline.Input{Topic: "science", Count: 2})
	require.Error(t, err)
	assert.True(t, qerrors.IsRequestFailure(err))

	assert.Equal(t, pipeline.StatusFailed, run.Status)
	assert.Equal(t, pipeline.StepRelatedQuotes, run.FailedStep)

	// Two completed, the failed one, and one skipped
	statuses := map[pipeline.StepStatus]int{}
	for _, record := range run.StepRecords {
		statuses[record.Status]++
	}
	assert.Equal(t, 2, statuses[pipeline.StepStatusCompleted])
	assert.Equal(t, 1, statuses[pipeline.StepStatusFailed])
	assert.Equal(t, 1, statuses[pipeline.StepStatusSkipped])
}

func TestPipelineEndToEndTransportFailure(t *testing.T) {
	server := httptest.NewServer(NewServer(Config{}).Handler())
	server.Close() // refuse connections

	client, err := quotes.NewClient(quotes.Config{
		BaseURL: server.URL,
		Timeout: time.Second,
	})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	runner := execution.NewRunner(client, execution.NewTextRenderer(io.Discard))
	runner.SetDelay(0)

	run, err := runner.Run(context.Background(), pipeline.Input{Topic: "science", Count: 1})
	require.Error(t, err)
	assert.True(t, qerrors.IsTransportFailure(err))
	assert.Equal(t, pipeline.StepQuotes, run.FailedStep)
}
