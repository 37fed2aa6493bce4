package quoteserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qerrors "github.com/mleary/quotedash/pkg/errors"
	"github.com/mleary/quotedash/pkg/pipeline"
	"github.com/mleary/quotedash/pkg/quotes"
)

func newTestClient(t *testing.T, config Config) (*quotes.Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(NewServer(config).Handler())
	t.Cleanup(server.Close)

	client, err := quotes.NewClient(quotes.Config{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client, server
}

func TestServerServesAllPipelineEndpoints(t *testing.T) {
	client, _ := newTestClient(t, Config{})

	for _, step := range pipeline.Steps() {
		t.Run(string(step.ID), func(t *testing.T) {
			records, err := client.Fetch(context.Background(), step.Path, "engineering", 2)
			require.NoError(t, err)
			require.NotEmpty(t, records)
			for _, q := range records {
				assert.NotEmpty(t, q.Quote)
				assert.NotEmpty(t, q.Source)
			}
		})
	}
}

func TestServerHonorsCount(t *testing.T) {
	client, _ := newTestClient(t, Config{})

	records, err := client.Fetch(context.Background(), "/quotes", "science", 5)
	require.NoError(t, err)
	assert.Len(t, records, 5)
}

func TestServerRandomReturnsOneQuote(t *testing.T) {
	client, _ := newTestClient(t, Config{})

	records, err := client.Fetch(context.Background(), "/random", "humor", 5)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestServerUnknownTopicFallsBack(t *testing.T) {
	client, _ := newTestClient(t, Config{})

	records, err := client.Fetch(context.Background(), "/quotes", "no-such-topic", 1)
	require.NoError(t, err)
	assert.NotEmpty(t, records)
}

func TestServerRejectsMissingTopic(t *testing.T) {
	server := httptest.NewServer(NewServer(Config{}).Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/quotes")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServerFailureInjection(t *testing.T) {
	client, _ := newTestClient(t, Config{
		FailPath:   "/related",
		FailStatus: http.StatusBadGateway,
	})

	// Earlier endpoints still answer
	_, err := client.Fetch(context.Background(), "/quotes", "science", 1)
	require.NoError(t, err)

	// The configured path fails with the configured status
	_, err = client.Fetch(context.Background(), "/related", "science", 1)
	require.Error(t, err)
	assert.True(t, qerrors.IsRequestFailure(err))
	assert.Contains(t, err.Error(), "status=502")
}

func TestLoadConfigDefaults(t *testing.T) {
	config := LoadConfig()

	assert.Equal(t, ":8640", config.Addr)
	assert.Equal(t, http.StatusInternalServerError, config.FailStatus)
	assert.Zero(t, config.Latency)
	assert.Empty(t, config.FailPath)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("QUOTESERVER_ADDR", ":9999")
	t.Setenv("QUOTESERVER_LATENCY_MS", "250")
	t.Setenv("QUOTESERVER_FAIL_PATH", "/authors")
	t.Setenv("QUOTESERVER_FAIL_STATUS", "503")

	config := LoadConfig()

	assert.Equal(t, ":9999", config.Addr)
	assert.Equal(t, 250*time.Millisecond, config.Latency)
	assert.Equal(t, "/authors", config.FailPath)
	assert.Equal(t, 503, config.FailStatus)
}
