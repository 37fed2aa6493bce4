package quotes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qerrors "github.com/mleary/quotedash/pkg/errors"
)

func TestNewClient(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "http://localhost:8640"})
	require.NoError(t, err)
	assert.NotNil(t, client)

	_, err = NewClient(Config{})
	assert.Error(t, err)
}

func TestFetchSuccess(t *testing.T) {
	var gotPath, gotTopic, gotCount, gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTopic = r.URL.Query().Get("topic")
		gotCount = r.URL.Query().Get("count")
		gotAuth = r.Header.Get("Authorization")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]Quote{
			{Quote: "Well begun is half done.", Source: "Aristotle"},
			{Quote: "Simplicity is prerequisite for reliability.", Source: "Edsger Dijkstra"},
		})
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL, AuthToken: "sekrit"})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	records, err := client.Fetch(context.Background(), "/quotes", "inspiration", 2)
	require.NoError(t, err)

	assert.Equal(t, "/quotes", gotPath)
	assert.Equal(t, "inspiration", gotTopic)
	assert.Equal(t, "2", gotCount)
	assert.Equal(t, "Bearer sekrit", gotAuth)

	require.Len(t, records, 2)
	assert.Equal(t, "Aristotle", records[0].Source)
}

func TestFetchRequestFailureOnErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "quota exceeded"})
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), "/authors", "science", 1)
	require.Error(t, err)
	assert.True(t, qerrors.IsRequestFailure(err))
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Contains(t, err.Error(), "status=503")
}

func TestFetchRequestFailureOnErrorBody(t *testing.T) {
	// Some endpoints answer 200 with an error document instead of quotes
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unknown topic"})
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), "/quotes", "nope", 1)
	require.Error(t, err)
	assert.True(t, qerrors.IsRequestFailure(err))
	assert.Contains(t, err.Error(), "unknown topic")
}

func TestFetchRequestFailureOnMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"quote": ""}]`))
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), "/quotes", "science", 1)
	require.Error(t, err)
	assert.True(t, qerrors.IsRequestFailure(err))
}

func TestFetchTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client, err := NewClient(Config{BaseURL: server.URL, Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), "/random", "science", 1)
	require.Error(t, err)
	assert.True(t, qerrors.IsTransportFailure(err))
}

func TestFetchHonorsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.Fetch(ctx, "/quotes", "science", 1)
	require.Error(t, err)
	assert.True(t, qerrors.IsTransportFailure(err))
}
