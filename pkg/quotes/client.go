package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	qerrors "github.com/mleary/quotedash/pkg/errors"
)

// Quote is one quote record as returned by the quotes endpoint.
type Quote struct {
	Quote  string `json:"quote"`
	Source string `json:"source"`
}

// Config holds configuration for the quotes HTTP client.
type Config struct {
	// BaseURL is the quotes endpoint base, e.g. "http://localhost:8640".
	BaseURL string
	// Timeout bounds each request. Defaults to 30s when zero.
	Timeout time.Duration
	// AuthToken, when set, is sent as a bearer token on every request.
	AuthToken string
}

// Client issues GET requests to the quotes endpoint.
//
// Every step of the pipeline goes through Fetch; the client classifies
// failures into the request/transport taxonomy so the workflow's single
// error path can treat them uniformly.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

// NewClient creates a quotes client for the given configuration.
func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL cannot be empty")
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:   strings.TrimRight(config.BaseURL, "/"),
		authToken: config.AuthToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Fetch issues one GET to base+path with topic and count query parameters
// and returns the parsed quote records.
//
// Failure classification:
//   - network-level errors return a transport Failure
//   - non-2xx statuses return a request Failure carrying the status
//   - 200 responses with an {error: string} body return a request Failure
//     carrying the endpoint's message
//   - payloads that do not match the expected shape return a request Failure
func (c *Client) Fetch(ctx context.Context, path, topic string, count int) ([]Quote, error) {
	query := url.Values{}
	query.Set("topic", topic)
	query.Set("count", strconv.Itoa(count))
	requestURL := c.baseURL + path + "?" + query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if c.authToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, qerrors.NewTransportFailure(path, err)
	}
	defer func() {
		if err := httpResp.Body.Close(); err != nil {
			// Response was already consumed, nothing useful to do
			_ = err
		}
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, qerrors.NewTransportFailure(path, err)
	}

	if httpResp.StatusCode != http.StatusOK {
		message := gjson.GetBytes(body, "error").String()
		if message == "" {
			message = http.StatusText(httpResp.StatusCode)
		}
		return nil, qerrors.NewRequestFailure(path, httpResp.StatusCode, message)
	}

	// A 200 can still carry an error object instead of a quote list
	parsed := gjson.ParseBytes(body)
	if parsed.IsObject() {
		if errField := parsed.Get("error"); errField.Exists() {
			return nil, qerrors.NewRequestFailure(path, httpResp.StatusCode, errField.String())
		}
		return nil, qerrors.NewRequestFailure(path, httpResp.StatusCode, "unexpected object payload")
	}

	if err := ValidatePayload(body); err != nil {
		return nil, qerrors.NewRequestFailure(path, httpResp.StatusCode, err.Error())
	}

	var result []Quote
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, qerrors.NewRequestFailure(path, httpResp.StatusCode,
			fmt.Sprintf("failed to parse payload: %v", err))
	}

	return result, nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
