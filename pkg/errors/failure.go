package errors

import (
	"errors"
	"fmt"
	"time"
)

// FailureKind categorizes the two ways a pipeline step can fail.
type FailureKind string

const (
	// KindRequest means the endpoint answered, but with a non-success
	// status or an error payload.
	KindRequest FailureKind = "request"
	// KindTransport means the endpoint could not be reached at all.
	KindTransport FailureKind = "transport"
)

// Failure represents a step failure with operational context.
//
// Both kinds are handled identically by the workflow error path; the kind
// only changes the message text surfaced to the user.
type Failure struct {
	Kind      FailureKind // Which failure taxonomy entry
	Endpoint  string      // Which endpoint path was being fetched
	Status    int         // HTTP status code (request failures only)
	Message   string      // Human-readable failure message
	Timestamp time.Time   // When the failure occurred
	Cause     error       // Underlying error (transport failures)
}

// NewRequestFailure creates a Failure for a non-success response.
func NewRequestFailure(endpoint string, status int, message string) *Failure {
	return &Failure{
		Kind:      KindRequest,
		Endpoint:  endpoint,
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewTransportFailure creates a Failure wrapping a network-level error.
//
// Returns nil if cause is nil (no error to wrap).
func NewTransportFailure(endpoint string, cause error) *Failure {
	if cause == nil {
		return nil
	}

	return &Failure{
		Kind:      KindTransport,
		Endpoint:  endpoint,
		Message:   cause.Error(),
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

// Error implements the error interface.
//
// Format: "request failure: endpoint={path} status={code}: {message}"
// Status is omitted when zero.
func (f *Failure) Error() string {
	if f == nil {
		return "<nil Failure>"
	}

	if f.Status != 0 {
		return fmt.Sprintf("%s failure: endpoint=%s status=%d: %s",
			f.Kind, f.Endpoint, f.Status, f.Message)
	}
	return fmt.Sprintf("%s failure: endpoint=%s: %s", f.Kind, f.Endpoint, f.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (f *Failure) Unwrap() error {
	if f == nil {
		return nil
	}
	return f.Cause
}

// KindOf returns the failure kind of err, or "" if err is not a Failure.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// IsRequestFailure reports whether err is a request-kind Failure.
func IsRequestFailure(err error) bool {
	return KindOf(err) == KindRequest
}

// IsTransportFailure reports whether err is a transport-kind Failure.
func IsTransportFailure(err error) bool {
	return KindOf(err) == KindTransport
}
