package api

import "fmt"

// TransportError reports a non-success HTTP status from the backend.
// The response body is discarded; status code and text are what callers
// branch on (transport failures are the retryable kind).
type TransportError struct {
	Status     int
	StatusText string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend returned %d %s", e.Status, e.StatusText)
}

// DecodeError reports a success response whose body was not valid JSON.
// Kept distinct from TransportError so callers can decide to retry the
// former but not the latter.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response from %s: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
