package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"verigate/internal/verification/models"
)

// NetworkError is a transport failure (DNS, connection reset, body read).
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error calling %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error         { return e.Err }
func (e *NetworkError) Kind() models.ErrorKind { return models.KindNetwork }

// TimeoutError is an attempt that exceeded its per-attempt timeout.
type TimeoutError struct {
	URL     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to %s timed out after %s", e.URL, e.Timeout)
}

func (e *TimeoutError) Kind() models.ErrorKind { return models.KindTimeout }

// HTTPError is a non-2xx response.
type HTTPError struct {
	URL        string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	snippet := string(e.Body)
	if len(snippet) > 256 {
		snippet = snippet[:256]
	}
	if snippet == "" {
		return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("HTTP %d from %s: %s", e.StatusCode, e.URL, snippet)
}

func (e *HTTPError) Kind() models.ErrorKind { return models.KindHTTP }

// IsClientError reports a 4xx status.
func (e *HTTPError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// ExhaustedError wraps the last failure once no attempts remain.
type ExhaustedError struct {
	Attempts int
	Elapsed  time.Duration
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("request failed after %d attempt(s) in %s: %v", e.Attempts, e.Elapsed.Round(time.Millisecond), e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// Kind reports the class of the last failure.
func (e *ExhaustedError) Kind() models.ErrorKind {
	switch {
	case errors.Is(e.Last, context.Canceled):
		return models.KindCancelled
	case errors.Is(e.Last, context.DeadlineExceeded):
		return models.KindTimeout
	}
	return models.ErrorKindOf(e.Last)
}

// StatusCode returns the HTTP status of the last failure, or 0.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}
