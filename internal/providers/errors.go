package providers

import (
	"fmt"
	"net/http"
	"strings"
)

// HTTPError is returned for a non-2xx backend response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, friendlyHTTPError(e.StatusCode, e.Body))
}

// Retryable reports whether the same request may succeed later.
func (e *HTTPError) Retryable() bool {
	switch {
	case e.StatusCode == http.StatusTooManyRequests,
		e.StatusCode == http.StatusRequestTimeout,
		e.StatusCode >= 500:
		return true
	}
	return false
}

// TransportError wraps a failure to reach the backend at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "HTTP request: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }
func (e *TransportError) Retryable() bool { return true }

func friendlyHTTPError(code int, body string) string {
	if code == http.StatusTooManyRequests {
		return "rate limit exceeded"
	}
	s := strings.TrimSpace(body)
	if len(s) > 300 {
		s = s[:300]
	}
	return s
}
