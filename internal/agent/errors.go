package agent

import (
	"context"
	"errors"
	"fmt"
)

// BackendCallError is a backend round trip that failed after retries.
// Round is 1 for the tool-offering call and 2 for the synthesis call.
type BackendCallError struct {
	Round int
	Err   error
}

func (e *BackendCallError) Error() string {
	return fmt.Sprintf("backend call %d: %v", e.Round, e.Err)
}

func (e *BackendCallError) Unwrap() error { return e.Err }

// DisplayError renders a turn failure for the user.
func DisplayError(err error) string {
	var bce *BackendCallError
	if errors.As(err, &bce) {
		err = bce.Err
	}
	return "Error calling backend: " + err.Error()
}

// retryable is implemented by provider errors that know whether a retry can help.
type retryable interface {
	Retryable() bool
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var r retryable
	return errors.As(err, &r) && r.Retryable()
}
