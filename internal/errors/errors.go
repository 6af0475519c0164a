// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound signals absence. Callers render a 404 or fall back; it is never counted as a failure.
	ErrNotFound = errors.New("not found")

	// ErrInvalidIdentifier is returned when a project identifier is neither numeric nor owner/name.
	ErrInvalidIdentifier = errors.New("invalid project identifier")

	// ErrInvalidTransition is returned when a submission is moved out of a terminal state.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrPositionConflict is returned when the sync position was written by someone else
	// between read and advance.
	ErrPositionConflict = errors.New("sync position changed concurrently")

	// ErrPositionRegression is returned when an advance would move the cursor backwards.
	ErrPositionRegression = errors.New("sync position cannot move backwards")

	// ErrSyncInProgress is returned when another sync run holds the lock.
	ErrSyncInProgress = errors.New("sync already running")

	// ErrUpstreamUnavailable is wrapped by transient errors raised while the circuit breaker
	// is open. A sync run stops at the first one instead of failing every remaining item.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// ConfigError reports a missing or invalid setting. It is fatal at the boundary and never retried.
type ConfigError struct {
	Setting string
	Reason  string
}

func (e *ConfigError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s is not configured", e.Setting)
	}
	return fmt.Sprintf("%s: %s", e.Setting, e.Reason)
}

// TransientError wraps an upstream failure that a later run may not hit again:
// timeouts, rate limits, auth rejections and 5xx responses.
type TransientError struct {
	Op         string
	StatusCode int
	RetryAfter time.Duration
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: upstream status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is, or wraps, a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// IsConfig reports whether err is, or wraps, a ConfigError.
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
