package metadata

import (
	"errors"
	"fmt"
)

var (
	// ErrUsage matches every *UsageError.
	ErrUsage = errors.New("usage error")

	// ErrIntrospectionUnavailable marks a failed catalog or schema probe.
	// Listing recovers from it by treating the feature as absent.
	ErrIntrospectionUnavailable = errors.New("introspection unavailable")

	// ErrObjectLookup marks a failed table or column lookup.
	// Listing recovers from it by returning an empty result.
	ErrObjectLookup = errors.New("object lookup failed")
)

// UsageError reports a request that violates a precondition. It is raised
// before any I/O and is always returned to the caller.
type UsageError struct {
	Op     string
	Reason string
	Cause  error
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *UsageError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrUsage) hold for any UsageError.
func (e *UsageError) Is(target error) bool {
	return target == ErrUsage
}

// probeError wraps a recovered collaborator failure with its kind.
func probeError(kind error, what string, cause error) error {
	return fmt.Errorf("%w: %s: %w", kind, what, cause)
}
