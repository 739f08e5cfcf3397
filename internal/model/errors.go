package model

import (
	"errors"
	"fmt"
)

// ErrEmptyResult is returned when aggregation yields zero plays across all
// areas. It is the only fatal condition in the pipeline.
var ErrEmptyResult = errors.New("no plays collected from any analysis area")

// ErrAgentTimeout marks an agent forced to Failed by a timeout.
var ErrAgentTimeout = errors.New("analysis agent timed out")

// ProviderError wraps a failure inside an intelligence provider. The owning
// agent recovers it as an empty contribution for its area.
type ProviderError struct {
	Area Area
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider for area %q: %v", e.Area, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ValidationError describes a malformed play dropped during validation.
type ValidationError struct {
	Title  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid play %q: %s", e.Title, e.Reason)
}
