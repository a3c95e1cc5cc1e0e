package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying every failure the engine can surface.
var (
	// ErrConfig covers bad or missing configuration: absent credentials,
	// unknown provider, invalid chunking parameters. Fail-fast at startup.
	ErrConfig = errors.New("invalid configuration")

	// ErrDimensionMismatch is returned when a vector's width does not match
	// the width the store was initialized with.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrProviderUnavailable marks transient embedding/LLM backend failures.
	// The engine does not retry these beyond transport-level backoff; retry
	// policy belongs to the caller.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrStoreUnavailable marks vector store connection failures.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrGeneration is returned when the model call failed or produced
	// unusable output.
	ErrGeneration = errors.New("answer generation failed")

	// ErrEmptyQuestion rejects blank questions before any backend call.
	ErrEmptyQuestion = errors.New("empty question")
)

// ConfigError wraps ErrConfig with the offending setting.
type ConfigError struct {
	Name   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Name, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// NewConfigError creates a ConfigError.
func NewConfigError(name, reason string) *ConfigError {
	return &ConfigError{Name: name, Reason: reason}
}
