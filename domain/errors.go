package domain

import (
	"errors"
	"fmt"
)

// ErrProfileNotFound is returned by the profile store when no profile exists
// under the requested id.
var ErrProfileNotFound = errors.New("technician profile not found")

// ConfigurationError indicates a missing credential or setting. It is raised
// once, when a client is constructed, not on every call.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is not set", e.Setting)
}

// EmbeddingProviderError wraps a failure from the embedding provider.
type EmbeddingProviderError struct {
	Err error
}

func (e *EmbeddingProviderError) Error() string {
	return fmt.Sprintf("embedding provider: %v", e.Err)
}

func (e *EmbeddingProviderError) Unwrap() error {
	return e.Err
}

// IndexUnavailableError wraps a transport or auth failure from the remote
// vector index.
type IndexUnavailableError struct {
	Op  string
	Err error
}

func (e *IndexUnavailableError) Error() string {
	return fmt.Sprintf("vector index %s: %v", e.Op, e.Err)
}

func (e *IndexUnavailableError) Unwrap() error {
	return e.Err
}

// ValidationError reports a malformed profile field. Profiles failing
// validation are rejected before any embedding work begins.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
