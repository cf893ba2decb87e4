package apierr

import "fmt"

// ConfigurationError indicates missing or incomplete credentials. It is
// surfaced as a degraded response, never a crash.
type ConfigurationError struct {
	Service string
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is not configured: missing %s", e.Service, e.Missing)
}

// NewConfigurationError creates a ConfigurationError for a service and the
// variables it is missing.
func NewConfigurationError(service, missing string) *ConfigurationError {
	return &ConfigurationError{Service: service, Missing: missing}
}

// ValidationError indicates bad input shape on a request, such as oversized
// content or a missing required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for a field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// PostingError indicates that every configured posting credential mode was
// exhausted. LastErr carries the final provider error payload.
type PostingError struct {
	Attempts []string
	LastErr  error
}

func (e *PostingError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("all posting auth modes failed (tried %d): %v", len(e.Attempts), e.LastErr)
	}
	return "no posting auth mode is configured"
}

// Unwrap returns the last provider error.
func (e *PostingError) Unwrap() error {
	return e.LastErr
}
