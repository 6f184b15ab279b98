package models

import "fmt"

// AuthError indicates that credentials are missing, expired or were denied by
// the provider. The CLI reacts by asking the user to run the auth command
// again instead of treating the run as a plain failure.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("auth: %s", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ProviderError wraps any upstream API failure (network, quota, permission,
// malformed response). Provider names the collaborator ("calendar", "drive",
// "slides", "openai", "slack") and Op the operation that failed.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ValidationError indicates bad user input or missing configuration, caught
// before any provider is called.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
