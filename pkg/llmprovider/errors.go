package llmprovider

import (
	"errors"
	"fmt"
)

var (
	// ErrNoProvidersConfigured indicates the manager was built without a primary.
	ErrNoProvidersConfigured = errors.New("no providers configured")

	// ErrProviderFailed indicates the only configured provider failed.
	ErrProviderFailed = errors.New("provider failed")

	// ErrAllProvidersFailed indicates the primary and the fallback both failed.
	ErrAllProvidersFailed = errors.New("all providers failed")

	// ErrMalformedResponse indicates a structured response that did not parse
	// against the requested schema. It counts as a provider failure; the
	// response is never silently coerced.
	ErrMalformedResponse = errors.New("malformed structured response")
)

// ProviderError wraps a provider-specific failure with its origin.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
