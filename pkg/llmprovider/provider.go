package llmprovider

import (
	"context"
	"time"
)

// Provider is a single LLM backend capable of free-text completion.
type Provider interface {
	// Complete sends a prompt and returns the raw text completion.
	Complete(ctx context.Context, prompt string, opts Options) (string, error)

	// Name returns the provider name (e.g. "openai", "anthropic").
	Name() string

	// Model returns the model being used.
	Model() string
}

// Options tunes a single completion call.
type Options struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Schema is a plain field-name → type-description map describing the JSON
// document a structured extraction must return. It is embedded verbatim into
// the prompt, not enforced server-side, so responses are validated on parse.
type Schema map[string]any

const (
	defaultMaxTokens   = 1000
	defaultTemperature = 0.7
	defaultTimeout     = 30 * time.Second

	// structured extraction runs cooler for more deterministic JSON
	structuredTemperature = 0.3
)

func (o Options) withDefaults() Options {
	if o.MaxTokens <= 0 {
		o.MaxTokens = defaultMaxTokens
	}
	if o.Temperature <= 0 {
		o.Temperature = defaultTemperature
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return o
}
