package llmprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"taskweave/pkg/log"
)

// Manager is the completion-service capability consumed by the pipeline: an
// explicitly constructed primary provider with an optional ordered fallback.
// On any primary failure (timeout, transport error, non-2xx, malformed
// structured response) the call is retried once against the fallback before
// ErrAllProvidersFailed surfaces; without a fallback the primary's error
// propagates as ErrProviderFailed.
type Manager struct {
	primary  Provider
	fallback Provider // nil when not configured
	timeout  time.Duration
	l        log.Logger
}

// Config tunes manager-wide defaults applied when a call leaves an Option unset.
type Config struct {
	Timeout time.Duration // per-attempt timeout; 0 falls back to defaultTimeout
}

// NewManager builds a Manager. fallback may be nil.
func NewManager(primary, fallback Provider, cfg Config, l log.Logger) *Manager {
	return &Manager{primary: primary, fallback: fallback, timeout: cfg.Timeout, l: l}
}

func (m *Manager) applyDefaults(opts Options) Options {
	if opts.Timeout <= 0 {
		opts.Timeout = m.timeout
	}
	return opts.withDefaults()
}

// Complete generates a free-text completion with fallback.
func (m *Manager) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	if m.primary == nil {
		return "", ErrNoProvidersConfigured
	}
	opts = m.applyDefaults(opts)

	text, err := m.completeWith(ctx, m.primary, prompt, opts)
	if err == nil {
		return text, nil
	}
	m.l.Warnf(ctx, "llm: primary provider %s failed: %v", m.primary.Name(), err)

	if m.fallback == nil {
		return "", fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}

	text, ferr := m.completeWith(ctx, m.fallback, prompt, opts)
	if ferr == nil {
		m.l.Infof(ctx, "llm: fallback provider %s succeeded", m.fallback.Name())
		return text, nil
	}
	m.l.Warnf(ctx, "llm: fallback provider %s failed: %v", m.fallback.Name(), ferr)
	return "", fmt.Errorf("%w: %v", ErrAllProvidersFailed, ferr)
}

// ExtractStructured asks for a JSON document matching schema and parses it.
// A response that does not parse is a provider failure (ErrMalformedResponse),
// so the fallback gets its one attempt before the error surfaces.
func (m *Manager) ExtractStructured(ctx context.Context, prompt string, schema Schema, opts Options) (map[string]any, error) {
	if m.primary == nil {
		return nil, ErrNoProvidersConfigured
	}
	opts = m.applyDefaults(opts)
	opts.Temperature = structuredTemperature

	jsonPrompt, err := buildStructuredPrompt(prompt, schema)
	if err != nil {
		return nil, err
	}

	doc, err := m.extractWith(ctx, m.primary, jsonPrompt, opts)
	if err == nil {
		return doc, nil
	}
	m.l.Warnf(ctx, "llm: primary provider %s failed structured extraction: %v", m.primary.Name(), err)

	if m.fallback == nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}

	doc, ferr := m.extractWith(ctx, m.fallback, jsonPrompt, opts)
	if ferr == nil {
		m.l.Infof(ctx, "llm: fallback provider %s succeeded structured extraction", m.fallback.Name())
		return doc, nil
	}
	m.l.Warnf(ctx, "llm: fallback provider %s failed structured extraction: %v", m.fallback.Name(), ferr)
	return nil, fmt.Errorf("%w: %v", ErrAllProvidersFailed, ferr)
}

func (m *Manager) completeWith(ctx context.Context, p Provider, prompt string, opts Options) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	text, err := p.Complete(callCtx, prompt, opts)
	if err != nil {
		return "", &ProviderError{Provider: p.Name(), Err: err}
	}
	return text, nil
}

func (m *Manager) extractWith(ctx context.Context, p Provider, jsonPrompt string, opts Options) (map[string]any, error) {
	text, err := m.completeWith(ctx, p, jsonPrompt, opts)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(StripCodeFences(text)), &doc); err != nil {
		return nil, &ProviderError{
			Provider: p.Name(),
			Err:      fmt.Errorf("%w: %v", ErrMalformedResponse, err),
		}
	}
	return doc, nil
}

func buildStructuredPrompt(prompt string, schema Schema) (string, error) {
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("llm: marshal schema: %w", err)
	}
	return fmt.Sprintf("%s\n\nRespond with valid JSON in this exact format: %s", prompt, schemaJSON), nil
}

// StripCodeFences removes an enclosing markdown code fence from an otherwise
// valid JSON body. Models wrap JSON in ```json fences often enough that the
// contract requires stripping them before parsing.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
