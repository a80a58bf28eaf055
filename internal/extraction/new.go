package extraction

import (
	"taskweave/pkg/log"
)

// Pipeline turns one event into zero or more accepted candidate tasks and
// scores their priorities. Extraction is best-effort: it never blocks event
// processing on model failure.
type Pipeline struct {
	llm CompletionService
	l   log.Logger
}

// New creates an extraction Pipeline.
func New(llm CompletionService, l log.Logger) *Pipeline {
	return &Pipeline{llm: llm, l: l}
}
