package processor

import (
	"taskweave/internal/automation"
	eventrepo "taskweave/internal/event/repository"
	taskrepo "taskweave/internal/task/repository"
	"taskweave/pkg/log"
)

// Processor claims unprocessed events and drives each through task extraction
// and automation evaluation. It is the only component that mutates the event
// store, and the store's atomic claim keeps concurrent processors from
// double-processing an event.
type Processor struct {
	events    eventrepo.Repository
	tasks     taskrepo.Repository
	extractor Extractor
	engine    automation.Engine
	cfg       Config
	l         log.Logger
}

// New creates a Processor.
func New(
	events eventrepo.Repository,
	tasks taskrepo.Repository,
	extractor Extractor,
	engine automation.Engine,
	cfg Config,
	l log.Logger,
) *Processor {
	return &Processor{
		events:    events,
		tasks:     tasks,
		extractor: extractor,
		engine:    engine,
		cfg:       cfg.withDefaults(),
		l:         l,
	}
}
