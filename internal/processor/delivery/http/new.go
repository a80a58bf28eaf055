package http

import (
	"taskweave/internal/automation"
	"taskweave/internal/processor"
	"taskweave/internal/webhook"
	"taskweave/pkg/log"
)

// Handler is the thin HTTP surface over the exposed pipeline entry points.
// Routing, authentication, and the public API proper live outside the core.
type Handler struct {
	proc     *processor.Processor
	engine   automation.Engine
	webhooks webhook.Service
	l        log.Logger
}

// New creates the Handler.
func New(proc *processor.Processor, engine automation.Engine, webhooks webhook.Service, l log.Logger) *Handler {
	return &Handler{
		proc:     proc,
		engine:   engine,
		webhooks: webhooks,
		l:        l,
	}
}
