package automation

import (
	"context"

	"taskweave/internal/model"
)

// Engine evaluates an organization's automation rules against one event-like
// document. Rules are pure functions of their fields and the incoming event;
// the engine holds no state between invocations and re-reads enabled rules on
// every call.
type Engine interface {
	// Evaluate runs every enabled automation of the scope against eventLike.
	// A failing automation is logged and skipped; it never aborts evaluation
	// of the remaining rules.
	Evaluate(ctx context.Context, sc model.Scope, eventLike map[string]any) error
}
