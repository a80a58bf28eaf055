package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"taskweave/internal/model"
	"taskweave/internal/processor"
	pkgResponse "taskweave/pkg/response"
)

// IngestEvent accepts one normalized event for the org.
func (h *Handler) IngestEvent(c *gin.Context) {
	ctx := c.Request.Context()
	sc := model.Scope{OrgID: c.Param("org_id")}

	var req ingestEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkgResponse.Error(c, err)
		return
	}

	ev, err := h.proc.IngestEvent(ctx, sc, processor.IngestEventInput{
		Provider:   req.Provider,
		ExternalID: req.ExternalID,
		EventType:  req.EventType,
		Payload:    req.Payload,
	})
	if err != nil {
		if errors.Is(err, processor.ErrDuplicateEvent) {
			pkgResponse.Conflict(c, err)
			return
		}
		h.l.Errorf(ctx, "http: ingest event: %v", err)
		pkgResponse.InternalError(c)
		return
	}

	pkgResponse.OK(c, map[string]any{"event_id": ev.ID})
}

// ProcessPendingEvents drains up to limit events from the backlog.
func (h *Handler) ProcessPendingEvents(c *gin.Context) {
	ctx := c.Request.Context()

	var req processReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkgResponse.Error(c, err)
		return
	}

	report, err := h.proc.ProcessPendingEvents(ctx, req.Limit)
	if err != nil {
		h.l.Errorf(ctx, "http: process pending events: %v", err)
		pkgResponse.InternalError(c)
		return
	}

	pkgResponse.OK(c, report)
}

// EvaluateAutomations runs the org's rules against an event-like document.
func (h *Handler) EvaluateAutomations(c *gin.Context) {
	ctx := c.Request.Context()
	sc := model.Scope{OrgID: c.Param("org_id")}

	var req evaluateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkgResponse.Error(c, err)
		return
	}

	if err := h.engine.Evaluate(ctx, sc, req.Event); err != nil {
		h.l.Errorf(ctx, "http: evaluate automations: %v", err)
		pkgResponse.InternalError(c)
		return
	}

	pkgResponse.OK(c, map[string]any{"status": "evaluated"})
}

// DeliverWebhooks dispatches a payload to the org's subscribed endpoints.
func (h *Handler) DeliverWebhooks(c *gin.Context) {
	ctx := c.Request.Context()
	sc := model.Scope{OrgID: c.Param("org_id")}

	var req deliverReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkgResponse.Error(c, err)
		return
	}

	report, err := h.webhooks.Deliver(ctx, sc, req.Event, req.Payload)
	if err != nil {
		h.l.Errorf(ctx, "http: deliver webhooks: %v", err)
		pkgResponse.InternalError(c)
		return
	}

	pkgResponse.OK(c, report)
}

// TestWebhooks sends a synthetic payload and reports per-endpoint outcomes.
func (h *Handler) TestWebhooks(c *gin.Context) {
	ctx := c.Request.Context()
	sc := model.Scope{OrgID: c.Param("org_id")}

	var req testReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkgResponse.Error(c, err)
		return
	}

	report, err := h.webhooks.Test(ctx, sc, req.Event)
	if err != nil {
		h.l.Errorf(ctx, "http: test webhooks: %v", err)
		pkgResponse.InternalError(c)
		return
	}

	pkgResponse.OK(c, report)
}
