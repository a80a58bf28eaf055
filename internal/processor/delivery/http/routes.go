package http

import "github.com/gin-gonic/gin"

// MapRoutes registers the exposed pipeline entry points.
func (h *Handler) MapRoutes(r *gin.RouterGroup) {
	r.POST("/process", h.ProcessPendingEvents)

	orgs := r.Group("/orgs/:org_id")
	{
		orgs.POST("/events", h.IngestEvent)
		orgs.POST("/automations/evaluate", h.EvaluateAutomations)
		orgs.POST("/webhooks/deliver", h.DeliverWebhooks)
		orgs.POST("/webhooks/test", h.TestWebhooks)
	}
}
