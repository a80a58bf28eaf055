package http

// ingestEventReq is the intake body for one normalized event.
type ingestEventReq struct {
	Provider   string         `json:"provider" binding:"required"`
	ExternalID string         `json:"external_id"`
	EventType  string         `json:"event_type"`
	Payload    map[string]any `json:"payload"`
}

// processReq bounds one processing pass.
type processReq struct {
	Limit int `json:"limit"`
}

// evaluateReq carries the event-like document for rule evaluation.
type evaluateReq struct {
	Event map[string]any `json:"event" binding:"required"`
}

// deliverReq carries a webhook dispatch request.
type deliverReq struct {
	Event   string         `json:"event" binding:"required"`
	Payload map[string]any `json:"payload"`
}

// testReq names the event category to test-deliver.
type testReq struct {
	Event string `json:"event" binding:"required"`
}
