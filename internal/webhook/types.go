package webhook

import "time"

// Delivery headers. Consumers verify the signature against the raw body using
// their shared secret.
const (
	HeaderEvent     = "X-TaskWeave-Event"
	HeaderSignature = "X-TaskWeave-Signature"
)

// deliveryTimeout bounds one webhook POST, including any outbound pacing.
const deliveryTimeout = 10 * time.Second

// DeliveryResult is the outcome of one dispatch attempt to one endpoint.
type DeliveryResult struct {
	WebhookID string `json:"webhook_id"`
	URL       string `json:"url"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// DeliveryReport aggregates per-webhook outcomes for one event dispatch.
// Delivery is at-least-once; consumers are expected to be idempotent.
type DeliveryReport struct {
	Event   string           `json:"event"`
	Results []DeliveryResult `json:"results"`
}

// Attempted returns how many webhooks were dispatched to.
func (r DeliveryReport) Attempted() int {
	return len(r.Results)
}

// Succeeded returns how many deliveries completed with a 2xx response.
func (r DeliveryReport) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Success {
			n++
		}
	}
	return n
}
