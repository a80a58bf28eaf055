package model

import "time"

// Webhook is an organization-registered endpoint subscribed to named event
// categories. Secret is generated once at creation, used solely to sign outbound
// deliveries, and never exposed again in plaintext.
type Webhook struct {
	ID               string
	OrgID            string
	URL              string
	Secret           string
	SubscribedEvents []string
	Active           bool
	CreatedAt        time.Time
}

// Subscribed reports whether the webhook wants deliveries for eventName.
func (w Webhook) Subscribed(eventName string) bool {
	for _, e := range w.SubscribedEvents {
		if e == eventName {
			return true
		}
	}
	return false
}
