package model

import "time"

// Integration is an organization's connection to an external provider. Token
// acquisition and refresh live outside the core; the automation engine only
// looks integrations up to decide whether an integration_action has a target.
type Integration struct {
	ID        string
	OrgID     string
	Provider  string
	Enabled   bool
	CreatedAt time.Time
}
