package model

// Scope carries the organization boundary for an operation. Every repository and
// service call is scoped to exactly one organization; nothing in the core reads or
// writes across organizations.
type Scope struct {
	OrgID string
}
