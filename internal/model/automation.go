package model

import "time"

// TriggerKind discriminates automation triggers. Only TriggerEvent is matched
// today; unknown kinds never match (forward-compatible default).
type TriggerKind string

const (
	TriggerEvent TriggerKind = "event"
)

// ActionKind discriminates automation actions. Unknown kinds are a logged no-op.
type ActionKind string

const (
	ActionCreateTask        ActionKind = "create_task"
	ActionSendNotification  ActionKind = "send_notification"
	ActionWebhook           ActionKind = "webhook"
	ActionIntegrationAction ActionKind = "integration_action"
)

// Trigger describes when an automation fires.
type Trigger struct {
	Type      TriggerKind `json:"type"`
	Provider  string      `json:"provider,omitempty"`
	EventType string      `json:"event_type,omitempty"`
}

// Conditions is a flat key/value map matched conjunctively against the event:
// empty matches everything, every present key must equal the event's value
// exactly, a missing key means no match. No operators, ranges, or negation.
type Conditions map[string]any

// Actions describes the single action dispatched when an automation matches.
type Actions struct {
	Type ActionKind `json:"type"`

	// create_task fields
	TaskTitle       string   `json:"task_title,omitempty"`
	TaskDescription string   `json:"task_description,omitempty"`
	TaskPriority    int      `json:"task_priority,omitempty"`
	TaskLabels      []string `json:"task_labels,omitempty"`

	// send_notification fields
	Message string `json:"message,omitempty"`

	// integration_action fields
	Provider string `json:"provider,omitempty"`
}

// Automation is an organization-scoped trigger→conditions→action rule. The
// engine evaluates it read-only; mutation happens only through organization
// administration, outside the core.
type Automation struct {
	ID         string
	OrgID      string
	Name       string
	Trigger    Trigger
	Conditions Conditions
	Actions    Actions
	Enabled    bool
	CreatedAt  time.Time
}
