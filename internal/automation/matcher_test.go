package automation

import (
	"encoding/json"
	"testing"

	"taskweave/internal/model"
)

func TestMatchesTrigger(t *testing.T) {
	eventLike := map[string]any{
		"provider":   "github",
		"event_type": "issue",
		"state":      "open",
	}

	cases := []struct {
		name    string
		trigger model.Trigger
		want    bool
	}{
		{
			"exact match",
			model.Trigger{Type: model.TriggerEvent, Provider: "github", EventType: "issue"},
			true,
		},
		{
			"provider mismatch",
			model.Trigger{Type: model.TriggerEvent, Provider: "slack", EventType: "issue"},
			false,
		},
		{
			"event type mismatch",
			model.Trigger{Type: model.TriggerEvent, Provider: "github", EventType: "pull_request"},
			false,
		},
		{
			"unknown trigger kind never matches",
			model.Trigger{Type: "schedule", Provider: "github", EventType: "issue"},
			false,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := matchesTrigger(c.trigger, eventLike); got != c.want {
				t.Errorf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestMatchesConditions(t *testing.T) {
	eventLike := map[string]any{
		"provider":      "github",
		"state":         "open",
		"tasks_created": 2,
		"nested":        map[string]any{"a": 1},
	}

	cases := []struct {
		name       string
		conditions model.Conditions
		want       bool
	}{
		{"empty matches everything", model.Conditions{}, true},
		{"nil matches everything", nil, true},
		{"single equality", model.Conditions{"state": "open"}, true},
		{"value mismatch", model.Conditions{"state": "closed"}, false},
		{"missing key is no match", model.Conditions{"assignee": "anyone"}, false},
		{"conjunction all present", model.Conditions{"state": "open", "provider": "github"}, true},
		{"conjunction one fails", model.Conditions{"state": "open", "provider": "slack"}, false},
		{"deep equality on non-scalars", model.Conditions{"nested": map[string]any{"a": 1}}, true},
		{"numeric equality", model.Conditions{"tasks_created": 2}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := matchesConditions(c.conditions, eventLike); got != c.want {
				t.Errorf("got %v, want %v", got, c.want)
			}
		})
	}
}

// Conditions are loaded from a JSON column, so their numbers arrive as
// float64, while derived event fields like tasks_created are ints. The match
// must hold across that boundary.
func TestMatchesConditionsStoredNumericAgainstDerivedInt(t *testing.T) {
	var conditions model.Conditions
	if err := json.Unmarshal([]byte(`{"tasks_created": 1, "state": "open"}`), &conditions); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	eventLike := map[string]any{
		"state":         "open",
		"tasks_created": 1,
	}
	if !matchesConditions(conditions, eventLike) {
		t.Errorf("stored numeric condition did not match derived int field")
	}

	eventLike["tasks_created"] = 2
	if matchesConditions(conditions, eventLike) {
		t.Errorf("mismatched numeric condition must not match")
	}
}
