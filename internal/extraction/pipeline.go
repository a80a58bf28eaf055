package extraction

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"taskweave/internal/model"
	"taskweave/pkg/llmprovider"
)

// ExtractTasks extracts accepted candidate tasks from one event. On total
// completion-service failure it returns an empty slice: extraction degrades,
// it never blocks the event.
func (p *Pipeline) ExtractTasks(ctx context.Context, ev model.Event) []CandidateTask {
	prompt := fmt.Sprintf(taskExtractionPrompt, ev.EventType, buildEventContext(ev))

	schema := llmprovider.Schema{
		"tasks": []any{
			map[string]any{
				"title":            "string",
				"description":      "string",
				"priority":         "number (1-5)",
				"estimated_effort": "string",
				"category":         "string",
				"actionable":       "boolean",
				"confidence":       "number (0-1)",
			},
		},
	}

	doc, err := p.llm.ExtractStructured(ctx, prompt, schema, llmprovider.Options{})
	if err != nil {
		p.l.Errorf(ctx, "extraction: task extraction failed for event %s: %v", ev.ID, err)
		return nil
	}

	rawTasks, _ := doc["tasks"].([]any)
	var accepted []CandidateTask
	for _, raw := range rawTasks {
		fields, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		cand := CandidateTask{
			Title:           getString(fields, "title"),
			Description:     getString(fields, "description"),
			Priority:        getInt(fields, "priority"),
			EstimatedEffort: getString(fields, "estimated_effort"),
			Category:        getString(fields, "category"),
			Actionable:      getBool(fields, "actionable"),
			Confidence:      getFloat(fields, "confidence"),
		}
		if cand.Title == "" {
			continue
		}
		// Discarded candidates are not stored and not logged as tasks.
		if !cand.Actionable || cand.Confidence <= confidenceThreshold {
			continue
		}
		accepted = append(accepted, cand)
	}

	p.l.Infof(ctx, "extraction: event %s extracted=%d accepted=%d", ev.ID, len(rawTasks), len(accepted))
	return accepted
}

// buildEventContext renders the payload into provider-specific text for the
// model. Free text is truncated to keep prompts bounded.
func buildEventContext(ev model.Event) string {
	payload := ev.Payload
	switch ev.EventType {
	case "email":
		return fmt.Sprintf("Subject: %s\nFrom: %s\nBody: %s",
			getString(payload, "subject"),
			getString(payload, "from"),
			truncate(getString(payload, "body"), contextTruncateLimit),
		)
	case "issue":
		return fmt.Sprintf("Title: %s\nRepository: %s\nState: %s\nBody: %s\nLabels: %s",
			getString(payload, "title"),
			getString(payload, "repo"),
			getString(payload, "state"),
			truncate(getString(payload, "body"), contextTruncateLimit),
			strings.Join(getStrings(payload, "labels"), ", "),
		)
	case "message":
		return fmt.Sprintf("Channel: %s\nUser: %s\nMessage: %s",
			getString(payload, "channel"),
			getString(payload, "user"),
			getString(payload, "text"),
		)
	case "card":
		return fmt.Sprintf("Board: %s\nCard Name: %s\nDescription: %s\nDue Date: %s\nLabels: %s",
			getString(payload, "board"),
			getString(payload, "name"),
			getString(payload, "description"),
			getString(payload, "due_date"),
			strings.Join(getStrings(payload, "labels"), ", "),
		)
	default:
		if raw, ok := payload["raw"]; ok {
			return truncate(fmt.Sprintf("%v", raw), contextTruncateLimit)
		}
		return truncate(fmt.Sprintf("%v", payload), contextTruncateLimit)
	}
}

// truncate cuts s to at most limit bytes without splitting a multi-byte rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

func getString(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

func getStrings(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok {
		if typed, ok := m[key].([]string); ok {
			return typed
		}
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func getBool(m map[string]any, key string) bool {
	v, _ := m[key].(bool)
	return v
}

func getFloat(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func getInt(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
