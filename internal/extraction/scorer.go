package extraction

import (
	"context"
	"fmt"

	"taskweave/internal/model"
	"taskweave/pkg/llmprovider"
)

// ScorePriority issues a second, independent completion call to rate one
// accepted candidate. The result is clamped to [1,5]; any failure degrades to
// the default medium priority.
func (p *Pipeline) ScorePriority(ctx context.Context, cand CandidateTask, source string, orgCtx OrgContext) int {
	prompt := fmt.Sprintf(priorityScoringPrompt,
		cand.Title, cand.Description, source, formatOrgContext(orgCtx))

	schema := llmprovider.Schema{
		"priority":        "number (1-5)",
		"reasoning":       "string",
		"urgency_factors": []any{"string"},
		"confidence":      "number (0-1)",
	}

	doc, err := p.llm.ExtractStructured(ctx, prompt, schema, llmprovider.Options{})
	if err != nil {
		p.l.Errorf(ctx, "extraction: priority scoring failed for %q: %v", truncate(cand.Title, 50), err)
		return defaultPriority
	}

	priority, ok := doc["priority"]
	if !ok {
		return defaultPriority
	}
	scored := getInt(map[string]any{"priority": priority}, "priority")
	if scored == 0 {
		return defaultPriority
	}
	scored = model.ClampPriority(scored)

	p.l.Infof(ctx, "extraction: scored %q priority=%d confidence=%.2f",
		truncate(cand.Title, 50), scored, getFloat(doc, "confidence"))
	return scored
}

func formatOrgContext(orgCtx OrgContext) string {
	if orgCtx.TeamSize == "" && orgCtx.CurrentWorkload == "" && len(orgCtx.RecentPriorities) == 0 {
		return ""
	}
	return fmt.Sprintf("Organization Context:\n- Team size: %s\n- Current workload: %s\n- Recent priorities: %v",
		orDefault(orgCtx.TeamSize), orDefault(orgCtx.CurrentWorkload), orgCtx.RecentPriorities)
}

func orDefault(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
