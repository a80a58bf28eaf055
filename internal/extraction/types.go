package extraction

import (
	"context"

	"taskweave/pkg/llmprovider"
)

// CandidateTask is a model-proposed actionable item before acceptance
// filtering.
type CandidateTask struct {
	Title           string
	Description     string
	Priority        int
	EstimatedEffort string
	Category        string
	Actionable      bool
	Confidence      float64
}

// OrgContext gives the priority scorer organizational background. All fields
// are optional.
type OrgContext struct {
	TeamSize         string
	CurrentWorkload  string
	RecentPriorities []string
}

// CompletionService is the slice of the llm capability the pipeline consumes.
type CompletionService interface {
	Complete(ctx context.Context, prompt string, opts llmprovider.Options) (string, error)
	ExtractStructured(ctx context.Context, prompt string, schema llmprovider.Schema, opts llmprovider.Options) (map[string]any, error)
}

// Acceptance rule: a candidate survives iff it is actionable and the model's
// confidence exceeds this threshold. Fixed, not per-organization.
const confidenceThreshold = 0.7

// defaultPriority is used when priority scoring fails.
const defaultPriority = 3

// contextTruncateLimit bounds free-text fields fed to the model.
const contextTruncateLimit = 1000
