package processor

import (
	"context"
	"time"

	"taskweave/internal/extraction"
	"taskweave/internal/model"
)

// Extractor is the slice of the extraction pipeline the processor drives.
// Satisfied by *extraction.Pipeline.
type Extractor interface {
	ExtractTasks(ctx context.Context, ev model.Event) []extraction.CandidateTask
	ScorePriority(ctx context.Context, cand extraction.CandidateTask, source string, orgCtx extraction.OrgContext) int
}

// IngestEventInput carries one normalized event for intake.
type IngestEventInput struct {
	Provider   string
	ExternalID string
	EventType  string
	Payload    map[string]any
}

// ProcessReport summarizes one ProcessPendingEvents pass.
type ProcessReport struct {
	Claimed      int `json:"claimed"`
	Processed    int `json:"processed"`
	Failed       int `json:"failed"`
	TasksCreated int `json:"tasks_created"`
}

// Config tunes the processing loop.
type Config struct {
	BatchSize int           // events claimed per pass
	Workers   int           // bounded per-event fan-out
	ClaimTTL  time.Duration // stale claims older than this become claimable again
}

const (
	defaultBatchSize = 100
	defaultWorkers   = 8
	defaultClaimTTL  = 5 * time.Minute
)

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
	if c.ClaimTTL <= 0 {
		c.ClaimTTL = defaultClaimTTL
	}
	return c
}
