package model

import "time"

// Event is a normalized record of one activity item ingested from an external
// collaboration tool. (OrgID, Provider, ExternalID) is unique when ExternalID is
// non-empty; re-ingesting the same external item never creates a second row.
type Event struct {
	ID         string
	OrgID      string
	Provider   string // e.g. "github", "slack", "gmail"
	ExternalID string // provider-side identifier, empty when the provider has none
	EventType  string // e.g. "issue", "message", "email", "card"
	Payload    map[string]any
	IngestedAt time.Time
	Processed  bool
}

// RawEvent is what an integration adapter hands over after normalizing a
// provider-specific item. Normalization is the adapter's responsibility.
type RawEvent struct {
	ID        string
	Type      string
	Timestamp time.Time
	Data      map[string]any
}

// EventFetcher is the per-provider adapter contract. Implementations live outside
// the core; the processor only consumes the normalized result.
type EventFetcher interface {
	FetchEvents(since time.Time) ([]RawEvent, error)
}
