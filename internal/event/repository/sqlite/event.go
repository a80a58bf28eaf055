package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	repo "taskweave/internal/event/repository"
	"taskweave/internal/model"
)

const eventColumns = "id, org_id, provider, external_id, event_type, payload_json, ingested_at, processed"

// InsertEvent persists a new event row. The partial unique index on
// (org_id, provider, external_id) is the dedup authority; a violation maps to
// ErrDuplicateEvent.
func (r *implRepository) InsertEvent(ctx context.Context, opt repo.InsertEventOptions) (model.Event, error) {
	payloadJSON, err := json.Marshal(payloadOrEmpty(opt.Payload))
	if err != nil {
		r.l.Errorf(ctx, "event/repository/sqlite.InsertEvent: marshal payload: %v", err)
		return model.Event{}, repo.ErrFailedToInsert
	}

	ev := model.Event{
		ID:         uuid.NewString(),
		OrgID:      opt.OrgID,
		Provider:   opt.Provider,
		ExternalID: opt.ExternalID,
		EventType:  opt.EventType,
		Payload:    payloadOrEmpty(opt.Payload),
		IngestedAt: time.Now().UTC(),
	}

	const query = `
		INSERT INTO events (id, org_id, provider, external_id, event_type, payload_json, ingested_at, processed)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0)`

	_, err = r.db.ExecContext(ctx, query,
		ev.ID, ev.OrgID, ev.Provider, nullable(ev.ExternalID), ev.EventType,
		string(payloadJSON), ev.IngestedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Event{}, repo.ErrDuplicateEvent
		}
		r.l.Errorf(ctx, "event/repository/sqlite.InsertEvent: %v", err)
		return model.Event{}, repo.ErrFailedToInsert
	}
	return ev, nil
}

// ClaimUnprocessed claims a batch in one atomic statement. The subquery selects
// unprocessed, unclaimed (or stale-claimed) rows and the UPDATE stamps them in
// the same statement, so two concurrent claimers cannot return the same row.
func (r *implRepository) ClaimUnprocessed(ctx context.Context, batchSize int, staleBefore time.Time) ([]model.Event, error) {
	if batchSize <= 0 {
		return nil, nil
	}

	const query = `
		UPDATE events
		SET claimed_at = ?
		WHERE id IN (
			SELECT id FROM events
			WHERE processed = 0 AND (claimed_at IS NULL OR claimed_at < ?)
			ORDER BY ingested_at
			LIMIT ?
		)
		RETURNING ` + eventColumns

	rows, err := r.db.QueryContext(ctx, query,
		time.Now().UTC().Format(time.RFC3339Nano),
		staleBefore.UTC().Format(time.RFC3339Nano),
		batchSize,
	)
	if err != nil {
		r.l.Errorf(ctx, "event/repository/sqlite.ClaimUnprocessed: %v", err)
		return nil, repo.ErrFailedToClaim
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			r.l.Errorf(ctx, "event/repository/sqlite.ClaimUnprocessed: scan: %v", err)
			return nil, repo.ErrFailedToClaim
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "event/repository/sqlite.ClaimUnprocessed: rows: %v", err)
		return nil, repo.ErrFailedToClaim
	}
	return events, nil
}

// MarkProcessed flips processed and clears the claim.
func (r *implRepository) MarkProcessed(ctx context.Context, eventID string) error {
	const query = `UPDATE events SET processed = 1, claimed_at = NULL WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, eventID); err != nil {
		r.l.Errorf(ctx, "event/repository/sqlite.MarkProcessed: %v", err)
		return repo.ErrFailedToUpdate
	}
	return nil
}

// ReleaseClaim makes the event claimable again without marking it processed.
func (r *implRepository) ReleaseClaim(ctx context.Context, eventID string) error {
	const query = `UPDATE events SET claimed_at = NULL WHERE id = ? AND processed = 0`
	if _, err := r.db.ExecContext(ctx, query, eventID); err != nil {
		r.l.Errorf(ctx, "event/repository/sqlite.ReleaseClaim: %v", err)
		return repo.ErrFailedToUpdate
	}
	return nil
}

// GetEvent returns the scoped event, or zero value when not found.
func (r *implRepository) GetEvent(ctx context.Context, sc model.Scope, eventID string) (model.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events WHERE id = ? AND org_id = ? LIMIT 1`

	row := r.db.QueryRowContext(ctx, query, eventID, sc.OrgID)
	ev, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return model.Event{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "event/repository/sqlite.GetEvent: %v", err)
		return model.Event{}, repo.ErrFailedToGet
	}
	return ev, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (model.Event, error) {
	var (
		ev          model.Event
		externalID  sql.NullString
		payloadJSON string
		ingestedAt  string
		processed   int
	)
	if err := row.Scan(&ev.ID, &ev.OrgID, &ev.Provider, &externalID, &ev.EventType, &payloadJSON, &ingestedAt, &processed); err != nil {
		return model.Event{}, err
	}
	ev.ExternalID = externalID.String
	ev.Processed = processed != 0
	if ts, err := time.Parse(time.RFC3339Nano, ingestedAt); err == nil {
		ev.IngestedAt = ts
	}
	if err := json.Unmarshal([]byte(payloadJSON), &ev.Payload); err != nil {
		ev.Payload = map[string]any{}
	}
	return ev, nil
}

func payloadOrEmpty(p map[string]any) map[string]any {
	if p == nil {
		return map[string]any{}
	}
	return p
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
