package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"taskweave/internal/db"
	repo "taskweave/internal/event/repository"
	"taskweave/internal/model"
	"taskweave/pkg/log"
)

func newTestRepo(t *testing.T) repo.Repository {
	t.Helper()
	conn, err := db.Open(db.Config{Path: filepath.Join(t.TempDir(), "events.db")})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := db.Migrate(context.Background(), conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(conn, log.NewNop())
}

func insertEvent(t *testing.T, r repo.Repository, externalID string) model.Event {
	t.Helper()
	ev, err := r.InsertEvent(context.Background(), repo.InsertEventOptions{
		OrgID:      "org-1",
		Provider:   "github",
		ExternalID: externalID,
		EventType:  "issue",
		Payload:    map[string]any{"state": "open"},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	return ev
}

func TestInsertEventDeduplicates(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	insertEvent(t, r, "issue-42")

	_, err := r.InsertEvent(ctx, repo.InsertEventOptions{
		OrgID: "org-1", Provider: "github", ExternalID: "issue-42", EventType: "issue",
	})
	if !errors.Is(err, repo.ErrDuplicateEvent) {
		t.Errorf("got %v, want ErrDuplicateEvent", err)
	}

	// A different organization can hold the same external id.
	if _, err := r.InsertEvent(ctx, repo.InsertEventOptions{
		OrgID: "org-2", Provider: "github", ExternalID: "issue-42", EventType: "issue",
	}); err != nil {
		t.Errorf("cross-org insert: %v", err)
	}

	// Empty external ids never collide.
	insertEvent(t, r, "")
	insertEvent(t, r, "")
}

func TestClaimUnprocessed(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	staleBefore := time.Now().Add(-5 * time.Minute)

	first := insertEvent(t, r, "e1")
	insertEvent(t, r, "e2")

	claimed, err := r.ClaimUnprocessed(ctx, 10, staleBefore)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if len(claimed) != 2 {
		t.Fatalf("claimed %d, want 2", len(claimed))
	}
	if claimed[0].Payload["state"] != "open" {
		t.Errorf("payload not round-tripped: %v", claimed[0].Payload)
	}

	// Already claimed and not yet stale: nothing to claim.
	again, err := r.ClaimUnprocessed(ctx, 10, staleBefore)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("second claim returned %d events, want 0", len(again))
	}

	// Released events become claimable immediately.
	if err := r.ReleaseClaim(ctx, first.ID); err != nil {
		t.Fatalf("release: %v", err)
	}
	reclaimed, err := r.ClaimUnprocessed(ctx, 10, staleBefore)
	if err != nil {
		t.Fatalf("reclaim: %v", err)
	}
	if len(reclaimed) != 1 || reclaimed[0].ID != first.ID {
		t.Errorf("reclaim = %v, want exactly the released event", reclaimed)
	}
}

func TestClaimUnprocessedReclaimsStaleClaims(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	insertEvent(t, r, "e1")
	if _, err := r.ClaimUnprocessed(ctx, 10, time.Now().Add(-5*time.Minute)); err != nil {
		t.Fatalf("claim: %v", err)
	}

	// A staleBefore in the future treats the fresh claim as expired, which is
	// how a later pass recovers events a crashed worker claimed.
	reclaimed, err := r.ClaimUnprocessed(ctx, 10, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("stale reclaim: %v", err)
	}
	if len(reclaimed) != 1 {
		t.Errorf("stale reclaim returned %d, want 1", len(reclaimed))
	}
}

func TestMarkProcessedExcludesFromClaims(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	ev := insertEvent(t, r, "e1")
	if err := r.MarkProcessed(ctx, ev.ID); err != nil {
		t.Fatalf("mark processed: %v", err)
	}

	claimed, err := r.ClaimUnprocessed(ctx, 10, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if len(claimed) != 0 {
		t.Errorf("processed event claimed: %v", claimed)
	}

	got, err := r.GetEvent(ctx, model.Scope{OrgID: "org-1"}, ev.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Processed {
		t.Errorf("event not marked processed")
	}
}

func TestConcurrentClaimsNeverOverlap(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	staleBefore := time.Now().Add(-5 * time.Minute)

	const total = 20
	for i := 0; i < total; i++ {
		insertEvent(t, r, "")
	}

	const claimers = 4
	var wg sync.WaitGroup
	results := make([][]model.Event, claimers)
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for {
				batch, err := r.ClaimUnprocessed(ctx, 3, staleBefore)
				if err != nil {
					t.Errorf("claimer %d: %v", i, err)
					return
				}
				if len(batch) == 0 {
					return
				}
				results[i] = append(results[i], batch...)
			}
		}(i)
	}
	wg.Wait()

	seen := map[string]int{}
	for _, batch := range results {
		for _, ev := range batch {
			seen[ev.ID]++
		}
	}
	if len(seen) != total {
		t.Errorf("claimed %d distinct events, want %d", len(seen), total)
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("event %s claimed %d times", id, n)
		}
	}
}

func TestGetEventScoped(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	ev := insertEvent(t, r, "e1")

	other, err := r.GetEvent(ctx, model.Scope{OrgID: "org-2"}, ev.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if other.ID != "" {
		t.Errorf("event visible across org boundary: %+v", other)
	}
}
