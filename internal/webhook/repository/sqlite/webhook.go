package sqlite

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskweave/internal/model"
	repo "taskweave/internal/webhook/repository"
)

// CreateWebhook registers an endpoint with a freshly generated signing secret.
func (r *implRepository) CreateWebhook(ctx context.Context, sc model.Scope, opt repo.CreateWebhookOptions) (model.Webhook, error) {
	if strings.TrimSpace(opt.URL) == "" {
		return model.Webhook{}, repo.ErrEmptyURL
	}

	secret, err := generateSecret()
	if err != nil {
		r.l.Errorf(ctx, "webhook/repository/sqlite.CreateWebhook: secret: %v", err)
		return model.Webhook{}, repo.ErrFailedToInsert
	}

	w := model.Webhook{
		ID:               uuid.NewString(),
		OrgID:            sc.OrgID,
		URL:              opt.URL,
		Secret:           secret,
		SubscribedEvents: opt.SubscribedEvents,
		Active:           opt.Active,
		CreatedAt:        time.Now().UTC(),
	}
	if w.SubscribedEvents == nil {
		w.SubscribedEvents = []string{}
	}

	eventsJSON, err := json.Marshal(w.SubscribedEvents)
	if err != nil {
		return model.Webhook{}, repo.ErrFailedToInsert
	}

	const query = `
		INSERT INTO webhooks (id, org_id, url, secret, events_json, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		w.ID, w.OrgID, w.URL, w.Secret, string(eventsJSON),
		boolToInt(w.Active), w.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		r.l.Errorf(ctx, "webhook/repository/sqlite.CreateWebhook: %v", err)
		return model.Webhook{}, repo.ErrFailedToInsert
	}
	return w, nil
}

// ListActive returns all active webhooks for the scope.
func (r *implRepository) ListActive(ctx context.Context, sc model.Scope) ([]model.Webhook, error) {
	const query = `
		SELECT id, org_id, url, secret, events_json, active, created_at
		FROM webhooks
		WHERE org_id = ? AND active = 1
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, sc.OrgID)
	if err != nil {
		r.l.Errorf(ctx, "webhook/repository/sqlite.ListActive: %v", err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var webhooks []model.Webhook
	for rows.Next() {
		var (
			w          model.Webhook
			eventsJSON string
			active     int
			createdAt  string
		)
		if err := rows.Scan(&w.ID, &w.OrgID, &w.URL, &w.Secret, &eventsJSON, &active, &createdAt); err != nil {
			r.l.Errorf(ctx, "webhook/repository/sqlite.ListActive: scan: %v", err)
			return nil, repo.ErrFailedToList
		}
		w.Active = active != 0
		if err := json.Unmarshal([]byte(eventsJSON), &w.SubscribedEvents); err != nil {
			w.SubscribedEvents = []string{}
		}
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			w.CreatedAt = ts
		}
		webhooks = append(webhooks, w)
	}
	return webhooks, rows.Err()
}

// generateSecret returns a 32-byte URL-safe token. Generated exactly once per
// webhook; never returned in plaintext after creation.
func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
