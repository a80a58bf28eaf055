package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	eventrepo "taskweave/internal/event/repository"
	"taskweave/internal/extraction"
	"taskweave/internal/model"
	"taskweave/internal/processor"
	taskrepo "taskweave/internal/task/repository"
	"taskweave/internal/webhook"
	"taskweave/pkg/log"
)

type stubEventRepo struct {
	inserted []eventrepo.InsertEventOptions
	dup      bool
}

func (s *stubEventRepo) InsertEvent(ctx context.Context, opt eventrepo.InsertEventOptions) (model.Event, error) {
	if s.dup {
		return model.Event{}, eventrepo.ErrDuplicateEvent
	}
	s.inserted = append(s.inserted, opt)
	return model.Event{ID: "ev-1", OrgID: opt.OrgID, Provider: opt.Provider, EventType: opt.EventType}, nil
}

func (s *stubEventRepo) ClaimUnprocessed(ctx context.Context, batchSize int, staleBefore time.Time) ([]model.Event, error) {
	return nil, nil
}

func (s *stubEventRepo) MarkProcessed(ctx context.Context, eventID string) error { return nil }
func (s *stubEventRepo) ReleaseClaim(ctx context.Context, eventID string) error  { return nil }

func (s *stubEventRepo) GetEvent(ctx context.Context, sc model.Scope, eventID string) (model.Event, error) {
	return model.Event{}, nil
}

type stubTaskRepo struct{}

func (stubTaskRepo) CreateTask(ctx context.Context, sc model.Scope, opt taskrepo.CreateTaskOptions) (model.Task, error) {
	return model.Task{}, nil
}

func (stubTaskRepo) ListTasks(ctx context.Context, sc model.Scope, opt taskrepo.ListTasksOptions) ([]model.Task, error) {
	return nil, nil
}

type stubExtractor struct{}

func (stubExtractor) ExtractTasks(ctx context.Context, ev model.Event) []extraction.CandidateTask {
	return nil
}

func (stubExtractor) ScorePriority(ctx context.Context, cand extraction.CandidateTask, source string, orgCtx extraction.OrgContext) int {
	return 3
}

type stubEngine struct {
	evaluated []map[string]any
}

func (s *stubEngine) Evaluate(ctx context.Context, sc model.Scope, eventLike map[string]any) error {
	s.evaluated = append(s.evaluated, eventLike)
	return nil
}

type stubWebhookService struct {
	delivered []string
	tested    []string
}

func (s *stubWebhookService) Deliver(ctx context.Context, sc model.Scope, eventName string, payload map[string]any) (webhook.DeliveryReport, error) {
	s.delivered = append(s.delivered, eventName)
	return webhook.DeliveryReport{Event: eventName}, nil
}

func (s *stubWebhookService) Test(ctx context.Context, sc model.Scope, eventName string) (webhook.DeliveryReport, error) {
	s.tested = append(s.tested, eventName)
	return webhook.DeliveryReport{Event: eventName}, nil
}

func newTestRouter(events *stubEventRepo, engine *stubEngine, hooks *stubWebhookService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	proc := processor.New(events, stubTaskRepo{}, stubExtractor{}, engine, processor.Config{}, log.NewNop())
	h := New(proc, engine, hooks, log.NewNop())

	r := gin.New()
	h.MapRoutes(r.Group("/internal/v1"))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIngestEvent(t *testing.T) {
	events := &stubEventRepo{}
	r := newTestRouter(events, &stubEngine{}, &stubWebhookService{})

	w := postJSON(t, r, "/internal/v1/orgs/org-1/events", map[string]any{
		"provider":    "github",
		"external_id": "issue-42",
		"event_type":  "issue",
		"payload":     map[string]any{"state": "open"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}

	var resp struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Data["event_id"] != "ev-1" {
		t.Errorf("event_id = %v", resp.Data["event_id"])
	}
	if len(events.inserted) != 1 || events.inserted[0].OrgID != "org-1" {
		t.Errorf("inserted = %+v", events.inserted)
	}
}

func TestIngestEventDuplicateConflicts(t *testing.T) {
	r := newTestRouter(&stubEventRepo{dup: true}, &stubEngine{}, &stubWebhookService{})

	w := postJSON(t, r, "/internal/v1/orgs/org-1/events", map[string]any{
		"provider":    "github",
		"external_id": "issue-42",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestIngestEventMissingProvider(t *testing.T) {
	r := newTestRouter(&stubEventRepo{}, &stubEngine{}, &stubWebhookService{})

	w := postJSON(t, r, "/internal/v1/orgs/org-1/events", map[string]any{"event_type": "issue"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestProcessPendingEventsEndpoint(t *testing.T) {
	r := newTestRouter(&stubEventRepo{}, &stubEngine{}, &stubWebhookService{})

	w := postJSON(t, r, "/internal/v1/process", map[string]any{"limit": 10})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}

	var resp struct {
		Data processor.ProcessReport `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Data.Claimed != 0 {
		t.Errorf("claimed = %d, want 0 with empty backlog", resp.Data.Claimed)
	}
}

func TestEvaluateAutomationsEndpoint(t *testing.T) {
	engine := &stubEngine{}
	r := newTestRouter(&stubEventRepo{}, engine, &stubWebhookService{})

	w := postJSON(t, r, "/internal/v1/orgs/org-1/automations/evaluate", map[string]any{
		"event": map[string]any{"provider": "github", "event_type": "issue"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}
	if len(engine.evaluated) != 1 || engine.evaluated[0]["provider"] != "github" {
		t.Errorf("evaluated = %v", engine.evaluated)
	}
}

func TestWebhookEndpoints(t *testing.T) {
	hooks := &stubWebhookService{}
	r := newTestRouter(&stubEventRepo{}, &stubEngine{}, hooks)

	w := postJSON(t, r, "/internal/v1/orgs/org-1/webhooks/deliver", map[string]any{
		"event":   "task.created",
		"payload": map[string]any{"id": "t-1"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("deliver status = %d", w.Code)
	}
	if len(hooks.delivered) != 1 || hooks.delivered[0] != "task.created" {
		t.Errorf("delivered = %v", hooks.delivered)
	}

	w = postJSON(t, r, "/internal/v1/orgs/org-1/webhooks/test", map[string]any{"event": "ping"})
	if w.Code != http.StatusOK {
		t.Fatalf("test status = %d", w.Code)
	}
	if len(hooks.tested) != 1 || hooks.tested[0] != "ping" {
		t.Errorf("tested = %v", hooks.tested)
	}
}
