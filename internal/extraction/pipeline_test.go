package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"taskweave/internal/model"
	"taskweave/pkg/llmprovider"
	"taskweave/pkg/log"
)

type stubLLM struct {
	doc        map[string]any
	err        error
	lastPrompt string
	calls      int
}

func (s *stubLLM) Complete(ctx context.Context, prompt string, opts llmprovider.Options) (string, error) {
	return "", errors.New("not used")
}

func (s *stubLLM) ExtractStructured(ctx context.Context, prompt string, schema llmprovider.Schema, opts llmprovider.Options) (map[string]any, error) {
	s.calls++
	s.lastPrompt = prompt
	if s.err != nil {
		return nil, s.err
	}
	return s.doc, nil
}

func candidate(title string, actionable bool, confidence float64) map[string]any {
	return map[string]any{
		"title":            title,
		"description":      "desc",
		"priority":         float64(3),
		"estimated_effort": "2h",
		"category":         "bug",
		"actionable":       actionable,
		"confidence":       confidence,
	}
}

func TestExtractTasksAcceptanceFilter(t *testing.T) {
	llm := &stubLLM{doc: map[string]any{
		"tasks": []any{
			candidate("fix login crash", true, 0.9),
			candidate("maybe refactor later", false, 0.95),
			candidate("borderline item", true, 0.7),
			candidate("", true, 0.9),
		},
	}}
	p := New(llm, log.NewNop())

	got := p.ExtractTasks(context.Background(), model.Event{
		ID:        "ev-1",
		EventType: "issue",
		Payload:   map[string]any{"title": "login crash", "body": "stack trace"},
	})

	if len(got) != 1 {
		t.Fatalf("accepted %d candidates, want 1: %+v", len(got), got)
	}
	if got[0].Title != "fix login crash" {
		t.Errorf("accepted title = %q", got[0].Title)
	}
	if got[0].Confidence != 0.9 || !got[0].Actionable {
		t.Errorf("accepted candidate fields not preserved: %+v", got[0])
	}
}

func TestExtractTasksEmptyOnServiceFailure(t *testing.T) {
	llm := &stubLLM{err: llmprovider.ErrAllProvidersFailed}
	p := New(llm, log.NewNop())

	got := p.ExtractTasks(context.Background(), model.Event{ID: "ev-2", EventType: "email"})
	if got != nil {
		t.Errorf("got %v, want nil on total failure", got)
	}
}

func TestBuildEventContextTruncatesBody(t *testing.T) {
	body := strings.Repeat("x", 1500)
	ctxText := buildEventContext(model.Event{
		EventType: "issue",
		Payload: map[string]any{
			"title":  "big issue",
			"repo":   "acme/app",
			"state":  "open",
			"body":   body,
			"labels": []any{"bug", "urgent"},
		},
	})

	if !strings.Contains(ctxText, "Title: big issue") {
		t.Errorf("missing title line: %q", ctxText)
	}
	if !strings.Contains(ctxText, "Labels: bug, urgent") {
		t.Errorf("missing labels line: %q", ctxText)
	}
	if strings.Count(ctxText, "x") != contextTruncateLimit {
		t.Errorf("body not truncated to %d chars", contextTruncateLimit)
	}
}

func TestTruncatePreservesRuneBoundaries(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"ascii under limit", "short", 10, "short"},
		{"ascii at limit", "exact", 5, "exact"},
		{"ascii over limit", "overflow", 4, "over"},
		{"multibyte cut mid-rune", "héllo", 2, "h"},
		{"multibyte cut on boundary", "héllo", 3, "hé"},
		{"cjk cut mid-rune", "日本語", 4, "日"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := truncate(c.in, c.limit)
			if got != c.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", c.in, c.limit, got, c.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) produced invalid UTF-8", c.in, c.limit)
			}
		})
	}
}

func TestBuildEventContextEmail(t *testing.T) {
	ctxText := buildEventContext(model.Event{
		EventType: "email",
		Payload: map[string]any{
			"subject": "Q3 planning",
			"from":    "pm@acme.test",
			"body":    "please review the doc",
		},
	})
	want := "Subject: Q3 planning\nFrom: pm@acme.test\nBody: please review the doc"
	if ctxText != want {
		t.Errorf("got %q, want %q", ctxText, want)
	}
}

func TestBuildEventContextGenericFallsBackToRaw(t *testing.T) {
	ctxText := buildEventContext(model.Event{
		EventType: "unknown",
		Payload:   map[string]any{"raw": "free-form text"},
	})
	if ctxText != "free-form text" {
		t.Errorf("got %q", ctxText)
	}
}

func TestScorePriorityClampsAboveRange(t *testing.T) {
	llm := &stubLLM{doc: map[string]any{"priority": float64(7), "confidence": 0.8}}
	p := New(llm, log.NewNop())

	got := p.ScorePriority(context.Background(), CandidateTask{Title: "t"}, "github:issue", OrgContext{})
	if got != model.MaxPriority {
		t.Errorf("got %d, want clamp to %d", got, model.MaxPriority)
	}
}

func TestScorePriorityDefaultsOnFailure(t *testing.T) {
	cases := []struct {
		name string
		llm  *stubLLM
	}{
		{"service error", &stubLLM{err: errors.New("down")}},
		{"missing field", &stubLLM{doc: map[string]any{"reasoning": "n/a"}}},
		{"zero priority", &stubLLM{doc: map[string]any{"priority": float64(0)}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := New(c.llm, log.NewNop())
			got := p.ScorePriority(context.Background(), CandidateTask{Title: "t"}, "email", OrgContext{})
			if got != defaultPriority {
				t.Errorf("got %d, want %d", got, defaultPriority)
			}
		})
	}
}

func TestScorePriorityPromptIncludesOrgContext(t *testing.T) {
	llm := &stubLLM{doc: map[string]any{"priority": float64(2)}}
	p := New(llm, log.NewNop())

	p.ScorePriority(context.Background(), CandidateTask{Title: "t", Description: "d"}, "slack:message", OrgContext{
		TeamSize:         "5",
		CurrentWorkload:  "high",
		RecentPriorities: []string{"launch"},
	})
	if !strings.Contains(llm.lastPrompt, "Team size: 5") {
		t.Errorf("org context missing from prompt: %q", llm.lastPrompt)
	}
}
