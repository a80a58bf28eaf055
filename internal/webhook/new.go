package webhook

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"taskweave/internal/model"
	"taskweave/internal/webhook/repository"
	"taskweave/pkg/log"
)

// Service delivers signed event payloads to an organization's subscribed
// webhook endpoints.
type Service interface {
	// Deliver sends eventName+payload to every active, subscribed webhook.
	// Per-webhook failures are recorded in the report, never propagated.
	Deliver(ctx context.Context, sc model.Scope, eventName string, payload map[string]any) (DeliveryReport, error)

	// Test sends a synthetic payload and returns the same report shape.
	Test(ctx context.Context, sc model.Scope, eventName string) (DeliveryReport, error)
}

// Config tunes outbound delivery.
type Config struct {
	RateLimitPerMin int // per destination host; 0 disables pacing
}

type implService struct {
	repo       repository.Repository
	httpClient *http.Client
	limiters   *expirable.LRU[string, *rate.Limiter]
	rate       rate.Limit
	burst      int
	l          log.Logger
}

// New creates the delivery Service.
func New(repo repository.Repository, cfg Config, l log.Logger) Service {
	svc := &implService{
		repo:       repo,
		httpClient: &http.Client{Timeout: deliveryTimeout},
		l:          l,
	}
	if cfg.RateLimitPerMin > 0 {
		svc.limiters = expirable.NewLRU[string, *rate.Limiter](1000, nil, 5*time.Minute)
		svc.rate = rate.Limit(float64(cfg.RateLimitPerMin) / 60.0)
		svc.burst = cfg.RateLimitPerMin/10 + 1
	}
	return svc
}
