package webhook

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"taskweave/internal/model"
)

// Deliver fans the payload out to every active, subscribed webhook. Deliveries
// run concurrently; one endpoint failing or stalling never blocks another.
func (s *implService) Deliver(ctx context.Context, sc model.Scope, eventName string, payload map[string]any) (DeliveryReport, error) {
	webhooks, err := s.repo.ListActive(ctx, sc)
	if err != nil {
		return DeliveryReport{Event: eventName}, err
	}

	var targets []model.Webhook
	for _, w := range webhooks {
		if w.Subscribed(eventName) {
			targets = append(targets, w)
		}
	}

	report := DeliveryReport{
		Event:   eventName,
		Results: make([]DeliveryResult, len(targets)),
	}

	var wg sync.WaitGroup
	for i, w := range targets {
		wg.Add(1)
		go func(i int, w model.Webhook) {
			defer wg.Done()
			report.Results[i] = s.deliverOne(ctx, w, eventName, payload)
		}(i, w)
	}
	wg.Wait()

	s.l.Infof(ctx, "webhook: delivered %q to %d/%d endpoints for org %s",
		eventName, report.Succeeded(), report.Attempted(), sc.OrgID)
	return report, nil
}

// Test sends a synthetic payload through the normal delivery path.
func (s *implService) Test(ctx context.Context, sc model.Scope, eventName string) (DeliveryReport, error) {
	return s.Deliver(ctx, sc, eventName, map[string]any{
		"test":    true,
		"message": "This is a test webhook",
	})
}

// deliverOne builds the signed envelope and posts it to a single endpoint.
func (s *implService) deliverOne(ctx context.Context, w model.Webhook, eventName string, payload map[string]any) DeliveryResult {
	result := DeliveryResult{WebhookID: w.ID, URL: w.URL}

	timestamp, _ := payload["timestamp"].(string)
	if timestamp == "" {
		timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	envelope := map[string]any{
		"event":     eventName,
		"timestamp": timestamp,
		"data":      payload,
	}

	body, err := CanonicalJSON(envelope)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	signature := Sign(w.Secret, body)

	callCtx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	if err := s.waitForSlot(callCtx, w.URL); err != nil {
		result.Error = fmt.Sprintf("rate limit: %v", err)
		return result
	}

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		result.Error = err.Error()
		return result
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderEvent, eventName)
	req.Header.Set(HeaderSignature, signature)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.l.Warnf(ctx, "webhook: delivery to %s failed: %v", w.ID, err)
		result.Error = err.Error()
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.l.Warnf(ctx, "webhook: delivery to %s returned status %d", w.ID, resp.StatusCode)
		result.Error = fmt.Sprintf("status %d", resp.StatusCode)
		return result
	}

	result.Success = true
	return result
}

// waitForSlot paces deliveries per destination host.
func (s *implService) waitForSlot(ctx context.Context, rawURL string) error {
	if s.limiters == nil {
		return nil
	}
	key := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		key = u.Host
	}
	limiter, ok := s.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(s.rate, s.burst)
		s.limiters.Add(key, limiter)
	}
	return limiter.Wait(ctx)
}
