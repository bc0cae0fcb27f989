// Package notify delivers newly created anomaly alerts to external channels.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"stockwatch/internal/models"
)

// Notifier delivers a newly persisted alert. Deduplicated alerts are never
// delivered twice; callers only notify when the store reports a fresh insert.
type Notifier interface {
	NotifyAlert(ctx context.Context, alert *models.Alert) error
}

// WebhookNotifier POSTs alerts as JSON to a configured endpoint.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier creates a webhook notifier for the given URL.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type webhookPayload struct {
	ID           string `json:"id"`
	Symbol       string `json:"symbol"`
	Kind         string `json:"kind"`
	Severity     string `json:"severity"`
	ZScore       string `json:"z_score"`
	Message      string `json:"message"`
	ObservedDate string `json:"observed_date"`
	CreatedAt    string `json:"created_at"`
}

// NotifyAlert sends one alert to the webhook endpoint.
func (w *WebhookNotifier) NotifyAlert(ctx context.Context, alert *models.Alert) error {
	body, err := json.Marshal(webhookPayload{
		ID:           alert.ID,
		Symbol:       alert.Symbol,
		Kind:         string(alert.Kind),
		Severity:     string(alert.Severity),
		ZScore:       alert.ZScore.StringFixed(2),
		Message:      alert.Message,
		ObservedDate: alert.ObservedDate.Format(models.DateLayout),
		CreatedAt:    alert.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshaling webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "stockwatch/1.0")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// NoOpNotifier discards alerts. Used when no channel is configured.
type NoOpNotifier struct{}

// NewNoOpNotifier creates a notifier that does nothing.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// NotifyAlert does nothing.
func (n *NoOpNotifier) NotifyAlert(ctx context.Context, alert *models.Alert) error {
	return nil
}
