package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/zaapr0x/mc-hook/pkg/event"
	"github.com/zaapr0x/mc-hook/pkg/web"
)

const deliveryTimeout = 10 * time.Second

// Webhook posts each event to an operator-configured URL. Delivery is
// best-effort per event; failures are reported to the caller and the
// next event is attempted regardless.
type Webhook struct {
	client *web.Client
	url    string
	logger *slog.Logger
}

// NewWebhook creates a webhook sink for the given URL.
func NewWebhook(url string, logger *slog.Logger) *Webhook {
	return NewWebhookWithClient(url, web.NewClient(), logger)
}

// NewWebhookWithClient creates a webhook sink over a caller-supplied
// client.
func NewWebhookWithClient(url string, client *web.Client, logger *slog.Logger) *Webhook {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Webhook{
		client: client,
		url:    url,
		logger: logger,
	}
}

// Append implements the event sink interface by posting the event as
// JSON.
func (w *Webhook) Append(ctx context.Context, e event.Event) error {
	ctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	resp, err := w.client.Do(ctx, web.Request{
		URL:    w.url,
		Method: http.MethodPost,
		Body:   e,
	})
	if err != nil {
		return fmt.Errorf("failed to deliver webhook: %w", err)
	}
	if resp.Status >= http.StatusBadRequest {
		return fmt.Errorf("webhook returned status %d", resp.Status)
	}

	w.logger.Debug("Webhook delivered",
		"event_id", e.ID,
		"event_type", e.Type,
		"status", resp.Status,
	)
	return nil
}
