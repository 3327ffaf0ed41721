package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rjewls/white-site-sub000/internal/models"
)

// Webhook posts short chat messages about order milestones. Notifications
// are strictly fire-and-forget: failures are logged and swallowed, never
// propagated into the fulfillment pipeline.
type Webhook struct {
	url   string
	httpc *http.Client
}

func NewWebhook(url string) *Webhook {
	return &Webhook{
		url: url,
		httpc: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (w *Webhook) OrderCreated(ctx context.Context, o *models.Order) {
	w.send(ctx, fmt.Sprintf("Nouvelle commande #%d: %s (%s), %s DA", o.ID, o.ProductName, o.CustomerName, o.Amount.String()))
}

func (w *Webhook) OrderSubmitted(ctx context.Context, o *models.Order) {
	tracking := ""
	if o.TrackingNumber != nil {
		tracking = *o.TrackingNumber
	}
	w.send(ctx, fmt.Sprintf("Commande #%d envoyee au transporteur, tracking %s", o.ID, tracking))
}

func (w *Webhook) OrderShipped(ctx context.Context, o *models.Order) {
	w.send(ctx, fmt.Sprintf("Commande #%d expediee", o.ID))
}

func (w *Webhook) send(ctx context.Context, text string) {
	if w.url == "" {
		return
	}

	body, err := json.Marshal(map[string]string{"content": text})
	if err != nil {
		slog.Warn("webhook marshal failed", "err", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		slog.Warn("webhook request failed", "err", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpc.Do(req)
	if err != nil {
		slog.Warn("webhook post failed", "err", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		slog.Warn("webhook rejected", "status", resp.StatusCode)
	}
}
