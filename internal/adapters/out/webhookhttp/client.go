package webhookhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/pkg/metrics"
)

const userAgent = "fulfillment-webhooks/1.0"

// responseReadLimit bounds how much of a response body is read; slightly
// above the persisted truncation limit so truncation happens in one place.
const responseReadLimit = webhook.ResponseBodyLimit + 1

// Client performs signed webhook deliveries. It implements the dispatch
// engine's transport port: every attempt produces a Delivery row, success or
// not, and errors never escape as Go errors.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a delivery client. The http.Client's own timeout is left
// unset; the per-webhook timeout is applied per request via context.
func NewClient(logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{},
		logger:     logger.With("component", "webhook-client"),
	}
}

// Deliver posts the payload to the webhook's endpoint and records the outcome.
// A 2xx answer is a success; any other answer, or no answer within the
// webhook's timeout, is a failure.
func (c *Client) Deliver(
	ctx context.Context,
	hook *webhook.Webhook,
	eventType event.Type,
	payload map[string]any,
	attempt int,
) webhook.Delivery {
	started := time.Now()
	delivery := c.attempt(ctx, hook, eventType, payload, attempt)
	metrics.WebhookDeliveryDuration.Observe(time.Since(started).Seconds())
	metrics.WebhookDeliveries.WithLabelValues(string(delivery.Status)).Inc()

	if delivery.Status == webhook.DeliveryFailed {
		c.logger.Warn("webhook delivery failed",
			"webhook_id", hook.ID().String(),
			"event", eventType.String(),
			"attempt", attempt,
			"error", delivery.ErrorMessage,
		)
	}
	return delivery
}

func (c *Client) attempt(
	ctx context.Context,
	hook *webhook.Webhook,
	eventType event.Type,
	payload map[string]any,
	attempt int,
) webhook.Delivery {
	now := time.Now()

	body, err := json.Marshal(payload)
	if err != nil {
		return webhook.NewFailedDelivery(
			hook.ID(), eventType, payload, attempt, nil, "", "marshal payload: "+err.Error(), now,
		)
	}

	timestampMillis := now.UnixMilli()
	signature := SignBody(hook.Secret(), timestampMillis, body)

	ctx, cancel := context.WithTimeout(ctx, hook.Timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hook.URL(), bytes.NewReader(body))
	if err != nil {
		return webhook.NewFailedDelivery(
			hook.ID(), eventType, payload, attempt, nil, "", "build request: "+err.Error(), now,
		)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Webhook-Signature", signature)
	req.Header.Set("X-Webhook-Timestamp", strconv.FormatInt(timestampMillis, 10))
	for name, value := range hook.Headers() {
		req.Header.Set(name, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return webhook.NewFailedDelivery(
			hook.ID(), eventType, payload, attempt, nil, "", err.Error(), now,
		)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, responseReadLimit))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return webhook.NewSuccessfulDelivery(
			hook.ID(), eventType, payload, attempt, resp.StatusCode, string(respBody), time.Now(),
		)
	}

	status := resp.StatusCode
	return webhook.NewFailedDelivery(
		hook.ID(), eventType, payload, attempt,
		&status, string(respBody), "endpoint returned "+resp.Status, now,
	)
}
