package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/webhook"
)

// EventDispatcher accepts domain events for asynchronous delivery. Enqueue is
// fire and forget: it must return immediately and never surface delivery
// failures to the caller. Commands call it only after their transaction has
// committed.
type EventDispatcher interface {
	Enqueue(envelope event.Envelope)
}

// WebhookTransport performs one signed HTTP delivery attempt. The outcome is
// encoded in the returned Delivery row; transport failures are a failed row,
// not an error. The payload is passed as the already-built wire map so a
// retry can replay the originally delivered payload unchanged.
type WebhookTransport interface {
	Deliver(ctx context.Context, hook *webhook.Webhook, eventType event.Type, payload map[string]any, attempt int) webhook.Delivery
}

// EventStreamPublisher mirrors every dispatched event onto the internal event
// stream for downstream consumers.
type EventStreamPublisher interface {
	Publish(ctx context.Context, envelope event.Envelope) error
}
