package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/webhook"
)

// DeliveryFilter narrows a delivery-log listing. Nil filter fields match
// everything; Limit caps the page size.
type DeliveryFilter struct {
	Status    *webhook.DeliveryStatus
	EventType *event.Type
	Limit     int
	Offset    int
}

// WebhookRepository defines the persistence contract for webhook aggregates
// and their delivery audit log.
//
// Reads are tenant-scoped like OrderRepository: a foreign-tenant id is a
// not-found.
type WebhookRepository interface {
	// Add persists a freshly registered webhook.
	Add(ctx context.Context, aggregate *webhook.Webhook) error

	// Update persists configuration changes to an existing webhook.
	Update(ctx context.Context, aggregate *webhook.Webhook) error

	// Get retrieves a webhook by id within a tenant.
	Get(ctx context.Context, tenantID, id kernel.UUID) (*webhook.Webhook, error)

	// Delete removes a webhook and detaches its delivery log.
	Delete(ctx context.Context, tenantID, id kernel.UUID) error

	// ListByTenant returns all of a tenant's webhooks, newest first.
	ListByTenant(ctx context.Context, tenantID kernel.UUID) ([]*webhook.Webhook, error)

	// CountActive returns the tenant's active webhook count, for quota checks.
	CountActive(ctx context.Context, tenantID kernel.UUID) (int64, error)

	// ListActiveByEvent returns the tenant's active webhooks subscribed to the
	// event type. This is the dispatch fan-out set.
	ListActiveByEvent(ctx context.Context, tenantID kernel.UUID, eventType event.Type) ([]*webhook.Webhook, error)

	// RecordDelivery inserts a delivery row and bumps the owning webhook's
	// counters in one transaction. Counter updates are commutative increments,
	// safe under concurrent fan-outs.
	RecordDelivery(ctx context.Context, delivery webhook.Delivery) error

	// RecordRetry overwrites an existing delivery row with the outcome of a
	// manual retry and bumps the counters for the new attempt.
	RecordRetry(ctx context.Context, delivery webhook.Delivery) error

	// GetDelivery retrieves one delivery row, tenant-scoped through its webhook.
	GetDelivery(ctx context.Context, tenantID, deliveryID kernel.UUID) (webhook.Delivery, error)

	// ListDeliveries pages through a webhook's delivery log, newest first.
	ListDeliveries(ctx context.Context, tenantID, webhookID kernel.UUID, filter DeliveryFilter) ([]webhook.Delivery, error)
}
