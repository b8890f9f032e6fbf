// Package event defines the closed vocabulary of domain events shared between
// emitters and webhook subscription filters. Subscribers list the literal
// event-type strings they want to receive.
package event

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Type identifies a domain occurrence. The set of valid values is closed:
// emitters and subscription filters share the same literals.
type Type string

const (
	// OrderPlaced is emitted when a customer places a new order.
	OrderPlaced Type = "order.placed"

	// OrderStatusChanged is emitted on every order status transition.
	// The payload carries the "status" and "previous_status" fields.
	OrderStatusChanged Type = "order.status_changed"
)

// Types returns all valid event types.
func Types() []Type {
	return []Type{OrderPlaced, OrderStatusChanged}
}

// Validate checks that the type is part of the closed vocabulary.
func (t Type) Validate() error {
	for _, known := range Types() {
		if t == known {
			return nil
		}
	}
	return errs.NewValueIsInvalidError("event type " + string(t))
}

// String returns the literal event-type string.
func (t Type) String() string {
	return string(t)
}

// Envelope is a tenant-scoped domain event handed to the dispatch engine.
// Data is a plain map so the payload serializes deterministically when signed.
type Envelope struct {
	TenantID   kernel.UUID
	Type       Type
	OccurredAt time.Time
	Data       map[string]any
}

// NewEnvelope creates an event envelope. The data map may be nil for events
// without a payload.
func NewEnvelope(tenantID kernel.UUID, eventType Type, occurredAt time.Time, data map[string]any) (Envelope, error) {
	if err := tenantID.Validate(); err != nil {
		return Envelope{}, err
	}
	if err := eventType.Validate(); err != nil {
		return Envelope{}, err
	}
	if data == nil {
		data = map[string]any{}
	}
	return Envelope{
		TenantID:   tenantID,
		Type:       eventType,
		OccurredAt: occurredAt,
		Data:       data,
	}, nil
}

// Payload returns the wire payload for the envelope: the event identity
// fields merged above the event data.
func (e Envelope) Payload() map[string]any {
	payload := map[string]any{
		"event":       string(e.Type),
		"tenant_id":   e.TenantID.String(),
		"occurred_at": e.OccurredAt.UTC().Format(time.RFC3339),
		"data":        e.Data,
	}
	return payload
}
