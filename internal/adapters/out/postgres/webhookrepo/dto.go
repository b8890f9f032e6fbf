// Package webhookrepo provides data transfer objects and mapping functions for
// webhook persistence: the webhook configuration rows and their delivery audit
// log.
package webhookrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/webhook"

	"github.com/google/uuid"
)

// WebhookDTO represents the database structure for persisting webhook
// aggregates. The subscribed event set and custom headers are stored as jsonb
// so subscription filters stay queryable with the @> containment operator.
type WebhookDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID uuid.UUID `gorm:"type:uuid;index"`

	Name   string
	URL    string
	Secret string

	Events  []string          `gorm:"serializer:json;type:jsonb"`
	Headers map[string]string `gorm:"serializer:json;type:jsonb"`

	MaxAttempts    int
	TimeoutSeconds int
	Active         bool `gorm:"index"`

	TotalDeliveries      int64
	SuccessfulDeliveries int64
	FailedDeliveries     int64
	LastTriggeredAt      *time.Time

	CreatedAt time.Time
}

// TableName specifies the database table name for webhook entities.
func (WebhookDTO) TableName() string {
	return "webhooks"
}

// DeliveryDTO represents one delivery attempt row. The payload is persisted as
// jsonb so a manual retry can replay the exact body that was signed.
type DeliveryDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	WebhookID uuid.UUID `gorm:"type:uuid;index"`

	EventType string
	Payload   map[string]any `gorm:"serializer:json;type:jsonb"`

	AttemptNumber int
	Status        string `gorm:"index"`
	HTTPStatus    *int
	ResponseBody  string
	ErrorMessage  string
	DeliveredAt   *time.Time
	CreatedAt     time.Time `gorm:"index"`
}

// TableName specifies the database table name for delivery audit entities.
func (DeliveryDTO) TableName() string {
	return "webhook_deliveries"
}

// fromDomain converts a webhook domain aggregate to its database representation.
func fromDomain(aggregate *webhook.Webhook) WebhookDTO {
	events := make([]string, 0, len(aggregate.Events()))
	for _, eventType := range aggregate.Events() {
		events = append(events, eventType.String())
	}

	return WebhookDTO{
		ID:                   aggregate.ID().Bytes(),
		TenantID:             aggregate.TenantID().Bytes(),
		Name:                 aggregate.Name(),
		URL:                  aggregate.URL(),
		Secret:               aggregate.Secret(),
		Events:               events,
		Headers:              aggregate.Headers(),
		MaxAttempts:          aggregate.MaxAttempts(),
		TimeoutSeconds:       int(aggregate.Timeout() / time.Second),
		Active:               aggregate.IsActive(),
		TotalDeliveries:      aggregate.TotalDeliveries(),
		SuccessfulDeliveries: aggregate.SuccessfulDeliveries(),
		FailedDeliveries:     aggregate.FailedDeliveries(),
		LastTriggeredAt:      aggregate.LastTriggeredAt(),
		CreatedAt:            aggregate.CreatedAt(),
	}
}

// toDomain converts a database DTO to a webhook domain aggregate.
func toDomain(dto WebhookDTO) (*webhook.Webhook, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return nil, err
	}

	events := make([]event.Type, 0, len(dto.Events))
	for _, name := range dto.Events {
		eventType := event.Type(name)
		if err = eventType.Validate(); err != nil {
			return nil, err
		}
		events = append(events, eventType)
	}

	return webhook.RestoreWebhook(webhook.RestoreWebhookParams{
		ID:                   id,
		TenantID:             tenantID,
		Name:                 dto.Name,
		URL:                  dto.URL,
		Secret:               dto.Secret,
		Events:               events,
		Headers:              dto.Headers,
		MaxAttempts:          dto.MaxAttempts,
		Timeout:              time.Duration(dto.TimeoutSeconds) * time.Second,
		Active:               dto.Active,
		TotalDeliveries:      dto.TotalDeliveries,
		SuccessfulDeliveries: dto.SuccessfulDeliveries,
		FailedDeliveries:     dto.FailedDeliveries,
		LastTriggeredAt:      dto.LastTriggeredAt,
		CreatedAt:            dto.CreatedAt,
	})
}

// deliveryFromDomain converts a delivery record to its database representation.
func deliveryFromDomain(delivery webhook.Delivery) DeliveryDTO {
	return DeliveryDTO{
		ID:            delivery.ID.Bytes(),
		WebhookID:     delivery.WebhookID.Bytes(),
		EventType:     delivery.EventType.String(),
		Payload:       delivery.Payload,
		AttemptNumber: delivery.AttemptNumber,
		Status:        string(delivery.Status),
		HTTPStatus:    delivery.HTTPStatus,
		ResponseBody:  delivery.ResponseBody,
		ErrorMessage:  delivery.ErrorMessage,
		DeliveredAt:   delivery.DeliveredAt,
		CreatedAt:     delivery.CreatedAt,
	}
}

// deliveryToDomain converts a delivery row back into a domain record.
func deliveryToDomain(dto DeliveryDTO) (webhook.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return webhook.Delivery{}, err
	}
	webhookID, err := kernel.UUIDFromBytes(dto.WebhookID[:])
	if err != nil {
		return webhook.Delivery{}, err
	}

	return webhook.Delivery{
		ID:            id,
		WebhookID:     webhookID,
		EventType:     event.Type(dto.EventType),
		Payload:       dto.Payload,
		AttemptNumber: dto.AttemptNumber,
		Status:        webhook.DeliveryStatus(dto.Status),
		HTTPStatus:    dto.HTTPStatus,
		ResponseBody:  dto.ResponseBody,
		ErrorMessage:  dto.ErrorMessage,
		DeliveredAt:   dto.DeliveredAt,
		CreatedAt:     dto.CreatedAt,
	}, nil
}
