package webhook

import (
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
)

// ResponseBodyLimit caps how much of an endpoint's response body is persisted
// on a delivery record.
const ResponseBodyLimit = 1000

// DeliveryStatus is the terminal outcome of a single delivery attempt row.
type DeliveryStatus string

const (
	DeliverySuccess DeliveryStatus = "success"
	DeliveryFailed  DeliveryStatus = "failed"
)

// Delivery is the audit record of one webhook delivery attempt. Every attempt
// writes exactly one row regardless of outcome; rows are never updated after
// creation except by an explicit retry replaying the same row in place.
type Delivery struct {
	ID            kernel.UUID
	WebhookID     kernel.UUID
	EventType     event.Type
	Payload       map[string]any
	AttemptNumber int
	Status        DeliveryStatus
	HTTPStatus    *int
	ResponseBody  string
	ErrorMessage  string
	DeliveredAt   *time.Time
	CreatedAt     time.Time
}

// NewSuccessfulDelivery records a delivery whose endpoint answered with a 2xx
// status.
func NewSuccessfulDelivery(
	webhookID kernel.UUID,
	eventType event.Type,
	payload map[string]any,
	attempt int,
	httpStatus int,
	responseBody string,
	at time.Time,
) Delivery {
	deliveredAt := at
	return Delivery{
		ID:            kernel.NewUUID(),
		WebhookID:     webhookID,
		EventType:     eventType,
		Payload:       payload,
		AttemptNumber: attempt,
		Status:        DeliverySuccess,
		HTTPStatus:    &httpStatus,
		ResponseBody:  TruncateBody(responseBody),
		DeliveredAt:   &deliveredAt,
		CreatedAt:     at,
	}
}

// NewFailedDelivery records a delivery that got a non-2xx answer or no answer
// at all. httpStatus is nil when the request never completed (timeout,
// connection refused); errorMessage then carries the transport error.
func NewFailedDelivery(
	webhookID kernel.UUID,
	eventType event.Type,
	payload map[string]any,
	attempt int,
	httpStatus *int,
	responseBody, errorMessage string,
	at time.Time,
) Delivery {
	return Delivery{
		ID:            kernel.NewUUID(),
		WebhookID:     webhookID,
		EventType:     eventType,
		Payload:       payload,
		AttemptNumber: attempt,
		Status:        DeliveryFailed,
		HTTPStatus:    httpStatus,
		ResponseBody:  TruncateBody(responseBody),
		ErrorMessage:  errorMessage,
		CreatedAt:     at,
	}
}

// Retried returns a copy of the delivery rewritten with the outcome of a
// manual retry. The row keeps its identity and event payload; the attempt
// counter advances past the previous value.
func (d Delivery) Retried(outcome Delivery) Delivery {
	outcome.ID = d.ID
	outcome.WebhookID = d.WebhookID
	outcome.EventType = d.EventType
	outcome.Payload = d.Payload
	outcome.AttemptNumber = d.AttemptNumber + 1
	outcome.CreatedAt = d.CreatedAt
	return outcome
}

// TruncateBody trims a response body to the persisted limit.
func TruncateBody(body string) string {
	if len(body) > ResponseBodyLimit {
		return body[:ResponseBodyLimit]
	}
	return body
}
