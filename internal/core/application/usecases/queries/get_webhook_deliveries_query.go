package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetWebhookDeliveriesQueryIsNotConstructed = errors.New(
	"GetWebhookDeliveriesQuery must be created via NewGetWebhookDeliveriesQuery constructor",
)

// DefaultDeliveriesPageSize caps a delivery-log page when the client does not
// ask for a size.
const DefaultDeliveriesPageSize = 50

// GetWebhookDeliveriesQuery pages through a webhook's delivery audit log,
// optionally filtered by outcome and event type.
type GetWebhookDeliveriesQuery struct {
	actor     kernel.Actor
	tenantID  kernel.UUID
	webhookID kernel.UUID
	status    *webhook.DeliveryStatus
	eventType *event.Type
	limit     int
	offset    int

	guard guard.ConstructorGuard
}

// NewGetWebhookDeliveriesQuery creates a delivery-log query. A zero limit
// uses the default page size; filters left nil match everything.
func NewGetWebhookDeliveriesQuery(
	actor kernel.Actor,
	tenantID, webhookID kernel.UUID,
	status *webhook.DeliveryStatus,
	eventType *event.Type,
	limit, offset int,
) (GetWebhookDeliveriesQuery, error) {
	if err := errors.Join(actor.Validate(), tenantID.Validate(), webhookID.Validate()); err != nil {
		return GetWebhookDeliveriesQuery{}, err
	}
	if actor.Kind() != kernel.ActorAdmin || !actor.CanManageTenant(tenantID) {
		return GetWebhookDeliveriesQuery{}, errs.NewAccessForbiddenError("webhook deliveries")
	}
	if status != nil && *status != webhook.DeliverySuccess && *status != webhook.DeliveryFailed {
		return GetWebhookDeliveriesQuery{}, errs.NewValueIsInvalidError("delivery status filter")
	}
	if eventType != nil {
		if err := eventType.Validate(); err != nil {
			return GetWebhookDeliveriesQuery{}, err
		}
	}
	if limit < 0 || offset < 0 {
		return GetWebhookDeliveriesQuery{}, errs.NewValueIsInvalidError("pagination")
	}
	if limit == 0 {
		limit = DefaultDeliveriesPageSize
	}

	return GetWebhookDeliveriesQuery{
		actor:     actor,
		tenantID:  tenantID,
		webhookID: webhookID,
		status:    status,
		eventType: eventType,
		limit:     limit,
		offset:    offset,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetWebhookDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetWebhookDeliveriesQueryIsNotConstructed)
}

// TenantID returns the tenant scope of the query.
func (q GetWebhookDeliveriesQuery) TenantID() kernel.UUID { return q.tenantID }

// WebhookID returns the webhook whose log is read.
func (q GetWebhookDeliveriesQuery) WebhookID() kernel.UUID { return q.webhookID }

// Status returns the outcome filter, if any.
func (q GetWebhookDeliveriesQuery) Status() *webhook.DeliveryStatus { return q.status }

// EventType returns the event-type filter, if any.
func (q GetWebhookDeliveriesQuery) EventType() *event.Type { return q.eventType }

// Limit returns the page size.
func (q GetWebhookDeliveriesQuery) Limit() int { return q.limit }

// Offset returns the page offset.
func (q GetWebhookDeliveriesQuery) Offset() int { return q.offset }

// GetWebhookDeliveriesQueryResponse is one row of the delivery audit log.
type GetWebhookDeliveriesQueryResponse struct {
	ID            kernel.UUID
	EventType     string
	AttemptNumber int
	Status        string
	HTTPStatus    *int
	ResponseBody  string
	ErrorMessage  string
	DeliveredAt   *time.Time
	CreatedAt     time.Time
}
