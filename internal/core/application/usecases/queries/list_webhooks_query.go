package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrListWebhooksQueryIsNotConstructed = errors.New(
	"ListWebhooksQuery must be created via NewListWebhooksQuery constructor",
)

// ListWebhooksQuery retrieves a tenant's webhook registrations with their
// delivery counters. The signing secret is never part of the response.
type ListWebhooksQuery struct {
	actor    kernel.Actor
	tenantID kernel.UUID

	guard guard.ConstructorGuard
}

// NewListWebhooksQuery creates a query for a tenant's webhooks. Only admins
// with management rights over the tenant may list them.
func NewListWebhooksQuery(actor kernel.Actor, tenantID kernel.UUID) (ListWebhooksQuery, error) {
	if err := errors.Join(actor.Validate(), tenantID.Validate()); err != nil {
		return ListWebhooksQuery{}, err
	}
	if actor.Kind() != kernel.ActorAdmin || !actor.CanManageTenant(tenantID) {
		return ListWebhooksQuery{}, errs.NewAccessForbiddenError("webhook listing")
	}

	return ListWebhooksQuery{
		actor:    actor,
		tenantID: tenantID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListWebhooksQuery) Validate() error {
	return q.guard.Validate(ErrListWebhooksQueryIsNotConstructed)
}

// TenantID returns the tenant whose webhooks are listed.
func (q ListWebhooksQuery) TenantID() kernel.UUID { return q.tenantID }

// ListWebhooksQueryResponse is one webhook registration with its counters.
type ListWebhooksQueryResponse struct {
	ID                   kernel.UUID
	Name                 string
	URL                  string
	Events               []string
	MaxAttempts          int
	TimeoutSeconds       int
	Active               bool
	TotalDeliveries      int64
	SuccessfulDeliveries int64
	FailedDeliveries     int64
	LastTriggeredAt      *time.Time
	CreatedAt            time.Time
}
