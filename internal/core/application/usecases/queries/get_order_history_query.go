// Package queries contains read-side operations of the CQRS split. Query
// handlers read the database directly and return flat response structs; they
// never rehydrate aggregates or modify state.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderHistoryQueryIsNotConstructed = errors.New(
	"GetOrderHistoryQuery must be created via NewGetOrderHistoryQuery constructor",
)

// GetOrderHistoryQuery retrieves an order's status ledger, oldest first.
// Admins of the tenant and the customer who placed the order may read it.
type GetOrderHistoryQuery struct {
	actor    kernel.Actor
	tenantID kernel.UUID
	orderID  kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderHistoryQuery creates a query for an order's status history.
func NewGetOrderHistoryQuery(actor kernel.Actor, tenantID, orderID kernel.UUID) (GetOrderHistoryQuery, error) {
	if err := errors.Join(actor.Validate(), tenantID.Validate(), orderID.Validate()); err != nil {
		return GetOrderHistoryQuery{}, err
	}

	return GetOrderHistoryQuery{
		actor:    actor,
		tenantID: tenantID,
		orderID:  orderID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderHistoryQueryIsNotConstructed)
}

// Actor returns the requesting identity.
func (q GetOrderHistoryQuery) Actor() kernel.Actor { return q.actor }

// TenantID returns the tenant scope of the query.
func (q GetOrderHistoryQuery) TenantID() kernel.UUID { return q.tenantID }

// OrderID returns the order whose ledger is requested.
func (q GetOrderHistoryQuery) OrderID() kernel.UUID { return q.orderID }

// GetOrderHistoryQueryResponse is one row of the status ledger.
type GetOrderHistoryQueryResponse struct {
	FromStatus      *string
	ToStatus        string
	ActorAdminID    *kernel.UUID
	ActorCustomerID *kernel.UUID
	ActorName       string
	Note            string
	CreatedAt       time.Time
}
