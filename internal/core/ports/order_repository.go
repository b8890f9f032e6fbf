// Package ports defines the contracts between the application core and
// infrastructure: repositories, the unit of work, and the outbound event
// gateways. Adapters implement these interfaces; handlers depend on them.
package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// PendingOrderRef identifies an order within its tenant, for cross-tenant
// sweeps that later operate tenant-scoped.
type PendingOrderRef struct {
	TenantID kernel.UUID
	OrderID  kernel.UUID
}

// OrderRepository defines the persistence contract for order aggregates and
// their append-only status history.
//
// All reads are tenant-scoped: an id belonging to another tenant behaves
// exactly like a missing id and yields an ObjectNotFoundError.
type OrderRepository interface {
	// Add persists a new order aggregate together with its item lines.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by id within a tenant.
	Get(ctx context.Context, tenantID, id kernel.UUID) (*order.Order, error)

	// NextNumber allocates the next per-tenant order number. Allocation is
	// atomic: concurrent placements within a tenant get distinct numbers.
	NextNumber(ctx context.Context, tenantID kernel.UUID) (int64, error)

	// ClaimAcceptance atomically verifies the order is still pending
	// acceptance and locks the row for the rest of the transaction. It
	// returns false when another worker already claimed the order, in which
	// case the caller must not apply an acceptance transition.
	ClaimAcceptance(ctx context.Context, tenantID, id kernel.UUID) (bool, error)

	// GetExpiredPendingRefs returns orders across all tenants that are still
	// pending acceptance past their deadline, oldest first.
	GetExpiredPendingRefs(ctx context.Context, now time.Time, limit int) ([]PendingOrderRef, error)

	// AddHistory appends one status-ledger row. Rows are never updated.
	AddHistory(ctx context.Context, record order.HistoryRecord) error

	// GetHistory returns the order's status ledger, oldest first.
	GetHistory(ctx context.Context, tenantID, orderID kernel.UUID) ([]order.HistoryRecord, error)
}

// InventoryRepository adjusts per-tenant product stock levels.
type InventoryRepository interface {
	// DecrementStock reduces stock for every item line. Stock may go
	// negative; oversell is reconciled by the merchant, not blocked here.
	DecrementStock(ctx context.Context, tenantID kernel.UUID, items []order.Item) error
}

// LoyaltyRepository credits customer loyalty balances.
type LoyaltyRepository interface {
	// Credit adds points to the customer's balance and writes a ledger row
	// referencing the order that earned them.
	Credit(ctx context.Context, tenantID, customerID, orderID kernel.UUID, points int64) error
}
