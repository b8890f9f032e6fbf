package order

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// HistoryRecord is one row of the append-only status ledger: a single
// transition with the actor who triggered it. Records are never updated or
// deleted; the order timeline is reconstructed by reading them oldest first.
//
// Exactly one of ActorAdminID/ActorCustomerID is set for human-triggered
// transitions; system transitions (placement, auto-accept) carry neither.
// ActorName is the human name captured at the moment of the transition, so
// the ledger stays readable even after the account is renamed or removed.
type HistoryRecord struct {
	ID              kernel.UUID
	OrderID         kernel.UUID
	FromStatus      *Status
	ToStatus        Status
	ActorAdminID    *kernel.UUID
	ActorCustomerID *kernel.UUID
	ActorName       string
	Note            string
	CreatedAt       time.Time
}

// NewPlacementRecord creates the initial ledger row written when an order is
// placed: to_status pending, no prior status, no actor.
func NewPlacementRecord(orderID kernel.UUID, at time.Time) HistoryRecord {
	return HistoryRecord{
		ID:        kernel.NewUUID(),
		OrderID:   orderID,
		ToStatus:  Pending,
		CreatedAt: at,
	}
}

// NewAdminTransitionRecord creates a ledger row for an admin-triggered
// transition. actorName may be empty when the authentication layer did not
// forward one.
func NewAdminTransitionRecord(
	orderID kernel.UUID, from, to Status, adminID kernel.UUID, actorName, note string, at time.Time,
) HistoryRecord {
	return HistoryRecord{
		ID:           kernel.NewUUID(),
		OrderID:      orderID,
		FromStatus:   &from,
		ToStatus:     to,
		ActorAdminID: &adminID,
		ActorName:    actorName,
		Note:         note,
		CreatedAt:    at,
	}
}

// NewSystemTransitionRecord creates a ledger row for a transition performed by
// an internal process, such as the acceptance sweeper. No actor is recorded.
func NewSystemTransitionRecord(orderID kernel.UUID, from, to Status, note string, at time.Time) HistoryRecord {
	return HistoryRecord{
		ID:         kernel.NewUUID(),
		OrderID:    orderID,
		FromStatus: &from,
		ToStatus:   to,
		Note:       note,
		CreatedAt:  at,
	}
}
