package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderHistoryQueryHandler reads an order's status ledger from the
// database. The owning order row is fetched first to enforce tenant scope and
// customer ownership before any ledger rows are returned.
type GetOrderHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderHistoryQueryHandler creates a handler for order history queries.
func NewGetOrderHistoryQueryHandler(db *gorm.DB) GetOrderHistoryQueryHandler {
	return GetOrderHistoryQueryHandler{db: db}
}

// Handle executes the query. A foreign-tenant order id behaves as not found;
// a customer asking about someone else's order gets an access error.
func (h GetOrderHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetOrderHistoryQuery,
) ([]GetOrderHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var customerID uuid.UUID
	row := h.db.WithContext(ctx).Raw(`
		SELECT customer_id
		FROM orders
		WHERE tenant_id = ? AND id = ?
	`, query.TenantID().String(), query.OrderID().String()).Row()
	if err := row.Scan(&customerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NewObjectNotFoundError("orderID", query.OrderID())
		}
		return nil, err
	}

	owner, err := kernel.UUIDFromBytes(customerID[:])
	if err != nil {
		return nil, err
	}
	if !query.Actor().CanReadOrder(query.TenantID(), owner) {
		return nil, errs.NewAccessForbiddenError("order history")
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT from_status, to_status, actor_admin_id, actor_customer_id, actor_name, note, created_at
		FROM order_status_history
		WHERE order_id = ?
		ORDER BY created_at, id
	`, query.OrderID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]GetOrderHistoryQueryResponse, 0)
	for rows.Next() {
		var record GetOrderHistoryQueryResponse
		var adminID, actorCustomerID *uuid.UUID

		if err = rows.Scan(
			&record.FromStatus,
			&record.ToStatus,
			&adminID,
			&actorCustomerID,
			&record.ActorName,
			&record.Note,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}

		if record.ActorAdminID, err = optionalUUID(adminID); err != nil {
			return nil, err
		}
		if record.ActorCustomerID, err = optionalUUID(actorCustomerID); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func optionalUUID(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	converted, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	return &converted, nil
}
