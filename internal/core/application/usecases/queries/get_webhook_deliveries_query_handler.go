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

// GetWebhookDeliveriesQueryHandler reads a webhook's delivery audit log. The
// webhook is resolved tenant-scoped first, so a foreign-tenant webhook id
// behaves as not found rather than leaking another tenant's log.
type GetWebhookDeliveriesQueryHandler struct {
	db *gorm.DB
}

// NewGetWebhookDeliveriesQueryHandler creates a handler for delivery-log queries.
func NewGetWebhookDeliveriesQueryHandler(db *gorm.DB) GetWebhookDeliveriesQueryHandler {
	return GetWebhookDeliveriesQueryHandler{db: db}
}

// Handle executes the query, newest deliveries first.
func (h GetWebhookDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query GetWebhookDeliveriesQuery,
) ([]GetWebhookDeliveriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var owned int
	row := h.db.WithContext(ctx).Raw(`
		SELECT 1
		FROM webhooks
		WHERE tenant_id = ? AND id = ?
	`, query.TenantID().String(), query.WebhookID().String()).Row()
	if err := row.Scan(&owned); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NewObjectNotFoundError("webhookID", query.WebhookID())
		}
		return nil, err
	}

	querySQL := `
		SELECT
			id, event_type, attempt_number, status, http_status,
			response_body, error_message, delivered_at, created_at
		FROM webhook_deliveries
		WHERE webhook_id = ?
	`
	args := []any{query.WebhookID().String()}

	if query.Status() != nil {
		querySQL += " AND status = ?"
		args = append(args, string(*query.Status()))
	}
	if query.EventType() != nil {
		querySQL += " AND event_type = ?"
		args = append(args, query.EventType().String())
	}
	querySQL += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, query.Limit(), query.Offset())

	rows, err := h.db.WithContext(ctx).Raw(querySQL, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deliveries := make([]GetWebhookDeliveriesQueryResponse, 0)
	for rows.Next() {
		var response GetWebhookDeliveriesQueryResponse
		var id uuid.UUID

		if err = rows.Scan(
			&id,
			&response.EventType,
			&response.AttemptNumber,
			&response.Status,
			&response.HTTPStatus,
			&response.ResponseBody,
			&response.ErrorMessage,
			&response.DeliveredAt,
			&response.CreatedAt,
		); err != nil {
			return nil, err
		}

		if response.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		deliveries = append(deliveries, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return deliveries, nil
}
