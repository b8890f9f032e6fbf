package queries

import (
	"context"
	"encoding/json"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListWebhooksQueryHandler reads a tenant's webhook registrations. The secret
// column is deliberately excluded from the select list.
type ListWebhooksQueryHandler struct {
	db *gorm.DB
}

// NewListWebhooksQueryHandler creates a handler for webhook listings.
func NewListWebhooksQueryHandler(db *gorm.DB) ListWebhooksQueryHandler {
	return ListWebhooksQueryHandler{db: db}
}

// Handle executes the query, newest registrations first.
func (h ListWebhooksQueryHandler) Handle(
	ctx context.Context,
	query ListWebhooksQuery,
) ([]ListWebhooksQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id, name, url, events, max_attempts, timeout_seconds, active,
			total_deliveries, successful_deliveries, failed_deliveries,
			last_triggered_at, created_at
		FROM webhooks
		WHERE tenant_id = ?
		ORDER BY created_at DESC
	`, query.TenantID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	webhooks := make([]ListWebhooksQueryResponse, 0)
	for rows.Next() {
		var response ListWebhooksQueryResponse
		var id uuid.UUID
		var eventsJSON []byte

		if err = rows.Scan(
			&id,
			&response.Name,
			&response.URL,
			&eventsJSON,
			&response.MaxAttempts,
			&response.TimeoutSeconds,
			&response.Active,
			&response.TotalDeliveries,
			&response.SuccessfulDeliveries,
			&response.FailedDeliveries,
			&response.LastTriggeredAt,
			&response.CreatedAt,
		); err != nil {
			return nil, err
		}

		if response.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if err = json.Unmarshal(eventsJSON, &response.Events); err != nil {
			return nil, err
		}
		webhooks = append(webhooks, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return webhooks, nil
}
