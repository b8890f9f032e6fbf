package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
)

// NotificationRepository persists in-app notifications. Writes happen inside
// the transaction of the order change they describe.
type NotificationRepository interface {
	// Add persists one notification.
	Add(ctx context.Context, n notification.Notification) error

	// ListForCustomer returns a customer's notifications, newest first.
	ListForCustomer(ctx context.Context, tenantID, customerID kernel.UUID, limit int) ([]notification.Notification, error)
}
