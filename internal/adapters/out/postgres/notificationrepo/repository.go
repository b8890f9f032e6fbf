// Package notificationrepo persists in-app notifications. Rows are written in
// the same transaction as the order change they describe.
package notificationrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationDTO represents the database structure for persisting
// notifications. A row addresses either one customer or, when both recipient
// columns are null, all of the tenant's admins.
type NotificationDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantID   uuid.UUID  `gorm:"type:uuid;index"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`
	AdminID    *uuid.UUID `gorm:"type:uuid"`
	OrderID    uuid.UUID  `gorm:"type:uuid"`

	Kind     string
	Priority string
	Title    string
	Message  string
	Data     map[string]any `gorm:"serializer:json;type:jsonb"`

	Read      bool
	CreatedAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for notification entities.
func (NotificationDTO) TableName() string {
	return "notifications"
}

// GormNotificationRepository implements NotificationRepository using GORM.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GORM notification repository.
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Add persists one notification.
func (r *GormNotificationRepository) Add(ctx context.Context, n notification.Notification) error {
	dto := fromDomain(n)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListForCustomer returns a customer's notifications, newest first.
func (r *GormNotificationRepository) ListForCustomer(
	ctx context.Context, tenantID, customerID kernel.UUID, limit int,
) ([]notification.Notification, error) {
	if err := errors.Join(tenantID.Validate(), customerID.Validate()); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND customer_id = ?", tenantID.Bytes(), customerID.Bytes()).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var dtos []NotificationDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	notifications := make([]notification.Notification, 0, len(dtos))
	for _, dto := range dtos {
		n, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, nil
}

func fromDomain(n notification.Notification) NotificationDTO {
	var customerID, adminID *uuid.UUID
	if n.CustomerID != nil {
		raw := n.CustomerID.Bytes()
		customerID = &raw
	}
	if n.AdminID != nil {
		raw := n.AdminID.Bytes()
		adminID = &raw
	}

	return NotificationDTO{
		ID:         n.ID.Bytes(),
		TenantID:   n.TenantID.Bytes(),
		CustomerID: customerID,
		AdminID:    adminID,
		OrderID:    n.OrderID.Bytes(),
		Kind:       string(n.Kind),
		Priority:   string(n.Priority),
		Title:      n.Title,
		Message:    n.Message,
		Data:       n.Data,
		Read:       n.Read,
		CreatedAt:  n.CreatedAt,
	}
}

func toDomain(dto NotificationDTO) (notification.Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return notification.Notification{}, err
	}
	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return notification.Notification{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return notification.Notification{}, err
	}

	var customerID, adminID *kernel.UUID
	if dto.CustomerID != nil {
		converted, convErr := kernel.UUIDFromBytes((*dto.CustomerID)[:])
		if convErr != nil {
			return notification.Notification{}, convErr
		}
		customerID = &converted
	}
	if dto.AdminID != nil {
		converted, convErr := kernel.UUIDFromBytes((*dto.AdminID)[:])
		if convErr != nil {
			return notification.Notification{}, convErr
		}
		adminID = &converted
	}

	return notification.Notification{
		ID:         id,
		TenantID:   tenantID,
		CustomerID: customerID,
		AdminID:    adminID,
		OrderID:    orderID,
		Kind:       notification.Kind(dto.Kind),
		Priority:   notification.Priority(dto.Priority),
		Title:      dto.Title,
		Message:    dto.Message,
		Data:       dto.Data,
		Read:       dto.Read,
		CreatedAt:  dto.CreatedAt,
	}, nil
}
