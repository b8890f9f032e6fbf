package webhookrepo

import (
	"context"
	"encoding/json"
	"errors"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormWebhookRepository implements WebhookRepository using GORM.
type GormWebhookRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormWebhookRepository creates a new GORM webhook repository.
func NewGormWebhookRepository(db *gorm.DB, tracker aggregateTracker) *GormWebhookRepository {
	return &GormWebhookRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a freshly registered webhook to the database.
func (r *GormWebhookRepository) Add(ctx context.Context, aggregate *webhook.Webhook) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves configuration changes to an existing webhook. The secret and
// the delivery counters are never written here: the secret is immutable and
// the counters only move through RecordDelivery/RecordRetry increments.
func (r *GormWebhookRepository) Update(ctx context.Context, aggregate *webhook.Webhook) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&WebhookDTO{}).
		Where("id = ? AND tenant_id = ?", dto.ID, dto.TenantID).
		Select("name", "url", "events", "headers", "max_attempts", "timeout_seconds", "active").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a webhook by ID within a tenant.
func (r *GormWebhookRepository) Get(ctx context.Context, tenantID, id kernel.UUID) (*webhook.Webhook, error) {
	if err := errors.Join(tenantID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto WebhookDTO
	err := r.db.WithContext(ctx).
		First(&dto, "id = ? AND tenant_id = ?", id.Bytes(), tenantID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("webhook", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Delete removes a webhook. Its delivery rows are kept for the audit trail.
func (r *GormWebhookRepository) Delete(ctx context.Context, tenantID, id kernel.UUID) error {
	if err := errors.Join(tenantID.Validate(), id.Validate()); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id.Bytes(), tenantID.Bytes()).
		Delete(&WebhookDTO{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("webhook", id.String())
	}
	return nil
}

// ListByTenant returns all of a tenant's webhooks, newest first.
func (r *GormWebhookRepository) ListByTenant(ctx context.Context, tenantID kernel.UUID) ([]*webhook.Webhook, error) {
	if err := tenantID.Validate(); err != nil {
		return nil, err
	}

	var dtos []WebhookDTO
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID.Bytes()).
		Order("created_at DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// CountActive returns the tenant's active webhook count.
func (r *GormWebhookRepository) CountActive(ctx context.Context, tenantID kernel.UUID) (int64, error) {
	if err := tenantID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&WebhookDTO{}).
		Where("tenant_id = ? AND active", tenantID.Bytes()).
		Count(&count).Error
	return count, err
}

// ListActiveByEvent returns the tenant's active webhooks subscribed to the
// event type. Subscription matching uses jsonb containment on the events
// column.
func (r *GormWebhookRepository) ListActiveByEvent(
	ctx context.Context, tenantID kernel.UUID, eventType event.Type,
) ([]*webhook.Webhook, error) {
	if err := errors.Join(tenantID.Validate(), eventType.Validate()); err != nil {
		return nil, err
	}

	needle, err := json.Marshal([]string{eventType.String()})
	if err != nil {
		return nil, err
	}

	var dtos []WebhookDTO
	err = r.db.WithContext(ctx).
		Where("tenant_id = ? AND active AND events @> ?", tenantID.Bytes(), string(needle)).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// RecordDelivery inserts a delivery row and bumps the owning webhook's
// counters. Counter updates are relative increments, so concurrent fan-outs
// interleave without losing counts.
func (r *GormWebhookRepository) RecordDelivery(ctx context.Context, delivery webhook.Delivery) error {
	dto := deliveryFromDomain(delivery)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	return r.bumpCounters(ctx, delivery)
}

// RecordRetry overwrites an existing delivery row with the outcome of a
// manual retry and bumps the counters for the new attempt.
func (r *GormWebhookRepository) RecordRetry(ctx context.Context, delivery webhook.Delivery) error {
	dto := deliveryFromDomain(delivery)
	result := r.db.WithContext(ctx).Model(&DeliveryDTO{}).
		Where("id = ?", dto.ID).
		Select("attempt_number", "status", "http_status", "response_body", "error_message", "delivered_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("delivery", delivery.ID.String())
	}

	return r.bumpCounters(ctx, delivery)
}

// GetDelivery retrieves one delivery row, tenant-scoped through its webhook.
func (r *GormWebhookRepository) GetDelivery(
	ctx context.Context, tenantID, deliveryID kernel.UUID,
) (webhook.Delivery, error) {
	if err := errors.Join(tenantID.Validate(), deliveryID.Validate()); err != nil {
		return webhook.Delivery{}, err
	}

	var dto DeliveryDTO
	err := r.db.WithContext(ctx).
		Joins("JOIN webhooks ON webhooks.id = webhook_deliveries.webhook_id").
		Where("webhook_deliveries.id = ? AND webhooks.tenant_id = ?", deliveryID.Bytes(), tenantID.Bytes()).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return webhook.Delivery{}, errs.NewObjectNotFoundError("delivery", deliveryID.String())
		}
		return webhook.Delivery{}, err
	}

	return deliveryToDomain(dto)
}

// ListDeliveries pages through a webhook's delivery log, newest first.
func (r *GormWebhookRepository) ListDeliveries(
	ctx context.Context, tenantID, webhookID kernel.UUID, filter ports.DeliveryFilter,
) ([]webhook.Delivery, error) {
	if _, err := r.Get(ctx, tenantID, webhookID); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Where("webhook_id = ?", webhookID.Bytes())
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.EventType != nil {
		query = query.Where("event_type = ?", filter.EventType.String())
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var dtos []DeliveryDTO
	if err := query.Order("created_at DESC").Find(&dtos).Error; err != nil {
		return nil, err
	}

	deliveries := make([]webhook.Delivery, 0, len(dtos))
	for _, dto := range dtos {
		delivery, err := deliveryToDomain(dto)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, delivery)
	}

	return deliveries, nil
}

func (r *GormWebhookRepository) bumpCounters(ctx context.Context, delivery webhook.Delivery) error {
	updates := map[string]any{
		"total_deliveries": gorm.Expr("total_deliveries + 1"),
	}
	if delivery.Status == webhook.DeliverySuccess {
		updates["successful_deliveries"] = gorm.Expr("successful_deliveries + 1")
		updates["last_triggered_at"] = delivery.CreatedAt
		if delivery.DeliveredAt != nil {
			updates["last_triggered_at"] = *delivery.DeliveredAt
		}
	} else {
		updates["failed_deliveries"] = gorm.Expr("failed_deliveries + 1")
	}

	return r.db.WithContext(ctx).Model(&WebhookDTO{}).
		Where("id = ?", delivery.WebhookID.Bytes()).
		Updates(updates).Error
}

func toDomainList(dtos []WebhookDTO) ([]*webhook.Webhook, error) {
	webhooks := make([]*webhook.Webhook, 0, len(dtos))
	for _, dto := range dtos {
		hook, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		webhooks = append(webhooks, hook)
	}
	return webhooks, nil
}
