package orderrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its line items to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
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

// Update saves the mutable part of an existing order. Items, totals and
// identity columns never change after placement and are left alone.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND tenant_id = ?", dto.ID, dto.TenantID).
		Select(
			"status", "acceptance_status", "payment_status",
			"accepted_at", "accepted_by", "auto_accepted",
			"tracking_number", "estimated_delivery_time",
		).
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

// Get retrieves an order by ID within a tenant. A foreign-tenant id behaves
// exactly like a missing one.
func (r *GormOrderRepository) Get(ctx context.Context, tenantID, id kernel.UUID) (*order.Order, error) {
	if err := errors.Join(tenantID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&dto, "id = ? AND tenant_id = ?", id.Bytes(), tenantID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// NextNumber allocates the next per-tenant order number. The upsert advances
// the counter row atomically, so concurrent placements within a tenant always
// get distinct numbers.
func (r *GormOrderRepository) NextNumber(ctx context.Context, tenantID kernel.UUID) (int64, error) {
	if err := tenantID.Validate(); err != nil {
		return 0, err
	}

	var number int64
	row := r.db.WithContext(ctx).Raw(`
		INSERT INTO order_counters (tenant_id, last_number)
		VALUES (?, 1)
		ON CONFLICT (tenant_id)
		DO UPDATE SET last_number = order_counters.last_number + 1
		RETURNING last_number
	`, tenantID.Bytes()).Row()
	if err := row.Scan(&number); err != nil {
		return 0, err
	}

	return number, nil
}

// ClaimAcceptance locks the order row and reports whether it is still pending
// acceptance. The row lock is held until the surrounding transaction ends, so
// a successful claim guarantees no other worker accepts the same order.
func (r *GormOrderRepository) ClaimAcceptance(ctx context.Context, tenantID, id kernel.UUID) (bool, error) {
	if err := errors.Join(tenantID.Validate(), id.Validate()); err != nil {
		return false, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "id = ? AND tenant_id = ?", id.Bytes(), tenantID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, errs.NewObjectNotFoundError("order", id.String())
		}
		return false, err
	}

	stillPending := dto.Status == order.Pending.String() &&
		dto.AcceptanceStatus == order.AcceptancePending.String()
	return stillPending, nil
}

// GetExpiredPendingRefs returns orders across all tenants that are still
// pending acceptance past their deadline, oldest deadline first.
func (r *GormOrderRepository) GetExpiredPendingRefs(
	ctx context.Context, now time.Time, limit int,
) ([]ports.PendingOrderRef, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Select("id", "tenant_id").
		Where(
			"status = ? AND acceptance_status = ? AND acceptance_deadline <= ?",
			order.Pending.String(), order.AcceptancePending.String(), now,
		).
		Order("acceptance_deadline").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	refs := make([]ports.PendingOrderRef, 0, len(dtos))
	for _, dto := range dtos {
		orderID, convErr := kernel.UUIDFromBytes(dto.ID[:])
		if convErr != nil {
			return nil, convErr
		}
		tenantID, convErr := kernel.UUIDFromBytes(dto.TenantID[:])
		if convErr != nil {
			return nil, convErr
		}
		refs = append(refs, ports.PendingOrderRef{TenantID: tenantID, OrderID: orderID})
	}

	return refs, nil
}

// AddHistory appends one status ledger row. Rows are insert-only.
func (r *GormOrderRepository) AddHistory(ctx context.Context, record order.HistoryRecord) error {
	dto := historyFromDomain(record)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetHistory returns the order's status ledger, oldest first. Tenant scope is
// enforced through the owning order row.
func (r *GormOrderRepository) GetHistory(
	ctx context.Context, tenantID, orderID kernel.UUID,
) ([]order.HistoryRecord, error) {
	if err := errors.Join(tenantID.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}

	var owner struct{ ID uuid.UUID }
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Select("id").
		First(&owner, "id = ? AND tenant_id = ?", orderID.Bytes(), tenantID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", orderID.String())
		}
		return nil, err
	}

	var dtos []HistoryDTO
	err = r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	records := make([]order.HistoryRecord, 0, len(dtos))
	for _, dto := range dtos {
		record, convErr := historyToDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		records = append(records, record)
	}

	return records, nil
}
