// Package loyaltyrepo credits customer loyalty balances. Every credit writes a
// ledger row referencing the delivered order that earned the points.
package loyaltyrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccountDTO holds one customer's loyalty balance within a tenant.
type AccountDTO struct {
	TenantID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Points     int64
	UpdatedAt  time.Time
}

// TableName specifies the database table name for loyalty accounts.
func (AccountDTO) TableName() string {
	return "loyalty_accounts"
}

// LedgerDTO is one append-only loyalty credit entry.
type LedgerDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID   uuid.UUID `gorm:"type:uuid;index"`
	CustomerID uuid.UUID `gorm:"type:uuid;index"`
	OrderID    uuid.UUID `gorm:"type:uuid"`
	Points     int64
	CreatedAt  time.Time
}

// TableName specifies the database table name for loyalty ledger entries.
func (LedgerDTO) TableName() string {
	return "loyalty_ledger"
}

// GormLoyaltyRepository implements LoyaltyRepository using GORM.
type GormLoyaltyRepository struct {
	db *gorm.DB
}

// NewGormLoyaltyRepository creates a new GORM loyalty repository.
func NewGormLoyaltyRepository(db *gorm.DB) *GormLoyaltyRepository {
	return &GormLoyaltyRepository{db: db}
}

// Credit adds points to the customer's balance and writes a ledger row. The
// balance upsert is a relative increment, so concurrent deliveries for the
// same customer never lose points.
func (r *GormLoyaltyRepository) Credit(
	ctx context.Context, tenantID, customerID, orderID kernel.UUID, points int64,
) error {
	if err := errors.Join(tenantID.Validate(), customerID.Validate(), orderID.Validate()); err != nil {
		return err
	}

	now := time.Now()
	account := AccountDTO{
		TenantID:   tenantID.Bytes(),
		CustomerID: customerID.Bytes(),
		Points:     points,
		UpdatedAt:  now,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "customer_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"points":     gorm.Expr("loyalty_accounts.points + ?", points),
			"updated_at": now,
		}),
	}).Create(&account).Error
	if err != nil {
		return err
	}

	entry := LedgerDTO{
		ID:         kernel.NewUUID().Bytes(),
		TenantID:   tenantID.Bytes(),
		CustomerID: customerID.Bytes(),
		OrderID:    orderID.Bytes(),
		Points:     points,
		CreatedAt:  now,
	}
	return r.db.WithContext(ctx).Create(&entry).Error
}
