// Package productrepo adjusts per-tenant product stock levels. Stock moves as
// relative decrements applied with the order placement transaction; levels may
// go negative, oversell is reconciled by the merchant.
package productrepo

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductDTO represents the database structure for per-tenant product stock.
type ProductDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID uuid.UUID `gorm:"type:uuid;index"`

	Name       string
	PriceCents int64
	Stock      int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for product entities.
func (ProductDTO) TableName() string {
	return "products"
}

// GormProductRepository implements InventoryRepository using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM product repository.
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// DecrementStock reduces stock for every item line. Decrements are relative
// expressions, so concurrent placements of the same product interleave without
// lost updates. Unknown product ids are skipped rather than failing the order.
func (r *GormProductRepository) DecrementStock(
	ctx context.Context, tenantID kernel.UUID, items []order.Item,
) error {
	if err := tenantID.Validate(); err != nil {
		return err
	}

	for _, item := range items {
		err := r.db.WithContext(ctx).Model(&ProductDTO{}).
			Where("id = ? AND tenant_id = ?", item.ProductID().Bytes(), tenantID.Bytes()).
			Update("stock", gorm.Expr("stock - ?", item.Quantity())).Error
		if err != nil {
			return err
		}
	}

	return nil
}
