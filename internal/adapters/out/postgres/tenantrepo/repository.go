// Package tenantrepo reads the tenant configuration the fulfillment core
// needs. Tenant administration lives elsewhere; this adapter is read-only.
package tenantrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantDTO represents the tenant configuration row.
type TenantDTO struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string

	WebhooksEnabled   bool
	MaxActiveWebhooks int

	CreatedAt time.Time
}

// TableName specifies the database table name for tenant entities.
func (TenantDTO) TableName() string {
	return "tenants"
}

// GormTenantGateway implements TenantGateway using GORM.
type GormTenantGateway struct {
	db *gorm.DB
}

// NewGormTenantGateway creates a new GORM tenant gateway.
func NewGormTenantGateway(db *gorm.DB) *GormTenantGateway {
	return &GormTenantGateway{db: db}
}

// WebhookSettings returns the tenant's webhook flags.
func (g *GormTenantGateway) WebhookSettings(
	ctx context.Context, tenantID kernel.UUID,
) (ports.WebhookSettings, error) {
	if err := tenantID.Validate(); err != nil {
		return ports.WebhookSettings{}, err
	}

	var dto TenantDTO
	err := g.db.WithContext(ctx).First(&dto, "id = ?", tenantID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.WebhookSettings{}, errs.NewObjectNotFoundError("tenant", tenantID.String())
		}
		return ports.WebhookSettings{}, err
	}

	return ports.WebhookSettings{
		Enabled:   dto.WebhooksEnabled,
		MaxActive: dto.MaxActiveWebhooks,
	}, nil
}
