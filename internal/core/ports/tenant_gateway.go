package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// WebhookSettings are the tenant's webhook feature flags.
type WebhookSettings struct {
	// Enabled gates the whole webhook feature for the tenant.
	Enabled bool

	// MaxActive caps how many active webhooks the tenant may hold.
	MaxActive int
}

// TenantGateway exposes the tenant configuration the fulfillment core needs.
// It is read-only; tenant administration lives elsewhere.
type TenantGateway interface {
	// WebhookSettings returns the tenant's webhook flags. An unknown tenant
	// yields an ObjectNotFoundError.
	WebhookSettings(ctx context.Context, tenantID kernel.UUID) (WebhookSettings, error)
}
