package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/core/ports"
)

// RegisterWebhookResult carries the created webhook's id and its signing
// secret. The secret is returned exactly once, here; it cannot be read back.
type RegisterWebhookResult struct {
	WebhookID kernel.UUID
	Secret    string
}

// RegisterWebhookCommandHandler registers a webhook after checking the
// tenant's feature flag and active-webhook quota.
type RegisterWebhookCommandHandler struct {
	uowFactory WebhookUoWFactory
	tenants    ports.TenantGateway
}

// NewRegisterWebhookCommandHandler creates a handler for webhook registration.
func NewRegisterWebhookCommandHandler(
	uowFactory WebhookUoWFactory, tenants ports.TenantGateway,
) RegisterWebhookCommandHandler {
	return RegisterWebhookCommandHandler{
		uowFactory: uowFactory,
		tenants:    tenants,
	}
}

// Handle processes the registration command.
func (h *RegisterWebhookCommandHandler) Handle(
	ctx context.Context, cmd RegisterWebhookCommand,
) (RegisterWebhookResult, error) {
	if err := cmd.Validate(); err != nil {
		return RegisterWebhookResult{}, err
	}

	settings, err := h.tenants.WebhookSettings(ctx, cmd.TenantID())
	if err != nil {
		return RegisterWebhookResult{}, err
	}
	if !settings.Enabled {
		return RegisterWebhookResult{}, ErrWebhooksDisabled
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return RegisterWebhookResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	webhookRepo := uow.WebhookRepository()
	active, err := webhookRepo.CountActive(ctx, cmd.TenantID())
	if err != nil {
		return RegisterWebhookResult{}, err
	}
	if active >= int64(settings.MaxActive) {
		return RegisterWebhookResult{}, ErrWebhookQuotaExceeded
	}

	aggregate, err := webhook.NewWebhook(
		kernel.NewUUID(), cmd.TenantID(),
		cmd.Name(), cmd.URL(),
		cmd.Events(), cmd.Headers(),
		cmd.MaxAttempts(), cmd.Timeout(),
		time.Now(),
	)
	if err != nil {
		return RegisterWebhookResult{}, err
	}

	if err = webhookRepo.Add(ctx, aggregate); err != nil {
		return RegisterWebhookResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return RegisterWebhookResult{}, err
	}

	return RegisterWebhookResult{
		WebhookID: aggregate.ID(),
		Secret:    aggregate.Secret(),
	}, nil
}
