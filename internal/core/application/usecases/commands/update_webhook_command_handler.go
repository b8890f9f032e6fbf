package commands

import (
	"context"
)

// UpdateWebhookCommandHandler applies a partial configuration update to a
// webhook. A webhook owned by another tenant behaves as not found.
type UpdateWebhookCommandHandler struct {
	uowFactory WebhookUoWFactory
}

// NewUpdateWebhookCommandHandler creates a handler for webhook updates.
func NewUpdateWebhookCommandHandler(uowFactory WebhookUoWFactory) UpdateWebhookCommandHandler {
	return UpdateWebhookCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the update command.
func (h *UpdateWebhookCommandHandler) Handle(ctx context.Context, cmd UpdateWebhookCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	webhookRepo := uow.WebhookRepository()
	aggregate, err := webhookRepo.Get(ctx, cmd.TenantID(), cmd.WebhookID())
	if err != nil {
		return err
	}

	if err = aggregate.ApplyUpdate(cmd.Patch()); err != nil {
		return err
	}

	if err = webhookRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
