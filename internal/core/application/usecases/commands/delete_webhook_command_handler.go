package commands

import (
	"context"
)

// DeleteWebhookCommandHandler removes a webhook registration. The delivery
// audit log survives the webhook for traceability.
type DeleteWebhookCommandHandler struct {
	uowFactory WebhookUoWFactory
}

// NewDeleteWebhookCommandHandler creates a handler for webhook deletion.
func NewDeleteWebhookCommandHandler(uowFactory WebhookUoWFactory) DeleteWebhookCommandHandler {
	return DeleteWebhookCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the deletion command.
func (h *DeleteWebhookCommandHandler) Handle(ctx context.Context, cmd DeleteWebhookCommand) error {
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

	if err := uow.WebhookRepository().Delete(ctx, cmd.TenantID(), cmd.WebhookID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
