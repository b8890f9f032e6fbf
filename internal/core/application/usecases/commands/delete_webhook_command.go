package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrDeleteWebhookCommandIsNotConstructed = errors.New(
	"DeleteWebhookCommand must be created via NewDeleteWebhookCommand constructor",
)

// DeleteWebhookCommand represents an admin removing a webhook registration.
type DeleteWebhookCommand struct { //nolint:recvcheck //using for validation
	actor     kernel.Actor
	tenantID  kernel.UUID
	webhookID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDeleteWebhookCommand creates a command to delete a webhook.
func NewDeleteWebhookCommand(
	actor kernel.Actor, tenantID, webhookID kernel.UUID,
) (DeleteWebhookCommand, error) {
	cmd := DeleteWebhookCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor, tenantID),
		cmd.setWebhookID(webhookID),
	); err != nil {
		return DeleteWebhookCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DeleteWebhookCommand) Validate() error {
	return c.guard.Validate(ErrDeleteWebhookCommandIsNotConstructed)
}

// Actor returns the deleting admin.
func (c DeleteWebhookCommand) Actor() kernel.Actor { return c.actor }

// TenantID returns the tenant scope of the operation.
func (c DeleteWebhookCommand) TenantID() kernel.UUID { return c.tenantID }

// WebhookID returns the webhook to delete.
func (c DeleteWebhookCommand) WebhookID() kernel.UUID { return c.webhookID }

func (c *DeleteWebhookCommand) setActor(actor kernel.Actor, tenantID kernel.UUID) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if err := tenantID.Validate(); err != nil {
		return err
	}
	if actor.Kind() != kernel.ActorAdmin || !actor.CanManageTenant(tenantID) {
		return errs.NewAccessForbiddenError("webhook deletion")
	}

	c.actor = actor
	c.tenantID = tenantID
	return nil
}

func (c *DeleteWebhookCommand) setWebhookID(webhookID kernel.UUID) error {
	if err := webhookID.Validate(); err != nil {
		return err
	}

	c.webhookID = webhookID
	return nil
}
