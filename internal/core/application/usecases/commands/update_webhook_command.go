package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateWebhookCommandIsNotConstructed = errors.New(
	"UpdateWebhookCommand must be created via NewUpdateWebhookCommand constructor",
)

// UpdateWebhookCommand represents a typed partial update of a webhook's
// configuration. The signing secret is never updatable.
type UpdateWebhookCommand struct { //nolint:recvcheck //using for validation
	actor     kernel.Actor
	tenantID  kernel.UUID
	webhookID kernel.UUID
	patch     webhook.UpdatePatch

	guard guard.ConstructorGuard
}

// NewUpdateWebhookCommand creates a command to update a webhook. Patch fields
// left nil are preserved.
func NewUpdateWebhookCommand(
	actor kernel.Actor,
	tenantID, webhookID kernel.UUID,
	patch webhook.UpdatePatch,
) (UpdateWebhookCommand, error) {
	cmd := UpdateWebhookCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor, tenantID),
		cmd.setWebhookID(webhookID),
	); err != nil {
		return UpdateWebhookCommand{}, err
	}

	cmd.patch = patch
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateWebhookCommand) Validate() error {
	return c.guard.Validate(ErrUpdateWebhookCommandIsNotConstructed)
}

// Actor returns the updating admin.
func (c UpdateWebhookCommand) Actor() kernel.Actor { return c.actor }

// TenantID returns the tenant scope of the operation.
func (c UpdateWebhookCommand) TenantID() kernel.UUID { return c.tenantID }

// WebhookID returns the webhook to update.
func (c UpdateWebhookCommand) WebhookID() kernel.UUID { return c.webhookID }

// Patch returns the partial update to apply.
func (c UpdateWebhookCommand) Patch() webhook.UpdatePatch { return c.patch }

func (c *UpdateWebhookCommand) setActor(actor kernel.Actor, tenantID kernel.UUID) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if err := tenantID.Validate(); err != nil {
		return err
	}
	if actor.Kind() != kernel.ActorAdmin || !actor.CanManageTenant(tenantID) {
		return errs.NewAccessForbiddenError("webhook update")
	}

	c.actor = actor
	c.tenantID = tenantID
	return nil
}

func (c *UpdateWebhookCommand) setWebhookID(webhookID kernel.UUID) error {
	if err := webhookID.Validate(); err != nil {
		return err
	}

	c.webhookID = webhookID
	return nil
}
