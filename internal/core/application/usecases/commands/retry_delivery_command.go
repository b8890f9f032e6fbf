package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRetryDeliveryCommandIsNotConstructed = errors.New(
	"RetryDeliveryCommand must be created via NewRetryDeliveryCommand constructor",
)

// ErrRetryBudgetExhausted is returned when a delivery has already consumed the
// webhook's attempt budget and may not be replayed again.
var ErrRetryBudgetExhausted = errors.New("delivery retry budget exhausted")

// RetryDeliveryCommand represents an admin manually replaying a recorded
// webhook delivery. Retries are always explicit; the engine never retries on
// its own.
type RetryDeliveryCommand struct { //nolint:recvcheck //using for validation
	actor      kernel.Actor
	tenantID   kernel.UUID
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRetryDeliveryCommand creates a command to retry a delivery.
func NewRetryDeliveryCommand(
	actor kernel.Actor, tenantID, deliveryID kernel.UUID,
) (RetryDeliveryCommand, error) {
	cmd := RetryDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor, tenantID),
		cmd.setDeliveryID(deliveryID),
	); err != nil {
		return RetryDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RetryDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrRetryDeliveryCommandIsNotConstructed)
}

// Actor returns the retrying admin.
func (c RetryDeliveryCommand) Actor() kernel.Actor { return c.actor }

// TenantID returns the tenant scope of the operation.
func (c RetryDeliveryCommand) TenantID() kernel.UUID { return c.tenantID }

// DeliveryID returns the delivery row to replay.
func (c RetryDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }

func (c *RetryDeliveryCommand) setActor(actor kernel.Actor, tenantID kernel.UUID) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if err := tenantID.Validate(); err != nil {
		return err
	}
	if actor.Kind() != kernel.ActorAdmin || !actor.CanManageTenant(tenantID) {
		return errs.NewAccessForbiddenError("delivery retry")
	}

	c.actor = actor
	c.tenantID = tenantID
	return nil
}

func (c *RetryDeliveryCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}
