package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand represents an admin aborting an order before delivery.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	actor    kernel.Actor
	tenantID kernel.UUID
	orderID  kernel.UUID
	reason   string

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand creates a command to cancel an order. The optional
// reason is written to the status ledger.
func NewCancelOrderCommand(
	actor kernel.Actor,
	tenantID, orderID kernel.UUID,
	reason string,
) (CancelOrderCommand, error) {
	cmd := CancelOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor, tenantID),
		cmd.setOrderID(orderID),
	); err != nil {
		return CancelOrderCommand{}, err
	}

	cmd.reason = reason
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

// Actor returns the cancelling admin.
func (c CancelOrderCommand) Actor() kernel.Actor { return c.actor }

// TenantID returns the tenant scope of the operation.
func (c CancelOrderCommand) TenantID() kernel.UUID { return c.tenantID }

// OrderID returns the order to cancel.
func (c CancelOrderCommand) OrderID() kernel.UUID { return c.orderID }

// Reason returns the cancellation reason for the ledger.
func (c CancelOrderCommand) Reason() string { return c.reason }

func (c *CancelOrderCommand) setActor(actor kernel.Actor, tenantID kernel.UUID) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if err := tenantID.Validate(); err != nil {
		return err
	}
	if actor.Kind() != kernel.ActorAdmin || !actor.CanManageTenant(tenantID) {
		return errs.NewAccessForbiddenError("order cancellation")
	}

	c.actor = actor
	c.tenantID = tenantID
	return nil
}

func (c *CancelOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
