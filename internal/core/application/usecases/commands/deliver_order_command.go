package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrDeliverOrderCommandIsNotConstructed = errors.New(
	"DeliverOrderCommand must be created via NewDeliverOrderCommand constructor",
)

// DeliverOrderCommand represents an admin completing an order: handed to the
// customer by the courier or collected at the store.
type DeliverOrderCommand struct { //nolint:recvcheck //using for validation
	actor         kernel.Actor
	tenantID      kernel.UUID
	orderID       kernel.UUID
	paymentStatus order.PaymentStatus

	guard guard.ConstructorGuard
}

// NewDeliverOrderCommand creates a command to complete an order. An empty
// payment status defaults to completed at the aggregate.
func NewDeliverOrderCommand(
	actor kernel.Actor,
	tenantID, orderID kernel.UUID,
	paymentStatus order.PaymentStatus,
) (DeliverOrderCommand, error) {
	cmd := DeliverOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor, tenantID),
		cmd.setOrderID(orderID),
	); err != nil {
		return DeliverOrderCommand{}, err
	}

	if paymentStatus != "" {
		if err := paymentStatus.Validate(); err != nil {
			return DeliverOrderCommand{}, err
		}
	}
	cmd.paymentStatus = paymentStatus
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DeliverOrderCommand) Validate() error {
	return c.guard.Validate(ErrDeliverOrderCommandIsNotConstructed)
}

// Actor returns the admin completing the order.
func (c DeliverOrderCommand) Actor() kernel.Actor { return c.actor }

// TenantID returns the tenant scope of the operation.
func (c DeliverOrderCommand) TenantID() kernel.UUID { return c.tenantID }

// OrderID returns the order to complete.
func (c DeliverOrderCommand) OrderID() kernel.UUID { return c.orderID }

// PaymentStatus returns the recorded payment outcome; empty means completed.
func (c DeliverOrderCommand) PaymentStatus() order.PaymentStatus { return c.paymentStatus }

func (c *DeliverOrderCommand) setActor(actor kernel.Actor, tenantID kernel.UUID) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if err := tenantID.Validate(); err != nil {
		return err
	}
	if actor.Kind() != kernel.ActorAdmin || !actor.CanManageTenant(tenantID) {
		return errs.NewAccessForbiddenError("order delivery")
	}

	c.actor = actor
	c.tenantID = tenantID
	return nil
}

func (c *DeliverOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
