package commands

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrAcceptOrderCommandIsNotConstructed = errors.New(
		"AcceptOrderCommand must be created via NewAcceptOrderCommand constructor",
	)

	// ErrOrderAlreadyClaimed is returned when a concurrent worker won the
	// acceptance race: the order is no longer pending acceptance.
	ErrOrderAlreadyClaimed = errors.New("order was already accepted or is no longer pending")
)

// AcceptOrderCommand represents an admin's manual confirmation of a pending
// order.
type AcceptOrderCommand struct { //nolint:recvcheck //using for validation
	actor                 kernel.Actor
	tenantID              kernel.UUID
	orderID               kernel.UUID
	estimatedDeliveryTime *time.Time

	guard guard.ConstructorGuard
}

// NewAcceptOrderCommand creates a command to accept a pending order. The actor
// must be an admin with management rights over the tenant.
func NewAcceptOrderCommand(
	actor kernel.Actor,
	tenantID, orderID kernel.UUID,
	estimatedDeliveryTime *time.Time,
) (AcceptOrderCommand, error) {
	cmd := AcceptOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor, tenantID),
		cmd.setOrderID(orderID),
	); err != nil {
		return AcceptOrderCommand{}, err
	}

	cmd.estimatedDeliveryTime = estimatedDeliveryTime
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptOrderCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOrderCommandIsNotConstructed)
}

// Actor returns the accepting admin.
func (c AcceptOrderCommand) Actor() kernel.Actor { return c.actor }

// TenantID returns the tenant scope of the operation.
func (c AcceptOrderCommand) TenantID() kernel.UUID { return c.tenantID }

// OrderID returns the order to accept.
func (c AcceptOrderCommand) OrderID() kernel.UUID { return c.orderID }

// EstimatedDeliveryTime returns the optional delivery estimate.
func (c AcceptOrderCommand) EstimatedDeliveryTime() *time.Time { return c.estimatedDeliveryTime }

func (c *AcceptOrderCommand) setActor(actor kernel.Actor, tenantID kernel.UUID) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if err := tenantID.Validate(); err != nil {
		return err
	}
	if actor.Kind() != kernel.ActorAdmin || !actor.CanManageTenant(tenantID) {
		return errs.NewAccessForbiddenError("order acceptance")
	}

	c.actor = actor
	c.tenantID = tenantID
	return nil
}

func (c *AcceptOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
