package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrAdvanceOrderCommandIsNotConstructed = errors.New(
	"AdvanceOrderCommand must be created via one of its constructors",
)

// AdvanceStage is the mid-lifecycle transition an AdvanceOrderCommand applies.
type AdvanceStage int

const (
	StageUnknown AdvanceStage = iota
	StagePack
	StageSendOut
	StageReadyForPickup
)

// AdvanceOrderCommand represents an admin moving an accepted order through one
// of the mid-lifecycle fulfillment stages: packed, dispatched, or ready for
// pickup. The three share a command because their handling is identical apart
// from the aggregate method applied.
type AdvanceOrderCommand struct { //nolint:recvcheck //using for validation
	actor          kernel.Actor
	tenantID       kernel.UUID
	orderID        kernel.UUID
	stage          AdvanceStage
	trackingNumber string

	guard guard.ConstructorGuard
}

// NewPackOrderCommand creates a command to mark a courier order as packed.
func NewPackOrderCommand(actor kernel.Actor, tenantID, orderID kernel.UUID) (AdvanceOrderCommand, error) {
	return newAdvanceOrderCommand(actor, tenantID, orderID, StagePack, "")
}

// NewSendOutOrderCommand creates a command to hand a packed order to the
// courier, optionally recording a tracking number.
func NewSendOutOrderCommand(
	actor kernel.Actor, tenantID, orderID kernel.UUID, trackingNumber string,
) (AdvanceOrderCommand, error) {
	return newAdvanceOrderCommand(actor, tenantID, orderID, StageSendOut, trackingNumber)
}

// NewReadyForPickupOrderCommand creates a command to mark a pickup order as
// awaiting collection.
func NewReadyForPickupOrderCommand(actor kernel.Actor, tenantID, orderID kernel.UUID) (AdvanceOrderCommand, error) {
	return newAdvanceOrderCommand(actor, tenantID, orderID, StageReadyForPickup, "")
}

func newAdvanceOrderCommand(
	actor kernel.Actor,
	tenantID, orderID kernel.UUID,
	stage AdvanceStage,
	trackingNumber string,
) (AdvanceOrderCommand, error) {
	cmd := AdvanceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor, tenantID),
		cmd.setOrderID(orderID),
	); err != nil {
		return AdvanceOrderCommand{}, err
	}

	cmd.stage = stage
	cmd.trackingNumber = trackingNumber
	return cmd, nil
}

// Validate ensures the command was created through a constructor.
func (c AdvanceOrderCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrderCommandIsNotConstructed)
}

// Actor returns the admin performing the transition.
func (c AdvanceOrderCommand) Actor() kernel.Actor { return c.actor }

// TenantID returns the tenant scope of the operation.
func (c AdvanceOrderCommand) TenantID() kernel.UUID { return c.tenantID }

// OrderID returns the order to advance.
func (c AdvanceOrderCommand) OrderID() kernel.UUID { return c.orderID }

// Stage returns the targeted fulfillment stage.
func (c AdvanceOrderCommand) Stage() AdvanceStage { return c.stage }

// TrackingNumber returns the tracking number for send-out commands.
func (c AdvanceOrderCommand) TrackingNumber() string { return c.trackingNumber }

func (c *AdvanceOrderCommand) setActor(actor kernel.Actor, tenantID kernel.UUID) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if err := tenantID.Validate(); err != nil {
		return err
	}
	if actor.Kind() != kernel.ActorAdmin || !actor.CanManageTenant(tenantID) {
		return errs.NewAccessForbiddenError("order transition")
	}

	c.actor = actor
	c.tenantID = tenantID
	return nil
}

func (c *AdvanceOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
