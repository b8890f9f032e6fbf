package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// PlaceOrderItem is one requested order line as submitted by the client.
type PlaceOrderItem struct {
	ProductID      kernel.UUID
	Name           string
	Quantity       int
	UnitPriceCents int64
}

// PlaceOrderCommand represents a customer's request to place a new order.
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	actor        kernel.Actor
	tenantID     kernel.UUID
	items        []PlaceOrderItem
	deliveryType order.DeliveryType
	address      string
	phone        string
	notes        string

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand creates a command to place an order. The actor must be
// a customer of the tenant; courier deliveries require an address.
func NewPlaceOrderCommand(
	actor kernel.Actor,
	tenantID kernel.UUID,
	items []PlaceOrderItem,
	deliveryType order.DeliveryType,
	address, phone, notes string,
) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor, tenantID),
		cmd.setItems(items),
		cmd.setDeliveryType(deliveryType, address),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	cmd.address = address
	cmd.phone = phone
	cmd.notes = notes
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

// Actor returns the customer placing the order.
func (c PlaceOrderCommand) Actor() kernel.Actor { return c.actor }

// TenantID returns the tenant the order is placed with.
func (c PlaceOrderCommand) TenantID() kernel.UUID { return c.tenantID }

// Items returns the requested order lines.
func (c PlaceOrderCommand) Items() []PlaceOrderItem { return c.items }

// DeliveryType returns the requested fulfillment mode.
func (c PlaceOrderCommand) DeliveryType() order.DeliveryType { return c.deliveryType }

// Address returns the delivery address.
func (c PlaceOrderCommand) Address() string { return c.address }

// Phone returns the contact phone number.
func (c PlaceOrderCommand) Phone() string { return c.phone }

// Notes returns the free-form customer notes.
func (c PlaceOrderCommand) Notes() string { return c.notes }

func (c *PlaceOrderCommand) setActor(actor kernel.Actor, tenantID kernel.UUID) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if err := tenantID.Validate(); err != nil {
		return err
	}
	if actor.Kind() != kernel.ActorCustomer || !actor.TenantID().IsEqual(tenantID) {
		return errs.NewAccessForbiddenError("order placement")
	}

	c.actor = actor
	c.tenantID = tenantID
	return nil
}

func (c *PlaceOrderCommand) setItems(items []PlaceOrderItem) error {
	if len(items) == 0 {
		return order.ErrItemsAreRequired
	}
	for _, item := range items {
		if err := item.ProductID.Validate(); err != nil {
			return err
		}
		if item.Name == "" {
			return errs.NewValueIsRequiredError("item name")
		}
		if item.Quantity <= 0 {
			return errs.NewValueIsInvalidError("item quantity")
		}
		if item.UnitPriceCents < 0 {
			return errs.NewValueIsInvalidError("item unit price")
		}
	}

	c.items = items
	return nil
}

func (c *PlaceOrderCommand) setDeliveryType(deliveryType order.DeliveryType, address string) error {
	if err := deliveryType.Validate(); err != nil {
		return err
	}
	if deliveryType == order.DeliveryTypeCourier && address == "" {
		return errs.NewValueIsRequiredError("delivery address")
	}

	c.deliveryType = deliveryType
	return nil
}
