package order

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// DefaultAcceptanceTimer is the acceptance window granted to a tenant before
// the sweeper auto-accepts an order.
const DefaultAcceptanceTimer = 300 * time.Second

// AutoAcceptNote is the fixed note written to the history ledger when the
// sweeper auto-accepts an order past its deadline.
const AutoAcceptNote = "auto-accepted: acceptance window elapsed"

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrItemsAreRequired is returned when an order is placed with no items.
	ErrItemsAreRequired = errors.New("order must contain at least one item")

	// ErrPickupOrderHasNoCourierStages is returned when a pickup order is packed
	// or sent out, stages that only exist for courier deliveries.
	ErrPickupOrderHasNoCourierStages = errors.New("pickup orders skip the packed and dispatched stages")

	// ErrCourierOrderIsNotPickedUp is returned when a courier-delivered order is
	// marked ready for pickup.
	ErrCourierOrderIsNotPickedUp = errors.New("delivery orders cannot be marked ready for pickup")
)

// Order is the aggregate root of the fulfillment lifecycle. It owns the order
// status and acceptance sub-status, and enforces the transition rules between
// them.
//
// Invariants:
//   - An order always belongs to exactly one tenant and one customer
//   - The item list is non-empty and immutable after placement
//   - The total equals the sum of line totals, computed once at placement
//   - The acceptance deadline is set exactly once, at creation
//   - Status transitions follow the rules defined on Status
type Order struct {
	id         kernel.UUID
	tenantID   kernel.UUID
	customerID kernel.UUID

	// number is the tenant-scoped human-readable sequence number.
	number int64

	items []Item
	total kernel.Money

	status           Status
	acceptanceStatus AcceptanceStatus
	deliveryType     DeliveryType
	paymentStatus    PaymentStatus

	createdAt          time.Time
	acceptanceDeadline time.Time
	acceptedAt         *time.Time
	acceptedBy         *kernel.UUID
	autoAccepted       bool

	address        string
	phone          string
	notes          string
	trackingNumber string

	estimatedDeliveryTime *time.Time

	isConstructed bool
}

// NewOrder places a new order. The total is computed as the sum of line
// totals, status starts at Pending with acceptance pending, and the
// acceptance deadline is fixed to createdAt + acceptTimer.
func NewOrder(
	id, tenantID, customerID kernel.UUID,
	number int64,
	items []Item,
	deliveryType DeliveryType,
	address, phone, notes string,
	createdAt time.Time,
	acceptTimer time.Duration,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		tenantID.Validate(),
		customerID.Validate(),
		deliveryType.Validate(),
	); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrItemsAreRequired
	}
	if number <= 0 {
		return nil, errs.NewValueIsInvalidError("order number")
	}
	if acceptTimer <= 0 {
		acceptTimer = DefaultAcceptanceTimer
	}

	total := kernel.Zero()
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}

	return &Order{
		id:                 id,
		tenantID:           tenantID,
		customerID:         customerID,
		number:             number,
		items:              items,
		total:              total,
		status:             Pending,
		acceptanceStatus:   AcceptancePending,
		deliveryType:       deliveryType,
		paymentStatus:      PaymentPending,
		createdAt:          createdAt,
		acceptanceDeadline: createdAt.Add(acceptTimer),
		address:            address,
		phone:              phone,
		notes:              notes,
		isConstructed:      true,
	}, nil
}

// RestoreOrderParams carries the persisted state of an order for rehydration.
type RestoreOrderParams struct {
	ID                    kernel.UUID
	TenantID              kernel.UUID
	CustomerID            kernel.UUID
	Number                int64
	Items                 []Item
	Total                 kernel.Money
	Status                Status
	AcceptanceStatus      AcceptanceStatus
	DeliveryType          DeliveryType
	PaymentStatus         PaymentStatus
	CreatedAt             time.Time
	AcceptanceDeadline    time.Time
	AcceptedAt            *time.Time
	AcceptedBy            *kernel.UUID
	AutoAccepted          bool
	Address               string
	Phone                 string
	Notes                 string
	TrackingNumber        string
	EstimatedDeliveryTime *time.Time
}

// RestoreOrder reconstructs an order from persistence. Used only by
// repository implementations; validates the persisted state.
func RestoreOrder(p RestoreOrderParams) (*Order, error) {
	if err := errors.Join(
		p.ID.Validate(),
		p.TenantID.Validate(),
		p.CustomerID.Validate(),
		p.Status.Validate(),
		p.AcceptanceStatus.Validate(),
		p.DeliveryType.Validate(),
	); err != nil {
		return nil, err
	}
	if len(p.Items) == 0 {
		return nil, ErrItemsAreRequired
	}

	return &Order{
		id:                    p.ID,
		tenantID:              p.TenantID,
		customerID:            p.CustomerID,
		number:                p.Number,
		items:                 p.Items,
		total:                 p.Total,
		status:                p.Status,
		acceptanceStatus:      p.AcceptanceStatus,
		deliveryType:          p.DeliveryType,
		paymentStatus:         p.PaymentStatus,
		createdAt:             p.CreatedAt,
		acceptanceDeadline:    p.AcceptanceDeadline,
		acceptedAt:            p.AcceptedAt,
		acceptedBy:            p.AcceptedBy,
		autoAccepted:          p.AutoAccepted,
		address:               p.Address,
		phone:                 p.Phone,
		notes:                 p.Notes,
		trackingNumber:        p.TrackingNumber,
		estimatedDeliveryTime: p.EstimatedDeliveryTime,
		isConstructed:         true,
	}, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// TenantID returns the owning tenant.
func (o *Order) TenantID() kernel.UUID { return o.tenantID }

// CustomerID returns the customer who placed the order.
func (o *Order) CustomerID() kernel.UUID { return o.customerID }

// Number returns the tenant-scoped sequence number.
func (o *Order) Number() int64 { return o.number }

// Items returns the order lines. The returned slice must not be mutated.
func (o *Order) Items() []Item { return o.items }

// Total returns the order total, the sum of all line totals.
func (o *Order) Total() kernel.Money { return o.total }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// AcceptanceStatus returns the acceptance sub-state.
func (o *Order) AcceptanceStatus() AcceptanceStatus { return o.acceptanceStatus }

// DeliveryType returns whether the order is courier-delivered or a pickup.
func (o *Order) DeliveryType() DeliveryType { return o.deliveryType }

// PaymentStatus returns the recorded payment state.
func (o *Order) PaymentStatus() PaymentStatus { return o.paymentStatus }

// CreatedAt returns the placement timestamp.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// AcceptanceDeadline returns the timestamp after which the sweeper
// auto-accepts the order. Set exactly once, at creation.
func (o *Order) AcceptanceDeadline() time.Time { return o.acceptanceDeadline }

// AcceptedAt returns when the order was accepted; nil while pending.
func (o *Order) AcceptedAt() *time.Time { return o.acceptedAt }

// AcceptedBy returns the admin who accepted the order; nil for auto-accepts
// and while pending.
func (o *Order) AcceptedBy() *kernel.UUID { return o.acceptedBy }

// AutoAccepted reports whether the sweeper accepted the order.
func (o *Order) AutoAccepted() bool { return o.autoAccepted }

// Address returns the delivery address (empty for pickups).
func (o *Order) Address() string { return o.address }

// Phone returns the contact phone number.
func (o *Order) Phone() string { return o.phone }

// Notes returns the free-form customer notes.
func (o *Order) Notes() string { return o.notes }

// TrackingNumber returns the courier tracking number, if recorded.
func (o *Order) TrackingNumber() string { return o.trackingNumber }

// EstimatedDeliveryTime returns the admin-provided delivery estimate, if any.
func (o *Order) EstimatedDeliveryTime() *time.Time { return o.estimatedDeliveryTime }

// LoyaltyPoints returns the loyalty points this order earns on delivery:
// floor(total / 100) in major currency units.
func (o *Order) LoyaltyPoints() int64 {
	return o.total.LoyaltyPoints()
}

// Accept records a manual acceptance by the given admin.
//
// Business rules:
//   - The order must be in Pending status with acceptance pending
//   - Records who accepted and when; clears the auto-accepted flag
func (o *Order) Accept(adminID kernel.UUID, at time.Time, estimatedDeliveryTime *time.Time) error {
	if err := adminID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Accept()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.acceptanceStatus = AcceptanceAccepted
	o.acceptedAt = &at
	o.acceptedBy = &adminID
	o.autoAccepted = false
	o.estimatedDeliveryTime = estimatedDeliveryTime
	return nil
}

// AutoAccept records an acceptance performed by the sweeper after the
// acceptance deadline elapsed. No actor is recorded.
func (o *Order) AutoAccept(at time.Time) error {
	newStatus, err := o.status.Accept()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.acceptanceStatus = AcceptanceAutoAccepted
	o.acceptedAt = &at
	o.acceptedBy = nil
	o.autoAccepted = true
	return nil
}

// Pack marks a courier order as packed. Pickup orders skip this stage.
func (o *Order) Pack() error {
	if o.deliveryType == DeliveryTypePickup {
		return ErrPickupOrderHasNoCourierStages
	}

	newStatus, err := o.status.Pack()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// SendOut marks a courier order as dispatched, optionally recording the
// courier tracking number.
func (o *Order) SendOut(trackingNumber string) error {
	if o.deliveryType == DeliveryTypePickup {
		return ErrPickupOrderHasNoCourierStages
	}

	newStatus, err := o.status.SendOut()
	if err != nil {
		return err
	}

	o.status = newStatus
	if trackingNumber != "" {
		o.trackingNumber = trackingNumber
	}
	return nil
}

// ReadyForPickup marks a pickup order as awaiting collection.
func (o *Order) ReadyForPickup() error {
	if o.deliveryType != DeliveryTypePickup {
		return ErrCourierOrderIsNotPickedUp
	}

	newStatus, err := o.status.MarkReadyForPickup()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Deliver marks the order as delivered and records the payment outcome.
// An empty payment status defaults to completed.
func (o *Order) Deliver(paymentStatus PaymentStatus) error {
	if paymentStatus == "" {
		paymentStatus = PaymentCompleted
	}
	if err := paymentStatus.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.paymentStatus = paymentStatus
	return nil
}

// Cancel aborts the order. Allowed from any pre-delivered state.
func (o *Order) Cancel() error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}
