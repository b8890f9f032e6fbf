package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions so orders follow
// the fulfillment workflow.
//
// State transitions:
//
//	Pending ──> Accepted ──> Packed ──> Dispatched ──> Delivered
//	                │                                      ▲
//	                └──────> ReadyForPickup ───────────────┘
//	                          (pickup orders)
//
// Cancelled is reachable from every state except Delivered and Cancelled.
// Delivered and Cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status when an order is placed.
	// Orders in this status await manual or automatic acceptance.
	Pending

	// Accepted indicates the tenant has taken the order on.
	Accepted

	// Packed indicates the order has been packed for courier delivery.
	Packed

	// Dispatched indicates the order has been handed to a courier.
	Dispatched

	// ReadyForPickup indicates a pickup order awaits collection.
	ReadyForPickup

	// Delivered indicates the order reached the customer. Terminal.
	Delivered

	// Cancelled indicates the order was aborted before delivery. Terminal.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		Accepted:       "accepted",
		Packed:         "packed",
		Dispatched:     "dispatched",
		ReadyForPickup: "ready_for_pickup",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:        "pending",
		Accepted:       "accepted",
		Packed:         "packed",
		Dispatched:     "dispatched",
		ReadyForPickup: "ready_for_pickup",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
	}
}

// Validate checks if the Status value is valid.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, e.g. "ready_for_pickup".
// Implements fmt.Stringer; safe to call on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// StatusFromString parses a wire name back into a Status.
func StatusFromString(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a valid status name", s))
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// Accept transitions the status to Accepted.
//
// Valid transitions:
//   - Pending -> Accepted
func (s Status) Accept() (Status, error) {
	if s != Pending {
		return 0, transitionError(s, Accepted)
	}
	return Accepted, nil
}

// Pack transitions the status to Packed. Only delivery orders pass through
// this stage; the aggregate enforces the delivery-type guard.
//
// Valid transitions:
//   - Accepted -> Packed
func (s Status) Pack() (Status, error) {
	if s != Accepted {
		return 0, transitionError(s, Packed)
	}
	return Packed, nil
}

// SendOut transitions the status to Dispatched.
//
// Valid transitions:
//   - Packed -> Dispatched
func (s Status) SendOut() (Status, error) {
	if s != Packed {
		return 0, transitionError(s, Dispatched)
	}
	return Dispatched, nil
}

// MarkReadyForPickup transitions the status to ReadyForPickup.
// The packed/dispatched stages are skipped for pickup orders.
//
// Valid transitions:
//   - Accepted -> ReadyForPickup
func (s Status) MarkReadyForPickup() (Status, error) {
	if s != Accepted {
		return 0, transitionError(s, ReadyForPickup)
	}
	return ReadyForPickup, nil
}

// Deliver transitions the status to Delivered, the terminal success state.
//
// Valid transitions:
//   - Dispatched -> Delivered (delivery orders)
//   - ReadyForPickup -> Delivered (pickup orders)
func (s Status) Deliver() (Status, error) {
	if s != Dispatched && s != ReadyForPickup {
		return 0, transitionError(s, Delivered)
	}
	return Delivered, nil
}

// Cancel transitions the status to Cancelled.
// Allowed from every pre-delivered, non-terminal state.
func (s Status) Cancel() (Status, error) {
	if s.IsTerminal() {
		return 0, transitionError(s, Cancelled)
	}
	if err := s.Validate(); err != nil {
		return 0, err
	}
	return Cancelled, nil
}

func transitionError(from, to Status) error {
	return errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%s is not a valid status to transition to %s", from, to))
}
