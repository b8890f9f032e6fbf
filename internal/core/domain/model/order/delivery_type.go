package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// DeliveryType distinguishes courier-delivered orders from customer pickups.
// Pickup orders skip the packed/dispatched stages and move straight from
// accepted to ready_for_pickup.
type DeliveryType int

const (
	// DeliveryTypeUnknown represents an invalid or undefined delivery type.
	DeliveryTypeUnknown DeliveryType = iota

	// DeliveryTypeCourier is a courier-delivered order.
	DeliveryTypeCourier

	// DeliveryTypePickup is a customer-collected order.
	DeliveryTypePickup
)

func getDeliveryTypeStrings() map[DeliveryType]string {
	return map[DeliveryType]string{
		DeliveryTypeUnknown: "unknown",
		DeliveryTypeCourier: "delivery",
		DeliveryTypePickup:  "pickup",
	}
}

// Validate checks if the DeliveryType value is valid.
func (t DeliveryType) Validate() error {
	if t != DeliveryTypeCourier && t != DeliveryTypePickup {
		return errs.NewValueIsInvalidErrorWithCause("delivery type is invalid",
			fmt.Errorf("%d is not a valid delivery type", t))
	}
	return nil
}

// String returns the wire name, "delivery" or "pickup".
func (t DeliveryType) String() string {
	if str, ok := getDeliveryTypeStrings()[t]; ok {
		return str
	}
	return "unknown"
}

// DeliveryTypeFromString parses a wire name back into a DeliveryType.
func DeliveryTypeFromString(s string) (DeliveryType, error) {
	switch s {
	case "delivery":
		return DeliveryTypeCourier, nil
	case "pickup":
		return DeliveryTypePickup, nil
	default:
		return DeliveryTypeUnknown, errs.NewValueIsInvalidErrorWithCause("delivery type is invalid",
			fmt.Errorf("%q is not a valid delivery type name", s))
	}
}

// PaymentStatus is the payment state carried on the order. Payment processing
// itself happens outside the core; the state machine only records the outcome.
type PaymentStatus string

const (
	// PaymentPending means payment has not been confirmed yet.
	PaymentPending PaymentStatus = "pending"

	// PaymentCompleted means payment settled successfully.
	PaymentCompleted PaymentStatus = "completed"

	// PaymentFailed means payment did not settle.
	PaymentFailed PaymentStatus = "failed"
)

// Validate checks if the PaymentStatus value is valid.
func (p PaymentStatus) Validate() error {
	switch p {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payment status is invalid",
			fmt.Errorf("%q is not a valid payment status", string(p)))
	}
}
