package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// AcceptanceStatus tracks the acceptance sub-state of an order, parallel to the
// main Status. A pending order is either awaiting acceptance, accepted by an
// admin, or auto-accepted by the sweeper once its deadline elapsed.
//
//	AcceptancePending ──> AcceptanceAccepted
//	        │
//	        └───────────> AcceptanceAutoAccepted
type AcceptanceStatus int

const (
	// AcceptanceUnknown represents an invalid or undefined acceptance status.
	AcceptanceUnknown AcceptanceStatus = iota

	// AcceptancePending means the order awaits a decision or its deadline.
	AcceptancePending

	// AcceptanceAccepted means an admin explicitly accepted the order.
	AcceptanceAccepted

	// AcceptanceAutoAccepted means the sweeper accepted the order after its
	// acceptance deadline elapsed.
	AcceptanceAutoAccepted
)

func getAcceptanceStatusStrings() map[AcceptanceStatus]string {
	return map[AcceptanceStatus]string{
		AcceptanceUnknown:      "unknown",
		AcceptancePending:      "pending_acceptance",
		AcceptanceAccepted:     "accepted",
		AcceptanceAutoAccepted: "auto_accepted",
	}
}

// Validate checks if the AcceptanceStatus value is valid.
func (s AcceptanceStatus) Validate() error {
	if s == AcceptanceUnknown {
		return errs.NewValueIsInvalidErrorWithCause("acceptance status is invalid",
			fmt.Errorf("%d is not a valid acceptance status", s))
	}
	if _, ok := getAcceptanceStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("acceptance status is invalid",
			fmt.Errorf("%d is not a valid acceptance status", s))
	}
	return nil
}

// String returns the wire name, e.g. "pending_acceptance".
func (s AcceptanceStatus) String() string {
	if str, ok := getAcceptanceStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// AcceptanceStatusFromString parses a wire name back into an AcceptanceStatus.
func AcceptanceStatusFromString(s string) (AcceptanceStatus, error) {
	for status, name := range getAcceptanceStatusStrings() {
		if status != AcceptanceUnknown && name == s {
			return status, nil
		}
	}
	return AcceptanceUnknown, errs.NewValueIsInvalidErrorWithCause("acceptance status is invalid",
		fmt.Errorf("%q is not a valid acceptance status name", s))
}
