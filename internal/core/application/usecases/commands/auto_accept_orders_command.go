package commands

import (
	"errors"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrAutoAcceptOrdersCommandIsNotConstructed = errors.New(
	"AutoAcceptOrdersCommand must be created via NewAutoAcceptOrdersCommand constructor",
)

// DefaultAutoAcceptBatchSize caps how many expired orders one sweep processes.
const DefaultAutoAcceptBatchSize = 100

// AutoAcceptOrdersCommand represents one sweep over orders whose acceptance
// window elapsed without a manual confirmation.
type AutoAcceptOrdersCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

// NewAutoAcceptOrdersCommand creates a sweep command. batchSize caps the
// orders processed per run; zero uses the default.
func NewAutoAcceptOrdersCommand(batchSize int) (AutoAcceptOrdersCommand, error) {
	if batchSize < 0 {
		return AutoAcceptOrdersCommand{}, errs.NewValueIsInvalidError("batch size")
	}
	if batchSize == 0 {
		batchSize = DefaultAutoAcceptBatchSize
	}

	return AutoAcceptOrdersCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AutoAcceptOrdersCommand) Validate() error {
	return c.guard.Validate(ErrAutoAcceptOrdersCommandIsNotConstructed)
}

// BatchSize returns the per-sweep processing cap.
func (c AutoAcceptOrdersCommand) BatchSize() int { return c.batchSize }
