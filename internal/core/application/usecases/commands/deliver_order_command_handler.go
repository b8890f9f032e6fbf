package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/metrics"
)

// DeliverOrderCommandHandler completes an order. Besides the transition it
// credits the customer's loyalty balance: floor(total / 100) points, written
// with a ledger row in the same transaction as the status change. The ledger
// row is written for every delivery, zero-point orders included.
type DeliverOrderCommandHandler struct {
	uowFactory DeliverOrderUoWFactory
	dispatcher ports.EventDispatcher
}

// NewDeliverOrderCommandHandler creates a handler for order completion.
func NewDeliverOrderCommandHandler(uowFactory DeliverOrderUoWFactory, dispatcher ports.EventDispatcher) DeliverOrderCommandHandler {
	return DeliverOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
	}
}

// Handle processes the completion command.
func (h *DeliverOrderCommandHandler) Handle(ctx context.Context, cmd DeliverOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.TenantID(), cmd.OrderID())
	if err != nil {
		return err
	}

	previous := aggregate.Status()
	if err = aggregate.Deliver(cmd.PaymentStatus()); err != nil {
		return err
	}

	now := time.Now()
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}
	if err = orderRepo.AddHistory(ctx, order.NewAdminTransitionRecord(
		aggregate.ID(), previous, aggregate.Status(), cmd.Actor().AdminID(), cmd.Actor().DisplayName(), "", now,
	)); err != nil {
		return err
	}

	// Every delivery leaves a ledger row, zero-point orders included.
	if err = uow.LoyaltyRepository().Credit(
		ctx, aggregate.TenantID(), aggregate.CustomerID(), aggregate.ID(), aggregate.LoyaltyPoints(),
	); err != nil {
		return err
	}

	if err = uow.NotificationRepository().Add(ctx, notification.NewStatusChangedForCustomer(aggregate, now)); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	metrics.OrderTransitions.WithLabelValues(aggregate.Status().String()).Inc()
	h.dispatcher.Enqueue(statusChangedEnvelope(aggregate, previous, now))
	return nil
}
