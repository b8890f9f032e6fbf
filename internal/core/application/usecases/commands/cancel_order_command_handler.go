package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/metrics"
)

// CancelOrderCommandHandler aborts an order from any pre-delivered state.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	dispatcher ports.EventDispatcher
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, dispatcher ports.EventDispatcher) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
	}
}

// Handle processes the cancellation command.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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
	if err = aggregate.Cancel(); err != nil {
		return err
	}

	now := time.Now()
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}
	if err = orderRepo.AddHistory(ctx, order.NewAdminTransitionRecord(
		aggregate.ID(), previous, aggregate.Status(), cmd.Actor().AdminID(), cmd.Actor().DisplayName(), cmd.Reason(), now,
	)); err != nil {
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
