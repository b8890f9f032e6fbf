package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/metrics"
)

// AcceptOrderCommandHandler handles manual order acceptance.
//
// Acceptance races with the auto-accept sweeper, so the handler first claims
// the order with a conditional check that locks the row. A lost claim is
// surfaced to the admin as ErrOrderAlreadyClaimed so the client can refresh.
type AcceptOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	dispatcher ports.EventDispatcher
}

// NewAcceptOrderCommandHandler creates a handler for manual order acceptance.
func NewAcceptOrderCommandHandler(uowFactory OrderUoWFactory, dispatcher ports.EventDispatcher) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
	}
}

// Handle processes the acceptance command.
func (h *AcceptOrderCommandHandler) Handle(ctx context.Context, cmd AcceptOrderCommand) error {
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
	claimed, err := orderRepo.ClaimAcceptance(ctx, cmd.TenantID(), cmd.OrderID())
	if err != nil {
		return err
	}
	if !claimed {
		return ErrOrderAlreadyClaimed
	}

	aggregate, err := orderRepo.Get(ctx, cmd.TenantID(), cmd.OrderID())
	if err != nil {
		return err
	}

	previous := aggregate.Status()
	now := time.Now()
	if err = aggregate.Accept(cmd.Actor().AdminID(), now, cmd.EstimatedDeliveryTime()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}
	if err = orderRepo.AddHistory(ctx, order.NewAdminTransitionRecord(
		aggregate.ID(), previous, aggregate.Status(), cmd.Actor().AdminID(), cmd.Actor().DisplayName(), "", now,
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
