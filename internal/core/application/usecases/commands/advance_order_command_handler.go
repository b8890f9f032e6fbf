package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/metrics"
)

// AdvanceOrderCommandHandler applies the mid-lifecycle transitions: pack,
// send out, ready for pickup. The aggregate enforces which of them the order's
// delivery type and current status permit.
type AdvanceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	dispatcher ports.EventDispatcher
}

// NewAdvanceOrderCommandHandler creates a handler for the mid-lifecycle
// transitions.
func NewAdvanceOrderCommandHandler(uowFactory OrderUoWFactory, dispatcher ports.EventDispatcher) AdvanceOrderCommandHandler {
	return AdvanceOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
	}
}

// Handle processes the transition command.
func (h *AdvanceOrderCommandHandler) Handle(ctx context.Context, cmd AdvanceOrderCommand) error {
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
	switch cmd.Stage() {
	case StagePack:
		err = aggregate.Pack()
	case StageSendOut:
		err = aggregate.SendOut(cmd.TrackingNumber())
	case StageReadyForPickup:
		err = aggregate.ReadyForPickup()
	default:
		err = errs.NewValueIsInvalidError("advance stage")
	}
	if err != nil {
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
