package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/metrics"
)

// AutoAcceptOrdersCommandHandler sweeps orders past their acceptance deadline
// and accepts them on the tenant's behalf.
//
// Each order is processed in its own transaction so one poisoned row cannot
// stall the rest of the batch. The conditional acceptance claim makes the
// sweep safe against a concurrently arriving manual accept: a lost claim is
// skipped silently.
type AutoAcceptOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	dispatcher ports.EventDispatcher
}

// NewAutoAcceptOrdersCommandHandler creates a handler for the acceptance sweep.
func NewAutoAcceptOrdersCommandHandler(
	uowFactory OrderUoWFactory, dispatcher ports.EventDispatcher,
) AutoAcceptOrdersCommandHandler {
	return AutoAcceptOrdersCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
	}
}

// Handle runs one sweep and returns how many orders were auto-accepted.
func (h *AutoAcceptOrdersCommandHandler) Handle(ctx context.Context, cmd AutoAcceptOrdersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	refs, err := h.expiredRefs(ctx, cmd.BatchSize())
	if err != nil {
		return 0, err
	}

	accepted := 0
	for _, ref := range refs {
		ok, err := h.acceptOne(ctx, ref)
		if err != nil {
			return accepted, err
		}
		if ok {
			accepted++
		}
	}
	return accepted, nil
}

func (h *AutoAcceptOrdersCommandHandler) expiredRefs(ctx context.Context, limit int) ([]ports.PendingOrderRef, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	refs, err := uow.OrderRepository().GetExpiredPendingRefs(ctx, time.Now(), limit)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return refs, nil
}

// acceptOne processes a single expired order. Returns false without error when
// the claim was lost to a manual accept.
func (h *AutoAcceptOrdersCommandHandler) acceptOne(ctx context.Context, ref ports.PendingOrderRef) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	claimed, err := orderRepo.ClaimAcceptance(ctx, ref.TenantID, ref.OrderID)
	if err != nil {
		return false, err
	}
	if !claimed {
		return false, nil
	}

	aggregate, err := orderRepo.Get(ctx, ref.TenantID, ref.OrderID)
	if err != nil {
		return false, err
	}

	previous := aggregate.Status()
	now := time.Now()
	if err = aggregate.AutoAccept(now); err != nil {
		return false, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return false, err
	}
	if err = orderRepo.AddHistory(ctx, order.NewSystemTransitionRecord(
		aggregate.ID(), previous, aggregate.Status(), order.AutoAcceptNote, now,
	)); err != nil {
		return false, err
	}

	notificationRepo := uow.NotificationRepository()
	if err = notificationRepo.Add(ctx, notification.NewStatusChangedForCustomer(aggregate, now)); err != nil {
		return false, err
	}
	if err = notificationRepo.Add(ctx, notification.NewAutoAcceptedForAdmins(aggregate, now)); err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	metrics.OrdersAutoAccepted.Inc()
	metrics.OrderTransitions.WithLabelValues(aggregate.Status().String()).Inc()
	h.dispatcher.Enqueue(statusChangedEnvelope(aggregate, previous, now))
	return true, nil
}
