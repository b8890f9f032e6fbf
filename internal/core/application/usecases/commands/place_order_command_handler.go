package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/metrics"
)

// PlaceOrderResult carries the identifiers the client needs after placement.
type PlaceOrderResult struct {
	OrderID    kernel.UUID
	Number     int64
	TotalCents int64
	Status     order.Status
}

// PlaceOrderCommandHandler handles order placement: number allocation, the
// aggregate insert, the opening history row, stock decrements, and the
// placement notifications, all in one transaction. The order.placed event is
// enqueued only after the transaction commits.
type PlaceOrderCommandHandler struct {
	uowFactory  PlaceOrderUoWFactory
	dispatcher  ports.EventDispatcher
	acceptTimer time.Duration
}

// NewPlaceOrderCommandHandler creates a handler for order placement.
// acceptTimer is the tenant-wide acceptance window; zero uses the default.
func NewPlaceOrderCommandHandler(
	uowFactory PlaceOrderUoWFactory,
	dispatcher ports.EventDispatcher,
	acceptTimer time.Duration,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory:  uowFactory,
		dispatcher:  dispatcher,
		acceptTimer: acceptTimer,
	}
}

// Handle processes the placement command and returns the created order's
// identifiers.
func (h *PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (PlaceOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return PlaceOrderResult{}, err
	}

	items := make([]order.Item, 0, len(cmd.Items()))
	for _, line := range cmd.Items() {
		unitPrice, err := kernel.NewMoney(line.UnitPriceCents)
		if err != nil {
			return PlaceOrderResult{}, err
		}
		item, err := order.NewItem(line.ProductID, line.Name, line.Quantity, unitPrice)
		if err != nil {
			return PlaceOrderResult{}, err
		}
		items = append(items, item)
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return PlaceOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	number, err := orderRepo.NextNumber(ctx, cmd.TenantID())
	if err != nil {
		return PlaceOrderResult{}, err
	}

	now := time.Now()
	aggregate, err := order.NewOrder(
		kernel.NewUUID(), cmd.TenantID(), cmd.Actor().CustomerID(),
		number, items, cmd.DeliveryType(),
		cmd.Address(), cmd.Phone(), cmd.Notes(),
		now, h.acceptTimer,
	)
	if err != nil {
		return PlaceOrderResult{}, err
	}

	if err = orderRepo.Add(ctx, aggregate); err != nil {
		return PlaceOrderResult{}, err
	}
	if err = orderRepo.AddHistory(ctx, order.NewPlacementRecord(aggregate.ID(), now)); err != nil {
		return PlaceOrderResult{}, err
	}
	if err = uow.InventoryRepository().DecrementStock(ctx, cmd.TenantID(), items); err != nil {
		return PlaceOrderResult{}, err
	}

	notificationRepo := uow.NotificationRepository()
	if err = notificationRepo.Add(ctx, notification.NewOrderPlacedForCustomer(aggregate, now)); err != nil {
		return PlaceOrderResult{}, err
	}
	if err = notificationRepo.Add(ctx, notification.NewOrderPlacedForAdmins(aggregate, now)); err != nil {
		return PlaceOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return PlaceOrderResult{}, err
	}

	metrics.OrdersPlaced.Inc()
	h.dispatcher.Enqueue(placedEnvelope(aggregate, now))

	return PlaceOrderResult{
		OrderID:    aggregate.ID(),
		Number:     aggregate.Number(),
		TotalCents: aggregate.Total().Cents(),
		Status:     aggregate.Status(),
	}, nil
}

func placedEnvelope(aggregate *order.Order, at time.Time) event.Envelope {
	envelope, _ := event.NewEnvelope(aggregate.TenantID(), event.OrderPlaced, at, map[string]any{
		"order_id":     aggregate.ID().String(),
		"order_number": aggregate.Number(),
		"customer_id":  aggregate.CustomerID().String(),
		"total_cents":  aggregate.Total().Cents(),
		"status":       aggregate.Status().String(),
	})
	return envelope
}

func statusChangedEnvelope(aggregate *order.Order, previous order.Status, at time.Time) event.Envelope {
	envelope, _ := event.NewEnvelope(aggregate.TenantID(), event.OrderStatusChanged, at, map[string]any{
		"order_id":        aggregate.ID().String(),
		"order_number":    aggregate.Number(),
		"customer_id":     aggregate.CustomerID().String(),
		"status":          aggregate.Status().String(),
		"previous_status": previous.String(),
	})
	return envelope
}
