package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func dispatchedOrder(t *testing.T, tenantID kernel.UUID, totalCents int64) *order.Order {
	t.Helper()
	price, err := kernel.NewMoney(totalCents)
	require.NoError(t, err)
	item, err := order.NewItem(kernel.NewUUID(), "bundle", 1, price)
	require.NoError(t, err)
	o, err := order.NewOrder(
		kernel.NewUUID(), tenantID, kernel.NewUUID(),
		1, []order.Item{item}, order.DeliveryTypeCourier,
		"12 Main St", "", "", time.Now(), 0,
	)
	require.NoError(t, err)
	require.NoError(t, o.Accept(kernel.NewUUID(), time.Now(), nil))
	require.NoError(t, o.Pack())
	require.NoError(t, o.SendOut(""))
	return o
}

func TestDeliverOrderCommandHandler_Handle_CreditsLoyaltyPoints(t *testing.T) {
	ctx := t.Context()
	tenantID := kernel.NewUUID()
	aggregate := dispatchedOrder(t, tenantID, 95000)
	cmd, err := commands.NewDeliverOrderCommand(adminActor(tenantID), tenantID, aggregate.ID(), "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	loyaltyRepo := new(MockLoyaltyRepository)
	notificationRepo := new(MockNotificationRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, tenantID, aggregate.ID()).Return(aggregate, nil).Once(),
		orderRepo.On("Update", ctx, aggregate).Return(nil).Once(),
		orderRepo.On("AddHistory", ctx, mock.AnythingOfType("order.HistoryRecord")).Return(nil).Once(),
		uow.On("LoyaltyRepository").Return(loyaltyRepo).Once(),
		loyaltyRepo.On("Credit", ctx, tenantID, aggregate.CustomerID(), aggregate.ID(), int64(9)).Return(nil).Once(),
		uow.On("NotificationRepository").Return(notificationRepo).Once(),
		notificationRepo.On("Add", ctx, mock.Anything).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDeliverOrderUoWFactory)
	factory.On("Create").Return(uow).Once()
	dispatcher := new(RecordingDispatcher)

	h := commands.NewDeliverOrderCommandHandler(factory, dispatcher)
	require.NoError(t, h.Handle(ctx, cmd))

	require.Equal(t, order.Delivered, aggregate.Status())
	require.Equal(t, order.PaymentCompleted, aggregate.PaymentStatus())
	require.Len(t, dispatcher.Envelopes(), 1)
	loyaltyRepo.AssertExpectations(t)
}

func TestDeliverOrderCommandHandler_Handle_ZeroPointOrderStillWritesLedgerRow(t *testing.T) {
	ctx := t.Context()
	tenantID := kernel.NewUUID()
	aggregate := dispatchedOrder(t, tenantID, 9999)
	cmd, err := commands.NewDeliverOrderCommand(adminActor(tenantID), tenantID, aggregate.ID(), "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	loyaltyRepo := new(MockLoyaltyRepository)
	notificationRepo := new(MockNotificationRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, tenantID, aggregate.ID()).Return(aggregate, nil).Once(),
		orderRepo.On("Update", ctx, aggregate).Return(nil).Once(),
		orderRepo.On("AddHistory", ctx, mock.Anything).Return(nil).Once(),
		uow.On("LoyaltyRepository").Return(loyaltyRepo).Once(),
		loyaltyRepo.On("Credit", ctx, tenantID, aggregate.CustomerID(), aggregate.ID(), int64(0)).Return(nil).Once(),
		uow.On("NotificationRepository").Return(notificationRepo).Once(),
		notificationRepo.On("Add", ctx, mock.Anything).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDeliverOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewDeliverOrderCommandHandler(factory, new(RecordingDispatcher))
	require.NoError(t, h.Handle(ctx, cmd))

	loyaltyRepo.AssertExpectations(t)
}
