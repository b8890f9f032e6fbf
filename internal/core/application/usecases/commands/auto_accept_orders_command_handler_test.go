package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// A sweep over two expired orders where one claim is lost to a concurrent
// manual accept: the lost order is skipped without error or history writes.
func TestAutoAcceptOrdersCommandHandler_Handle_LostClaimIsSkipped(t *testing.T) {
	ctx := t.Context()
	tenantID := kernel.NewUUID()
	winnable := pendingOrder(t, tenantID)
	contested := pendingOrder(t, tenantID)
	refs := []ports.PendingOrderRef{
		{TenantID: tenantID, OrderID: winnable.ID()},
		{TenantID: tenantID, OrderID: contested.ID()},
	}
	cmd, err := commands.NewAutoAcceptOrdersCommand(10)
	require.NoError(t, err)

	scanRepo := new(MockOrderRepository)
	scanUoW := new(MockUoW)
	mock.InOrder(
		scanUoW.On("Begin", ctx).Return(nil).Once(),
		scanUoW.On("OrderRepository").Return(scanRepo).Once(),
		scanRepo.On("GetExpiredPendingRefs", ctx, mock.AnythingOfType("time.Time"), 10).Return(refs, nil).Once(),
		scanUoW.On("Commit", ctx).Return(nil).Once(),
		scanUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	wonRepo := new(MockOrderRepository)
	wonNotifications := new(MockNotificationRepository)
	wonUoW := new(MockUoW)
	mock.InOrder(
		wonUoW.On("Begin", ctx).Return(nil).Once(),
		wonUoW.On("OrderRepository").Return(wonRepo).Once(),
		wonRepo.On("ClaimAcceptance", ctx, tenantID, winnable.ID()).Return(true, nil).Once(),
		wonRepo.On("Get", ctx, tenantID, winnable.ID()).Return(winnable, nil).Once(),
		wonRepo.On("Update", ctx, winnable).Return(nil).Once(),
		wonRepo.On("AddHistory", ctx, mock.AnythingOfType("order.HistoryRecord")).Return(nil).Once(),
		wonUoW.On("NotificationRepository").Return(wonNotifications).Once(),
		wonNotifications.On("Add", ctx, mock.Anything).Return(nil).Twice(),
		wonUoW.On("Commit", ctx).Return(nil).Once(),
		wonUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	lostRepo := new(MockOrderRepository)
	lostUoW := new(MockUoW)
	mock.InOrder(
		lostUoW.On("Begin", ctx).Return(nil).Once(),
		lostUoW.On("OrderRepository").Return(lostRepo).Once(),
		lostRepo.On("ClaimAcceptance", ctx, tenantID, contested.ID()).Return(false, nil).Once(),
		lostUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(scanUoW).Once()
	factory.On("Create").Return(wonUoW).Once()
	factory.On("Create").Return(lostUoW).Once()
	dispatcher := new(RecordingDispatcher)

	h := commands.NewAutoAcceptOrdersCommandHandler(factory, dispatcher)
	accepted, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Equal(t, 1, accepted)
	require.Equal(t, order.AcceptanceAutoAccepted, winnable.AcceptanceStatus())
	require.True(t, winnable.AutoAccepted())
	require.Nil(t, winnable.AcceptedBy())

	envelopes := dispatcher.Envelopes()
	require.Len(t, envelopes, 1)
	require.Equal(t, event.OrderStatusChanged, envelopes[0].Type)

	lostRepo.AssertNotCalled(t, "AddHistory", ctx, mock.Anything)
	lostUoW.AssertNotCalled(t, "Commit", ctx)
	wonRepo.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestAutoAcceptOrdersCommandHandler_Handle_NothingExpired(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewAutoAcceptOrdersCommand(0)
	require.NoError(t, err)
	require.Equal(t, commands.DefaultAutoAcceptBatchSize, cmd.BatchSize())

	scanRepo := new(MockOrderRepository)
	scanUoW := new(MockUoW)
	mock.InOrder(
		scanUoW.On("Begin", ctx).Return(nil).Once(),
		scanUoW.On("OrderRepository").Return(scanRepo).Once(),
		scanRepo.On("GetExpiredPendingRefs", ctx, mock.Anything, commands.DefaultAutoAcceptBatchSize).
			Return([]ports.PendingOrderRef{}, nil).Once(),
		scanUoW.On("Commit", ctx).Return(nil).Once(),
		scanUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(scanUoW).Once()

	h := commands.NewAutoAcceptOrdersCommandHandler(factory, new(RecordingDispatcher))
	accepted, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Zero(t, accepted)
}
