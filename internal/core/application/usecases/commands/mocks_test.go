package commands_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockOrderRepository) Get(ctx context.Context, tenantID, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}
func (m *MockOrderRepository) NextNumber(ctx context.Context, tenantID kernel.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockOrderRepository) ClaimAcceptance(ctx context.Context, tenantID, id kernel.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Bool(0), args.Error(1)
}
func (m *MockOrderRepository) GetExpiredPendingRefs(
	ctx context.Context, now time.Time, limit int,
) ([]ports.PendingOrderRef, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.PendingOrderRef), args.Error(1)
}
func (m *MockOrderRepository) AddHistory(ctx context.Context, record order.HistoryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
func (m *MockOrderRepository) GetHistory(
	_ context.Context, _, _ kernel.UUID,
) ([]order.HistoryRecord, error) {
	return nil, errors.New("not implemented in mock")
}

type MockWebhookRepository struct{ mock.Mock }

func (m *MockWebhookRepository) Add(ctx context.Context, w *webhook.Webhook) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}
func (m *MockWebhookRepository) Update(ctx context.Context, w *webhook.Webhook) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}
func (m *MockWebhookRepository) Get(ctx context.Context, tenantID, id kernel.UUID) (*webhook.Webhook, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*webhook.Webhook), args.Error(1)
}
func (m *MockWebhookRepository) Delete(ctx context.Context, tenantID, id kernel.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}
func (m *MockWebhookRepository) ListByTenant(_ context.Context, _ kernel.UUID) ([]*webhook.Webhook, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockWebhookRepository) CountActive(ctx context.Context, tenantID kernel.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockWebhookRepository) ListActiveByEvent(
	_ context.Context, _ kernel.UUID, _ event.Type,
) ([]*webhook.Webhook, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockWebhookRepository) RecordDelivery(ctx context.Context, d webhook.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *MockWebhookRepository) RecordRetry(ctx context.Context, d webhook.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *MockWebhookRepository) GetDelivery(
	ctx context.Context, tenantID, deliveryID kernel.UUID,
) (webhook.Delivery, error) {
	args := m.Called(ctx, tenantID, deliveryID)
	return args.Get(0).(webhook.Delivery), args.Error(1)
}
func (m *MockWebhookRepository) ListDeliveries(
	_ context.Context, _, _ kernel.UUID, _ ports.DeliveryFilter,
) ([]webhook.Delivery, error) {
	return nil, errors.New("not implemented in mock")
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Add(ctx context.Context, n notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockNotificationRepository) ListForCustomer(
	_ context.Context, _, _ kernel.UUID, _ int,
) ([]notification.Notification, error) {
	return nil, errors.New("not implemented in mock")
}

type MockInventoryRepository struct{ mock.Mock }

func (m *MockInventoryRepository) DecrementStock(
	ctx context.Context, tenantID kernel.UUID, items []order.Item,
) error {
	args := m.Called(ctx, tenantID, items)
	return args.Error(0)
}

type MockLoyaltyRepository struct{ mock.Mock }

func (m *MockLoyaltyRepository) Credit(
	ctx context.Context, tenantID, customerID, orderID kernel.UUID, points int64,
) error {
	args := m.Called(ctx, tenantID, customerID, orderID, points)
	return args.Error(0)
}

// MockUoW satisfies every UoW shape the handlers use.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}
func (m *MockUoW) WebhookRepository() ports.WebhookRepository {
	args := m.Called()
	return args.Get(0).(ports.WebhookRepository)
}
func (m *MockUoW) NotificationRepository() ports.NotificationRepository {
	args := m.Called()
	return args.Get(0).(ports.NotificationRepository)
}
func (m *MockUoW) InventoryRepository() ports.InventoryRepository {
	args := m.Called()
	return args.Get(0).(ports.InventoryRepository)
}
func (m *MockUoW) LoyaltyRepository() ports.LoyaltyRepository {
	args := m.Called()
	return args.Get(0).(ports.LoyaltyRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockPlaceOrderUoWFactory struct{ mock.Mock }

func (m *MockPlaceOrderUoWFactory) Create() commands.PlaceOrderUoW {
	args := m.Called()
	return args.Get(0).(commands.PlaceOrderUoW)
}

type MockDeliverOrderUoWFactory struct{ mock.Mock }

func (m *MockDeliverOrderUoWFactory) Create() commands.DeliverOrderUoW {
	args := m.Called()
	return args.Get(0).(commands.DeliverOrderUoW)
}

type MockWebhookUoWFactory struct{ mock.Mock }

func (m *MockWebhookUoWFactory) Create() commands.WebhookUoW {
	args := m.Called()
	return args.Get(0).(commands.WebhookUoW)
}

// RecordingDispatcher captures enqueued envelopes for assertions.
type RecordingDispatcher struct {
	mu        sync.Mutex
	envelopes []event.Envelope
}

func (d *RecordingDispatcher) Enqueue(envelope event.Envelope) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.envelopes = append(d.envelopes, envelope)
}

func (d *RecordingDispatcher) Envelopes() []event.Envelope {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]event.Envelope(nil), d.envelopes...)
}

type MockTenantGateway struct{ mock.Mock }

func (m *MockTenantGateway) WebhookSettings(
	ctx context.Context, tenantID kernel.UUID,
) (ports.WebhookSettings, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(ports.WebhookSettings), args.Error(1)
}

type MockWebhookTransport struct{ mock.Mock }

func (m *MockWebhookTransport) Deliver(
	ctx context.Context, hook *webhook.Webhook, eventType event.Type, payload map[string]any, attempt int,
) webhook.Delivery {
	args := m.Called(ctx, hook, eventType, payload, attempt)
	return args.Get(0).(webhook.Delivery)
}

func adminActor(tenantID kernel.UUID) kernel.Actor {
	actor, _ := kernel.NewAdminActor(kernel.NewUUID(), tenantID, false)
	return actor
}

func customerActor(tenantID kernel.UUID) kernel.Actor {
	actor, _ := kernel.NewCustomerActor(kernel.NewUUID(), tenantID)
	return actor
}
