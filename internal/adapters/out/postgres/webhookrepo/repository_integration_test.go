package webhookrepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/webhookrepo"
	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// WebhookRepositoryIntegrationTestSuite provides integration tests for WebhookRepository
// using PostgreSQL containers to verify database persistence behavior.
type WebhookRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *webhookrepo.GormWebhookRepository
	tracker    *MockAggregateTracker
}

func (suite *WebhookRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	// Get connection string and connect to database
	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	// Auto-migrate the schema
	suite.Require().NoError(db.AutoMigrate(
		&webhookrepo.WebhookDTO{},
		&webhookrepo.DeliveryDTO{},
	))
}

func (suite *WebhookRepositoryIntegrationTestSuite) SetupTest() {
	// Clean the database before each test
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE webhooks, webhook_deliveries").Error)

	// Create fresh repository and tracker for each test
	suite.tracker = new(MockAggregateTracker)
	suite.repository = webhookrepo.NewGormWebhookRepository(suite.db, suite.tracker)
}

func (suite *WebhookRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *WebhookRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrips() {
	ctx := context.Background()
	tenantID := kernel.NewUUID()

	hook := suite.createTestWebhook(tenantID, event.OrderPlaced, event.OrderStatusChanged)
	suite.tracker.On("TrackAggregate", hook.ID(), hook).Once()
	suite.Require().NoError(suite.repository.Add(ctx, hook))

	retrieved, err := suite.repository.Get(ctx, tenantID, hook.ID())
	suite.Require().NoError(err)

	suite.Equal(hook.ID(), retrieved.ID())
	suite.Equal(hook.Name(), retrieved.Name())
	suite.Equal(hook.URL(), retrieved.URL())
	suite.Equal(hook.Secret(), retrieved.Secret())
	suite.Equal(hook.Events(), retrieved.Events())
	suite.Equal(hook.Headers(), retrieved.Headers())
	suite.Equal(hook.MaxAttempts(), retrieved.MaxAttempts())
	suite.Equal(hook.Timeout(), retrieved.Timeout())
	suite.True(retrieved.IsActive())
	suite.Zero(retrieved.TotalDeliveries())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WebhookRepositoryIntegrationTestSuite) TestGet_ForeignTenant_ReturnsNotFoundError() {
	ctx := context.Background()

	hook := suite.createTestWebhook(kernel.NewUUID(), event.OrderPlaced)
	suite.tracker.On("TrackAggregate", hook.ID(), hook).Once()
	suite.Require().NoError(suite.repository.Add(ctx, hook))

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID(), hook.ID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WebhookRepositoryIntegrationTestSuite) TestUpdate_ChangesConfigKeepsSecret() {
	ctx := context.Background()
	tenantID := kernel.NewUUID()

	hook := suite.createTestWebhook(tenantID, event.OrderPlaced)
	originalSecret := hook.Secret()
	suite.tracker.On("TrackAggregate", hook.ID(), hook).Times(2)
	suite.Require().NoError(suite.repository.Add(ctx, hook))

	newName := "renamed endpoint"
	inactive := false
	suite.Require().NoError(hook.ApplyUpdate(webhook.UpdatePatch{
		Name:   &newName,
		Events: []event.Type{event.OrderStatusChanged},
		Active: &inactive,
	}))
	suite.Require().NoError(suite.repository.Update(ctx, hook))

	retrieved, err := suite.repository.Get(ctx, tenantID, hook.ID())
	suite.Require().NoError(err)

	suite.Equal(newName, retrieved.Name())
	suite.Equal([]event.Type{event.OrderStatusChanged}, retrieved.Events())
	suite.False(retrieved.IsActive())
	suite.Equal(originalSecret, retrieved.Secret(), "secret never changes after registration")

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WebhookRepositoryIntegrationTestSuite) TestDelete_RemovesWebhookKeepsDeliveries() {
	ctx := context.Background()
	tenantID := kernel.NewUUID()

	hook := suite.createTestWebhook(tenantID, event.OrderPlaced)
	suite.tracker.On("TrackAggregate", hook.ID(), hook).Once()
	suite.Require().NoError(suite.repository.Add(ctx, hook))

	delivery := webhook.NewSuccessfulDelivery(
		hook.ID(), event.OrderPlaced, map[string]any{"event": "order.placed"}, 1, 200, "ok", time.Now(),
	)
	suite.Require().NoError(suite.repository.RecordDelivery(ctx, delivery))

	suite.Require().NoError(suite.repository.Delete(ctx, tenantID, hook.ID()))

	_, err := suite.repository.Get(ctx, tenantID, hook.ID())
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	var deliveryCount int64
	suite.Require().NoError(suite.db.Model(&webhookrepo.DeliveryDTO{}).Count(&deliveryCount).Error)
	suite.Equal(int64(1), deliveryCount, "audit rows outlive the webhook")

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WebhookRepositoryIntegrationTestSuite) TestCountActive_CountsOnlyActive() {
	ctx := context.Background()
	tenantID := kernel.NewUUID()

	active := suite.createTestWebhook(tenantID, event.OrderPlaced)
	inactive := suite.createTestWebhook(tenantID, event.OrderPlaced)
	inactive.Deactivate()
	foreign := suite.createTestWebhook(kernel.NewUUID(), event.OrderPlaced)

	for _, hook := range []*webhook.Webhook{active, inactive, foreign} {
		suite.tracker.On("TrackAggregate", hook.ID(), hook).Once()
		suite.Require().NoError(suite.repository.Add(ctx, hook))
	}

	count, err := suite.repository.CountActive(ctx, tenantID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), count)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WebhookRepositoryIntegrationTestSuite) TestListActiveByEvent_FiltersSubscriptions() {
	ctx := context.Background()
	tenantID := kernel.NewUUID()

	subscribed := suite.createTestWebhook(tenantID, event.OrderPlaced, event.OrderStatusChanged)
	otherEvent := suite.createTestWebhook(tenantID, event.OrderStatusChanged)
	deactivated := suite.createTestWebhook(tenantID, event.OrderPlaced)
	deactivated.Deactivate()

	for _, hook := range []*webhook.Webhook{subscribed, otherEvent, deactivated} {
		suite.tracker.On("TrackAggregate", hook.ID(), hook).Once()
		suite.Require().NoError(suite.repository.Add(ctx, hook))
	}

	hooks, err := suite.repository.ListActiveByEvent(ctx, tenantID, event.OrderPlaced)
	suite.Require().NoError(err)

	suite.Require().Len(hooks, 1)
	suite.Equal(subscribed.ID(), hooks[0].ID())
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WebhookRepositoryIntegrationTestSuite) TestRecordDelivery_WritesRowAndBumpsCounters() {
	ctx := context.Background()
	tenantID := kernel.NewUUID()

	hook := suite.createTestWebhook(tenantID, event.OrderPlaced)
	suite.tracker.On("TrackAggregate", hook.ID(), hook).Once()
	suite.Require().NoError(suite.repository.Add(ctx, hook))

	payload := map[string]any{"event": "order.placed", "data": map[string]any{"order_number": float64(7)}}
	success := webhook.NewSuccessfulDelivery(hook.ID(), event.OrderPlaced, payload, 1, 200, "ok", time.Now())
	status := 502
	failure := webhook.NewFailedDelivery(
		hook.ID(), event.OrderPlaced, payload, 1, &status, "bad gateway", "endpoint returned 502", time.Now(),
	)

	suite.Require().NoError(suite.repository.RecordDelivery(ctx, success))
	suite.Require().NoError(suite.repository.RecordDelivery(ctx, failure))

	retrieved, err := suite.repository.Get(ctx, tenantID, hook.ID())
	suite.Require().NoError(err)
	suite.Equal(int64(2), retrieved.TotalDeliveries())
	suite.Equal(int64(1), retrieved.SuccessfulDeliveries())
	suite.Equal(int64(1), retrieved.FailedDeliveries())
	suite.NotNil(retrieved.LastTriggeredAt())

	stored, err := suite.repository.GetDelivery(ctx, tenantID, success.ID)
	suite.Require().NoError(err)
	suite.Equal(webhook.DeliverySuccess, stored.Status)
	suite.Equal(payload, stored.Payload, "payload replays byte-identical from jsonb")

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WebhookRepositoryIntegrationTestSuite) TestRecordDelivery_FailureLeavesLastTriggeredUnset() {
	ctx := context.Background()
	tenantID := kernel.NewUUID()

	hook := suite.createTestWebhook(tenantID, event.OrderPlaced)
	suite.tracker.On("TrackAggregate", hook.ID(), hook).Once()
	suite.Require().NoError(suite.repository.Add(ctx, hook))

	status := 502
	failure := webhook.NewFailedDelivery(
		hook.ID(), event.OrderPlaced, map[string]any{"event": "order.placed"},
		1, &status, "bad gateway", "endpoint returned 502", time.Now(),
	)
	suite.Require().NoError(suite.repository.RecordDelivery(ctx, failure))

	retrieved, err := suite.repository.Get(ctx, tenantID, hook.ID())
	suite.Require().NoError(err)
	suite.Equal(int64(1), retrieved.TotalDeliveries())
	suite.Equal(int64(1), retrieved.FailedDeliveries())
	suite.Nil(retrieved.LastTriggeredAt(), "only a 2xx delivery advances last_triggered_at")

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WebhookRepositoryIntegrationTestSuite) TestRecordRetry_RewritesRowInPlace() {
	ctx := context.Background()
	tenantID := kernel.NewUUID()

	hook := suite.createTestWebhook(tenantID, event.OrderPlaced)
	suite.tracker.On("TrackAggregate", hook.ID(), hook).Once()
	suite.Require().NoError(suite.repository.Add(ctx, hook))

	payload := map[string]any{"event": "order.placed"}
	status := 503
	failed := webhook.NewFailedDelivery(
		hook.ID(), event.OrderPlaced, payload, 1, &status, "", "endpoint returned 503", time.Now(),
	)
	suite.Require().NoError(suite.repository.RecordDelivery(ctx, failed))

	outcome := webhook.NewSuccessfulDelivery(hook.ID(), event.OrderPlaced, payload, 1, 200, "ok", time.Now())
	retried := failed.Retried(outcome)
	suite.Require().NoError(suite.repository.RecordRetry(ctx, retried))

	stored, err := suite.repository.GetDelivery(ctx, tenantID, failed.ID)
	suite.Require().NoError(err)
	suite.Equal(failed.ID, stored.ID, "retry keeps the row identity")
	suite.Equal(webhook.DeliverySuccess, stored.Status)
	suite.Equal(2, stored.AttemptNumber)
	suite.Empty(stored.ErrorMessage)

	retrieved, err := suite.repository.Get(ctx, tenantID, hook.ID())
	suite.Require().NoError(err)
	suite.Equal(int64(2), retrieved.TotalDeliveries())
	suite.Equal(int64(1), retrieved.SuccessfulDeliveries())
	suite.Equal(int64(1), retrieved.FailedDeliveries())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WebhookRepositoryIntegrationTestSuite) TestGetDelivery_ForeignTenant_ReturnsNotFoundError() {
	ctx := context.Background()
	tenantID := kernel.NewUUID()

	hook := suite.createTestWebhook(tenantID, event.OrderPlaced)
	suite.tracker.On("TrackAggregate", hook.ID(), hook).Once()
	suite.Require().NoError(suite.repository.Add(ctx, hook))

	delivery := webhook.NewSuccessfulDelivery(
		hook.ID(), event.OrderPlaced, map[string]any{"event": "order.placed"}, 1, 200, "", time.Now(),
	)
	suite.Require().NoError(suite.repository.RecordDelivery(ctx, delivery))

	_, err := suite.repository.GetDelivery(ctx, kernel.NewUUID(), delivery.ID)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WebhookRepositoryIntegrationTestSuite) TestListDeliveries_FiltersAndPages() {
	ctx := context.Background()
	tenantID := kernel.NewUUID()

	hook := suite.createTestWebhook(tenantID, event.OrderPlaced, event.OrderStatusChanged)
	suite.tracker.On("TrackAggregate", hook.ID(), hook).Once()
	suite.Require().NoError(suite.repository.Add(ctx, hook))

	base := time.Now().Add(-time.Hour)
	payload := map[string]any{"event": "order.placed"}
	status := 500
	rows := []webhook.Delivery{
		webhook.NewSuccessfulDelivery(hook.ID(), event.OrderPlaced, payload, 1, 200, "", base),
		webhook.NewFailedDelivery(hook.ID(), event.OrderPlaced, payload, 1, &status, "", "boom", base.Add(time.Minute)),
		webhook.NewSuccessfulDelivery(hook.ID(), event.OrderStatusChanged, payload, 1, 200, "", base.Add(2*time.Minute)),
	}
	for _, row := range rows {
		suite.Require().NoError(suite.repository.RecordDelivery(ctx, row))
	}

	failedStatus := webhook.DeliveryFailed
	failedOnly, err := suite.repository.ListDeliveries(ctx, tenantID, hook.ID(), ports.DeliveryFilter{
		Status: &failedStatus,
		Limit:  10,
	})
	suite.Require().NoError(err)
	suite.Require().Len(failedOnly, 1)
	suite.Equal(rows[1].ID, failedOnly[0].ID)

	statusChanged := event.OrderStatusChanged
	byEvent, err := suite.repository.ListDeliveries(ctx, tenantID, hook.ID(), ports.DeliveryFilter{
		EventType: &statusChanged,
		Limit:     10,
	})
	suite.Require().NoError(err)
	suite.Require().Len(byEvent, 1)
	suite.Equal(rows[2].ID, byEvent[0].ID)

	page, err := suite.repository.ListDeliveries(ctx, tenantID, hook.ID(), ports.DeliveryFilter{
		Limit:  2,
		Offset: 1,
	})
	suite.Require().NoError(err)
	suite.Len(page, 2, "offset skips the newest row")

	suite.tracker.AssertExpectations(suite.T())
}

// createTestWebhook creates an active webhook subscribed to the given events.
func (suite *WebhookRepositoryIntegrationTestSuite) createTestWebhook(
	tenantID kernel.UUID, events ...event.Type,
) *webhook.Webhook {
	hook, err := webhook.NewWebhook(
		kernel.NewUUID(), tenantID,
		"order sync", "https://endpoint.example.com/hooks",
		events,
		map[string]string{"X-Source": "fulfillment"},
		3, 30*time.Second,
		time.Now().UTC().Truncate(time.Millisecond),
	)
	suite.Require().NoError(err)
	return hook
}

func TestWebhookRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(WebhookRepositoryIntegrationTestSuite))
}
