package cmd

import (
	"log/slog"
	"strconv"
	"time"

	httpserver "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/tenantrepo"
	"fulfillment/internal/adapters/out/webhookhttp"
	"fulfillment/internal/core/application/dispatch"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	"gorm.io/gorm"
)

// DefaultSweepSchedule runs the auto-accept sweep at the top of every minute.
const DefaultSweepSchedule = "0 * * * * *"

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	transport  ports.WebhookTransport
	publisher  *kafka.Publisher
	dispatcher *dispatch.Engine
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	uowFactory := postgres.NewGormUnitOfWorkFactory(gormDB)
	transport := webhookhttp.NewClient(logger)

	var publisher *kafka.Publisher
	var stream ports.EventStreamPublisher
	if config.KafkaHost != "" {
		publisher = kafka.NewPublisher([]string{config.KafkaHost}, config.KafkaEventsTopic, logger)
		stream = publisher
	}

	dispatchUoWFactory := FuncDispatchUoWFactory(func() dispatch.WebhookUoW {
		return uowFactory.Create()
	})
	dispatcher := dispatch.NewEngine(dispatchUoWFactory, transport, stream, logger)

	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *uowFactory,
		transport:  transport,
		publisher:  publisher,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Dispatcher returns the shared dispatch engine. Command handlers enqueue
// events on it after their transactions commit.
func (c *CompositionRoot) Dispatcher() *dispatch.Engine {
	return c.dispatcher
}

// Close drains the dispatch engine and releases outbound connections.
func (c *CompositionRoot) Close() {
	c.dispatcher.Close()
	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			c.logger.Error("Failed to close event stream publisher", "error", err)
		}
	}
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	var f commands.PlaceOrderUoWFactory = FuncPlaceOrderUoWFactory(func() commands.PlaceOrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPlaceOrderCommandHandler(f, c.dispatcher, c.acceptTimer())
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	return commands.NewAcceptOrderCommandHandler(c.orderUoWFactory(), c.dispatcher)
}

func (c *CompositionRoot) CreateAdvanceOrderCommandHandler() commands.AdvanceOrderCommandHandler {
	return commands.NewAdvanceOrderCommandHandler(c.orderUoWFactory(), c.dispatcher)
}

func (c *CompositionRoot) CreateDeliverOrderCommandHandler() commands.DeliverOrderCommandHandler {
	var f commands.DeliverOrderUoWFactory = FuncDeliverOrderUoWFactory(func() commands.DeliverOrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDeliverOrderCommandHandler(f, c.dispatcher)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.dispatcher)
}

func (c *CompositionRoot) CreateAutoAcceptOrdersCommandHandler() commands.AutoAcceptOrdersCommandHandler {
	return commands.NewAutoAcceptOrdersCommandHandler(c.orderUoWFactory(), c.dispatcher)
}

func (c *CompositionRoot) CreateRegisterWebhookCommandHandler() commands.RegisterWebhookCommandHandler {
	return commands.NewRegisterWebhookCommandHandler(
		c.webhookUoWFactory(),
		tenantrepo.NewGormTenantGateway(c.gormDB),
	)
}

func (c *CompositionRoot) CreateUpdateWebhookCommandHandler() commands.UpdateWebhookCommandHandler {
	return commands.NewUpdateWebhookCommandHandler(c.webhookUoWFactory())
}

func (c *CompositionRoot) CreateDeleteWebhookCommandHandler() commands.DeleteWebhookCommandHandler {
	return commands.NewDeleteWebhookCommandHandler(c.webhookUoWFactory())
}

func (c *CompositionRoot) CreateRetryDeliveryCommandHandler() commands.RetryDeliveryCommandHandler {
	return commands.NewRetryDeliveryCommandHandler(c.webhookUoWFactory(), c.transport)
}

func (c *CompositionRoot) CreateGetOrderHistoryQueryHandler() queries.GetOrderHistoryQueryHandler {
	return queries.NewGetOrderHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListWebhooksQueryHandler() queries.ListWebhooksQueryHandler {
	return queries.NewListWebhooksQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetWebhookDeliveriesQueryHandler() queries.GetWebhookDeliveriesQueryHandler {
	return queries.NewGetWebhookDeliveriesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpserver.Server {
	return httpserver.NewServer(
		c.CreatePlaceOrderCommandHandler(),
		c.CreateAcceptOrderCommandHandler(),
		c.CreateAdvanceOrderCommandHandler(),
		c.CreateDeliverOrderCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateRegisterWebhookCommandHandler(),
		c.CreateUpdateWebhookCommandHandler(),
		c.CreateDeleteWebhookCommandHandler(),
		c.CreateRetryDeliveryCommandHandler(),
		c.CreateGetOrderHistoryQueryHandler(),
		c.CreateListWebhooksQueryHandler(),
		c.CreateGetWebhookDeliveriesQueryHandler(),
	)
}

func (c *CompositionRoot) CreateAcceptanceSweepJob() *jobs.AcceptanceSweepJob {
	schedule := c.config.SweepSchedule
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	return jobs.NewAcceptanceSweepJob(
		c.CreateAutoAcceptOrdersCommandHandler(),
		schedule,
		c.sweepBatchSize(),
		c.logger,
	)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) webhookUoWFactory() commands.WebhookUoWFactory {
	return FuncWebhookUoWFactory(func() commands.WebhookUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) acceptTimer() time.Duration {
	if c.config.OrderAcceptTimer == "" {
		return 0
	}
	timer, err := time.ParseDuration(c.config.OrderAcceptTimer)
	if err != nil {
		c.logger.Warn("Invalid ORDER_ACCEPT_TIMER, using default", "value", c.config.OrderAcceptTimer)
		return 0
	}
	return timer
}

func (c *CompositionRoot) sweepBatchSize() int {
	if c.config.SweepBatchSize == "" {
		return 0
	}
	size, err := strconv.Atoi(c.config.SweepBatchSize)
	if err != nil || size < 0 {
		c.logger.Warn("Invalid SWEEP_BATCH_SIZE, using default", "value", c.config.SweepBatchSize)
		return 0
	}
	return size
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncPlaceOrderUoWFactory func() commands.PlaceOrderUoW

func (f FuncPlaceOrderUoWFactory) Create() commands.PlaceOrderUoW {
	return f()
}

type FuncDeliverOrderUoWFactory func() commands.DeliverOrderUoW

func (f FuncDeliverOrderUoWFactory) Create() commands.DeliverOrderUoW {
	return f()
}

type FuncWebhookUoWFactory func() commands.WebhookUoW

func (f FuncWebhookUoWFactory) Create() commands.WebhookUoW {
	return f()
}

type FuncDispatchUoWFactory func() dispatch.WebhookUoW

func (f FuncDispatchUoWFactory) Create() dispatch.WebhookUoW {
	return f()
}
