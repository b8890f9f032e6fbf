// Package dispatch implements the webhook dispatch engine: asynchronous
// fan-out of domain events to every matching active webhook, with one audit
// row per attempt.
package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/metrics"
)

// dispatchTimeout bounds one full fan-out, including the slowest endpoint.
const dispatchTimeout = 2 * time.Minute

type (
	// WebhookUoW is the transaction shape the engine needs: webhook reads for
	// the fan-out set and delivery-row writes.
	WebhookUoW interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
		WebhookRepository() ports.WebhookRepository
	}

	// WebhookUoWFactory creates new unit of work instances per dispatch.
	WebhookUoWFactory interface {
		Create() WebhookUoW
	}
)

// Engine fans events out to webhooks. It implements the EventDispatcher port:
// Enqueue hands the envelope to a background goroutine and returns
// immediately, so callers never wait on endpoint latency.
//
// Delivery attempts within one fan-out run concurrently and settle
// independently: one endpoint's failure or slowness never affects the others.
// Every attempt writes its audit row in its own short transaction.
type Engine struct {
	uowFactory WebhookUoWFactory
	transport  ports.WebhookTransport
	publisher  ports.EventStreamPublisher
	logger     *slog.Logger

	wg sync.WaitGroup
}

// NewEngine creates a dispatch engine. publisher may be nil when no event
// stream is configured.
func NewEngine(
	uowFactory WebhookUoWFactory,
	transport ports.WebhookTransport,
	publisher ports.EventStreamPublisher,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		uowFactory: uowFactory,
		transport:  transport,
		publisher:  publisher,
		logger:     logger.With("component", "dispatch-engine"),
	}
}

// Enqueue schedules the envelope for asynchronous dispatch and returns
// immediately. Dispatch failures are logged, never surfaced to the caller.
func (e *Engine) Enqueue(envelope event.Envelope) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		if _, err := e.Dispatch(ctx, envelope); err != nil {
			e.logger.Error("event dispatch failed",
				"event", envelope.Type.String(),
				"tenant_id", envelope.TenantID.String(),
				"error", err,
			)
		}
	}()
}

// Close waits for in-flight dispatches to settle. Used at shutdown.
func (e *Engine) Close() {
	e.wg.Wait()
}

// Dispatch fans the envelope out to every active webhook of the tenant
// subscribed to the event type and returns how many were triggered. Zero
// matching webhooks is a successful no-op.
func (e *Engine) Dispatch(ctx context.Context, envelope event.Envelope) (int, error) {
	metrics.EventsDispatched.WithLabelValues(envelope.Type.String()).Inc()

	e.publishToStream(ctx, envelope)

	hooks, err := e.matchingWebhooks(ctx, envelope)
	if err != nil {
		return 0, err
	}
	if len(hooks) == 0 {
		return 0, nil
	}

	payload := envelope.Payload()

	var deliveries sync.WaitGroup
	for _, hook := range hooks {
		deliveries.Add(1)
		go func(hook *webhook.Webhook) {
			defer deliveries.Done()

			delivery := e.transport.Deliver(ctx, hook, envelope.Type, payload, 1)
			if recordErr := e.record(ctx, delivery); recordErr != nil {
				e.logger.Error("recording webhook delivery failed",
					"webhook_id", hook.ID().String(),
					"delivery_id", delivery.ID.String(),
					"error", recordErr,
				)
			}
		}(hook)
	}
	deliveries.Wait()

	return len(hooks), nil
}

// publishToStream mirrors the envelope onto the internal event stream.
// Stream failures are logged and counted but never fail the dispatch.
func (e *Engine) publishToStream(ctx context.Context, envelope event.Envelope) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, envelope); err != nil {
		metrics.EventStreamPublishErrors.Inc()
		e.logger.Warn("event stream publish failed",
			"event", envelope.Type.String(),
			"error", err,
		)
	}
}

func (e *Engine) matchingWebhooks(ctx context.Context, envelope event.Envelope) ([]*webhook.Webhook, error) {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	hooks, err := uow.WebhookRepository().ListActiveByEvent(ctx, envelope.TenantID, envelope.Type)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return hooks, nil
}

func (e *Engine) record(ctx context.Context, delivery webhook.Delivery) error {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.WebhookRepository().RecordDelivery(ctx, delivery); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
