package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/core/ports"
)

// RetryDeliveryResult reports the outcome of a manual delivery retry.
type RetryDeliveryResult struct {
	Status        webhook.DeliveryStatus
	AttemptNumber int
	HTTPStatus    *int
}

// RetryDeliveryCommandHandler replays a recorded delivery against its
// endpoint with the originally delivered payload. The existing delivery row
// is rewritten in place with the new outcome; the attempt counter advances.
// A delivery that has already consumed the webhook's attempt budget is
// rejected with ErrRetryBudgetExhausted.
//
// The HTTP call runs outside any transaction: one short transaction loads the
// row and its webhook, the delivery happens, then a second transaction
// records the outcome.
type RetryDeliveryCommandHandler struct {
	uowFactory WebhookUoWFactory
	transport  ports.WebhookTransport
}

// NewRetryDeliveryCommandHandler creates a handler for manual delivery retries.
func NewRetryDeliveryCommandHandler(
	uowFactory WebhookUoWFactory, transport ports.WebhookTransport,
) RetryDeliveryCommandHandler {
	return RetryDeliveryCommandHandler{
		uowFactory: uowFactory,
		transport:  transport,
	}
}

// Handle processes the retry command.
func (h *RetryDeliveryCommandHandler) Handle(
	ctx context.Context, cmd RetryDeliveryCommand,
) (RetryDeliveryResult, error) {
	if err := cmd.Validate(); err != nil {
		return RetryDeliveryResult{}, err
	}

	delivery, hook, err := h.load(ctx, cmd)
	if err != nil {
		return RetryDeliveryResult{}, err
	}
	if delivery.AttemptNumber >= hook.MaxAttempts() {
		return RetryDeliveryResult{}, ErrRetryBudgetExhausted
	}

	outcome := h.transport.Deliver(ctx, hook, delivery.EventType, delivery.Payload, delivery.AttemptNumber+1)
	retried := delivery.Retried(outcome)

	if err = h.record(ctx, retried); err != nil {
		return RetryDeliveryResult{}, err
	}

	return RetryDeliveryResult{
		Status:        retried.Status,
		AttemptNumber: retried.AttemptNumber,
		HTTPStatus:    retried.HTTPStatus,
	}, nil
}

func (h *RetryDeliveryCommandHandler) load(
	ctx context.Context, cmd RetryDeliveryCommand,
) (webhook.Delivery, *webhook.Webhook, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return webhook.Delivery{}, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	webhookRepo := uow.WebhookRepository()
	delivery, err := webhookRepo.GetDelivery(ctx, cmd.TenantID(), cmd.DeliveryID())
	if err != nil {
		return webhook.Delivery{}, nil, err
	}

	hook, err := webhookRepo.Get(ctx, cmd.TenantID(), delivery.WebhookID)
	if err != nil {
		return webhook.Delivery{}, nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return webhook.Delivery{}, nil, err
	}
	return delivery, hook, nil
}

func (h *RetryDeliveryCommandHandler) record(ctx context.Context, delivery webhook.Delivery) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.WebhookRepository().RecordRetry(ctx, delivery); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
