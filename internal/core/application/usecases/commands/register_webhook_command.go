package commands

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrRegisterWebhookCommandIsNotConstructed = errors.New(
		"RegisterWebhookCommand must be created via NewRegisterWebhookCommand constructor",
	)

	// ErrWebhooksDisabled is returned when the tenant's webhook feature flag is off.
	ErrWebhooksDisabled = errors.New("webhooks are not enabled for this tenant")

	// ErrWebhookQuotaExceeded is returned when registering would exceed the
	// tenant's active webhook quota.
	ErrWebhookQuotaExceeded = errors.New("active webhook quota exceeded for this tenant")
)

// RegisterWebhookCommand represents an admin registering a new outbound
// webhook endpoint for their tenant.
type RegisterWebhookCommand struct { //nolint:recvcheck //using for validation
	actor       kernel.Actor
	tenantID    kernel.UUID
	name        string
	url         string
	events      []event.Type
	headers     map[string]string
	maxAttempts int
	timeout     time.Duration

	guard guard.ConstructorGuard
}

// NewRegisterWebhookCommand creates a command to register a webhook. Deep
// validation of name, URL, and event set happens in the aggregate constructor;
// the command checks actor scope and identifier validity.
func NewRegisterWebhookCommand(
	actor kernel.Actor,
	tenantID kernel.UUID,
	name, url string,
	events []event.Type,
	headers map[string]string,
	maxAttempts int,
	timeout time.Duration,
) (RegisterWebhookCommand, error) {
	cmd := RegisterWebhookCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setActor(actor, tenantID); err != nil {
		return RegisterWebhookCommand{}, err
	}

	cmd.name = name
	cmd.url = url
	cmd.events = events
	cmd.headers = headers
	cmd.maxAttempts = maxAttempts
	cmd.timeout = timeout
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterWebhookCommand) Validate() error {
	return c.guard.Validate(ErrRegisterWebhookCommandIsNotConstructed)
}

// Actor returns the registering admin.
func (c RegisterWebhookCommand) Actor() kernel.Actor { return c.actor }

// TenantID returns the tenant the webhook belongs to.
func (c RegisterWebhookCommand) TenantID() kernel.UUID { return c.tenantID }

// Name returns the endpoint name.
func (c RegisterWebhookCommand) Name() string { return c.name }

// URL returns the delivery target URL.
func (c RegisterWebhookCommand) URL() string { return c.url }

// Events returns the requested event subscriptions.
func (c RegisterWebhookCommand) Events() []event.Type { return c.events }

// Headers returns the custom delivery headers.
func (c RegisterWebhookCommand) Headers() map[string]string { return c.headers }

// MaxAttempts returns the requested attempt budget; zero uses the default.
func (c RegisterWebhookCommand) MaxAttempts() int { return c.maxAttempts }

// Timeout returns the requested delivery timeout; zero uses the default.
func (c RegisterWebhookCommand) Timeout() time.Duration { return c.timeout }

func (c *RegisterWebhookCommand) setActor(actor kernel.Actor, tenantID kernel.UUID) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if err := tenantID.Validate(); err != nil {
		return err
	}
	if actor.Kind() != kernel.ActorAdmin || !actor.CanManageTenant(tenantID) {
		return errs.NewAccessForbiddenError("webhook registration")
	}

	c.actor = actor
	c.tenantID = tenantID
	return nil
}
