package webhook

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

const (
	// DefaultTimeout is the outbound delivery timeout used when a webhook does
	// not configure its own.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxAttempts is the retry-attempt budget used when unset.
	DefaultMaxAttempts = 3

	// secretBytes is the entropy of a generated signing secret (256 bits).
	secretBytes = 32
)

var (
	// ErrWebhookIsNotConstructed is returned when a Webhook instance was not
	// created through NewWebhook or RestoreWebhook.
	ErrWebhookIsNotConstructed = errors.New("Webhook must be created via NewWebhook or RestoreWebhook")

	// ErrEventsAreRequired is returned when a webhook subscribes to no events.
	ErrEventsAreRequired = errors.New("webhook must subscribe to at least one event")
)

// Webhook is a tenant-owned outbound endpoint subscription. It carries the
// signing secret, the subscribed event set, delivery configuration, and
// rolling delivery counters.
//
// Invariants:
//   - The secret is generated exactly once, at registration, and is never
//     regenerated or re-derivable
//   - The subscribed event set is non-empty and drawn from the closed event
//     vocabulary
//   - Delivery counters never go negative; they only grow by commutative
//     increments applied at the storage layer
type Webhook struct {
	id       kernel.UUID
	tenantID kernel.UUID

	name   string
	url    string
	secret string

	events  []event.Type
	headers map[string]string

	maxAttempts int
	timeout     time.Duration
	active      bool

	totalDeliveries      int64
	successfulDeliveries int64
	failedDeliveries     int64
	lastTriggeredAt      *time.Time

	createdAt time.Time

	isConstructed bool
}

// NewWebhook registers a new webhook for a tenant. A fresh 256-bit signing
// secret is generated; callers must surface it to the registering client once,
// because it cannot be recovered later.
func NewWebhook(
	id, tenantID kernel.UUID,
	name, rawURL string,
	events []event.Type,
	headers map[string]string,
	maxAttempts int,
	timeout time.Duration,
	createdAt time.Time,
) (*Webhook, error) {
	if err := errors.Join(id.Validate(), tenantID.Validate()); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("webhook name")
	}
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrEventsAreRequired
	}
	for _, eventType := range events {
		if err := eventType.Validate(); err != nil {
			return nil, err
		}
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	secret, err := generateSecret()
	if err != nil {
		return nil, err
	}

	return &Webhook{
		id:            id,
		tenantID:      tenantID,
		name:          name,
		url:           rawURL,
		secret:        secret,
		events:        events,
		headers:       headers,
		maxAttempts:   maxAttempts,
		timeout:       timeout,
		active:        true,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// RestoreWebhookParams carries the persisted state of a webhook for rehydration.
type RestoreWebhookParams struct {
	ID                   kernel.UUID
	TenantID             kernel.UUID
	Name                 string
	URL                  string
	Secret               string
	Events               []event.Type
	Headers              map[string]string
	MaxAttempts          int
	Timeout              time.Duration
	Active               bool
	TotalDeliveries      int64
	SuccessfulDeliveries int64
	FailedDeliveries     int64
	LastTriggeredAt      *time.Time
	CreatedAt            time.Time
}

// RestoreWebhook reconstructs a webhook from persistence.
func RestoreWebhook(p RestoreWebhookParams) (*Webhook, error) {
	if err := errors.Join(p.ID.Validate(), p.TenantID.Validate()); err != nil {
		return nil, err
	}
	if len(p.Events) == 0 {
		return nil, ErrEventsAreRequired
	}

	return &Webhook{
		id:                   p.ID,
		tenantID:             p.TenantID,
		name:                 p.Name,
		url:                  p.URL,
		secret:               p.Secret,
		events:               p.Events,
		headers:              p.Headers,
		maxAttempts:          p.MaxAttempts,
		timeout:              p.Timeout,
		active:               p.Active,
		totalDeliveries:      p.TotalDeliveries,
		successfulDeliveries: p.SuccessfulDeliveries,
		failedDeliveries:     p.FailedDeliveries,
		lastTriggeredAt:      p.LastTriggeredAt,
		createdAt:            p.CreatedAt,
		isConstructed:        true,
	}, nil
}

// Validate ensures the Webhook instance was properly constructed.
func (w *Webhook) Validate() error {
	if w == nil || !w.isConstructed {
		return ErrWebhookIsNotConstructed
	}
	return nil
}

// ID returns the webhook's unique identifier.
func (w *Webhook) ID() kernel.UUID { return w.id }

// TenantID returns the owning tenant.
func (w *Webhook) TenantID() kernel.UUID { return w.tenantID }

// Name returns the human-readable endpoint name.
func (w *Webhook) Name() string { return w.name }

// URL returns the delivery target URL.
func (w *Webhook) URL() string { return w.url }

// Secret returns the opaque signing secret. It is shown to the client only at
// registration and is otherwise used exclusively for signing.
func (w *Webhook) Secret() string { return w.secret }

// Events returns the subscribed event set. The returned slice must not be mutated.
func (w *Webhook) Events() []event.Type { return w.events }

// Headers returns the custom headers attached to every delivery.
func (w *Webhook) Headers() map[string]string { return w.headers }

// MaxAttempts returns the retry-attempt budget.
func (w *Webhook) MaxAttempts() int { return w.maxAttempts }

// Timeout returns the per-delivery HTTP timeout.
func (w *Webhook) Timeout() time.Duration { return w.timeout }

// IsActive reports whether the webhook receives deliveries.
func (w *Webhook) IsActive() bool { return w.active }

// TotalDeliveries returns the lifetime delivery count.
func (w *Webhook) TotalDeliveries() int64 { return w.totalDeliveries }

// SuccessfulDeliveries returns the lifetime successful delivery count.
func (w *Webhook) SuccessfulDeliveries() int64 { return w.successfulDeliveries }

// FailedDeliveries returns the lifetime failed delivery count.
func (w *Webhook) FailedDeliveries() int64 { return w.failedDeliveries }

// LastTriggeredAt returns the timestamp of the most recent successful
// delivery, if any.
func (w *Webhook) LastTriggeredAt() *time.Time { return w.lastTriggeredAt }

// CreatedAt returns the registration timestamp.
func (w *Webhook) CreatedAt() time.Time { return w.createdAt }

// SubscribesTo reports whether the webhook wants deliveries for the event type.
func (w *Webhook) SubscribesTo(eventType event.Type) bool {
	for _, subscribed := range w.events {
		if subscribed == eventType {
			return true
		}
	}
	return false
}

// Deactivate stops further deliveries without deleting the configuration.
func (w *Webhook) Deactivate() {
	w.active = false
}

// ApplyUpdate applies a typed partial update: only fields present on the patch
// are changed. The signing secret is never touched.
func (w *Webhook) ApplyUpdate(patch UpdatePatch) error {
	if patch.Name != nil {
		if *patch.Name == "" {
			return errs.NewValueIsRequiredError("webhook name")
		}
		w.name = *patch.Name
	}
	if patch.URL != nil {
		if err := validateURL(*patch.URL); err != nil {
			return err
		}
		w.url = *patch.URL
	}
	if patch.Events != nil {
		if len(patch.Events) == 0 {
			return ErrEventsAreRequired
		}
		for _, eventType := range patch.Events {
			if err := eventType.Validate(); err != nil {
				return err
			}
		}
		w.events = patch.Events
	}
	if patch.Headers != nil {
		w.headers = patch.Headers
	}
	if patch.MaxAttempts != nil {
		if *patch.MaxAttempts <= 0 {
			return errs.NewValueIsInvalidError("webhook max attempts")
		}
		w.maxAttempts = *patch.MaxAttempts
	}
	if patch.Timeout != nil {
		if *patch.Timeout <= 0 {
			return errs.NewValueIsInvalidError("webhook timeout")
		}
		w.timeout = *patch.Timeout
	}
	if patch.Active != nil {
		w.active = *patch.Active
	}
	return nil
}

// UpdatePatch is a typed partial update for a webhook. Nil fields are left
// unchanged. Modeled as present/absent pointers rather than dynamic field
// lists so updates stay type-checked.
type UpdatePatch struct {
	Name        *string
	URL         *string
	Events      []event.Type
	Headers     map[string]string
	MaxAttempts *int
	Timeout     *time.Duration
	Active      *bool
}

func validateURL(rawURL string) error {
	if rawURL == "" {
		return errs.NewValueIsRequiredError("webhook url")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return errs.NewValueIsInvalidErrorWithCause("webhook url",
			fmt.Errorf("%q is not an absolute http(s) url", rawURL))
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errs.NewValueIsInvalidErrorWithCause("webhook url",
			fmt.Errorf("scheme %q is not supported", parsed.Scheme))
	}
	return nil
}

func generateSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate webhook secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
