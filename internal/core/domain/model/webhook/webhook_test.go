package webhook_test

import (
	"strings"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/webhook"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerTestWebhook(t *testing.T, events ...event.Type) *webhook.Webhook {
	t.Helper()
	if len(events) == 0 {
		events = []event.Type{event.OrderPlaced}
	}
	w, err := webhook.NewWebhook(
		kernel.NewUUID(), kernel.NewUUID(),
		"erp sync", "https://erp.example.com/hooks",
		events, nil, 0, 0, time.Now(),
	)
	require.NoError(t, err)
	return w
}

func TestNewWebhook(t *testing.T) {
	t.Run("should register with defaults and generated secret", func(t *testing.T) {
		w := registerTestWebhook(t)

		assert.Equal(t, webhook.DefaultMaxAttempts, w.MaxAttempts())
		assert.Equal(t, webhook.DefaultTimeout, w.Timeout())
		assert.True(t, w.IsActive())
		assert.Len(t, w.Secret(), 64)
		assert.Equal(t, strings.ToLower(w.Secret()), w.Secret())
	})

	t.Run("secrets are unique per registration", func(t *testing.T) {
		first := registerTestWebhook(t)
		second := registerTestWebhook(t)

		assert.NotEqual(t, first.Secret(), second.Secret())
	})

	t.Run("should reject empty event set", func(t *testing.T) {
		_, err := webhook.NewWebhook(
			kernel.NewUUID(), kernel.NewUUID(),
			"erp sync", "https://erp.example.com/hooks",
			nil, nil, 0, 0, time.Now(),
		)

		require.ErrorIs(t, err, webhook.ErrEventsAreRequired)
	})

	t.Run("should reject unknown event type", func(t *testing.T) {
		_, err := webhook.NewWebhook(
			kernel.NewUUID(), kernel.NewUUID(),
			"erp sync", "https://erp.example.com/hooks",
			[]event.Type{"order.vanished"}, nil, 0, 0, time.Now(),
		)

		require.Error(t, err)
	})

	t.Run("should reject relative or non-http urls", func(t *testing.T) {
		for _, rawURL := range []string{"", "/hooks", "ftp://erp.example.com/hooks", "not a url"} {
			_, err := webhook.NewWebhook(
				kernel.NewUUID(), kernel.NewUUID(),
				"erp sync", rawURL,
				[]event.Type{event.OrderPlaced}, nil, 0, 0, time.Now(),
			)

			require.Error(t, err, "url %q", rawURL)
		}
	})
}

func TestWebhook_SubscribesTo(t *testing.T) {
	w := registerTestWebhook(t, event.OrderPlaced)

	assert.True(t, w.SubscribesTo(event.OrderPlaced))
	assert.False(t, w.SubscribesTo(event.OrderStatusChanged))
}

func TestWebhook_ApplyUpdate(t *testing.T) {
	t.Run("should change only present fields", func(t *testing.T) {
		w := registerTestWebhook(t)
		secret := w.Secret()
		name := "warehouse sync"
		attempts := 5

		err := w.ApplyUpdate(webhook.UpdatePatch{
			Name:        &name,
			MaxAttempts: &attempts,
		})

		require.NoError(t, err)
		assert.Equal(t, "warehouse sync", w.Name())
		assert.Equal(t, 5, w.MaxAttempts())
		assert.Equal(t, "https://erp.example.com/hooks", w.URL())
		assert.Equal(t, secret, w.Secret())
	})

	t.Run("should deactivate via patch", func(t *testing.T) {
		w := registerTestWebhook(t)
		active := false

		require.NoError(t, w.ApplyUpdate(webhook.UpdatePatch{Active: &active}))
		assert.False(t, w.IsActive())
	})

	t.Run("should reject clearing the event set", func(t *testing.T) {
		w := registerTestWebhook(t)

		err := w.ApplyUpdate(webhook.UpdatePatch{Events: []event.Type{}})

		require.ErrorIs(t, err, webhook.ErrEventsAreRequired)
	})

	t.Run("should reject invalid replacement url", func(t *testing.T) {
		w := registerTestWebhook(t)
		badURL := "telnet://nope"

		require.Error(t, w.ApplyUpdate(webhook.UpdatePatch{URL: &badURL}))
		assert.Equal(t, "https://erp.example.com/hooks", w.URL())
	})
}

func TestRestoreWebhook(t *testing.T) {
	t.Run("should rehydrate persisted state", func(t *testing.T) {
		triggered := time.Now()
		w, err := webhook.RestoreWebhook(webhook.RestoreWebhookParams{
			ID:                   kernel.NewUUID(),
			TenantID:             kernel.NewUUID(),
			Name:                 "erp sync",
			URL:                  "https://erp.example.com/hooks",
			Secret:               strings.Repeat("ab", 32),
			Events:               []event.Type{event.OrderStatusChanged},
			MaxAttempts:          3,
			Timeout:              10 * time.Second,
			Active:               true,
			TotalDeliveries:      12,
			SuccessfulDeliveries: 10,
			FailedDeliveries:     2,
			LastTriggeredAt:      &triggered,
			CreatedAt:            time.Now().Add(-time.Hour),
		})

		require.NoError(t, err)
		require.NoError(t, w.Validate())
		assert.Equal(t, int64(12), w.TotalDeliveries())
		assert.True(t, w.SubscribesTo(event.OrderStatusChanged))
	})

	t.Run("zero value is rejected", func(t *testing.T) {
		var w webhook.Webhook
		require.ErrorIs(t, w.Validate(), webhook.ErrWebhookIsNotConstructed)
	})
}

func TestDelivery(t *testing.T) {
	payload := map[string]any{"event": "order.placed"}

	t.Run("successful delivery records outcome and timestamp", func(t *testing.T) {
		at := time.Now()

		d := webhook.NewSuccessfulDelivery(kernel.NewUUID(), event.OrderPlaced, payload, 1, 200, "ok", at)

		assert.Equal(t, webhook.DeliverySuccess, d.Status)
		require.NotNil(t, d.HTTPStatus)
		assert.Equal(t, 200, *d.HTTPStatus)
		require.NotNil(t, d.DeliveredAt)
		assert.Equal(t, at, *d.DeliveredAt)
	})

	t.Run("failed delivery without response keeps nil http status", func(t *testing.T) {
		d := webhook.NewFailedDelivery(
			kernel.NewUUID(), event.OrderPlaced, payload, 1, nil, "", "dial tcp: timeout", time.Now(),
		)

		assert.Equal(t, webhook.DeliveryFailed, d.Status)
		assert.Nil(t, d.HTTPStatus)
		assert.Nil(t, d.DeliveredAt)
		assert.Equal(t, "dial tcp: timeout", d.ErrorMessage)
	})

	t.Run("response body is truncated", func(t *testing.T) {
		long := strings.Repeat("x", webhook.ResponseBodyLimit+500)

		d := webhook.NewSuccessfulDelivery(kernel.NewUUID(), event.OrderPlaced, payload, 1, 200, long, time.Now())

		assert.Len(t, d.ResponseBody, webhook.ResponseBodyLimit)
	})

	t.Run("retry keeps identity and advances the attempt counter", func(t *testing.T) {
		original := webhook.NewFailedDelivery(
			kernel.NewUUID(), event.OrderPlaced, payload, 2, nil, "", "timeout", time.Now(),
		)
		outcome := webhook.NewSuccessfulDelivery(
			original.WebhookID, original.EventType, original.Payload, 1, 200, "ok", time.Now(),
		)

		retried := original.Retried(outcome)

		assert.Equal(t, original.ID, retried.ID)
		assert.Equal(t, 3, retried.AttemptNumber)
		assert.Equal(t, webhook.DeliverySuccess, retried.Status)
		assert.Equal(t, original.CreatedAt, retried.CreatedAt)
	})
}
