// Package metrics defines the Prometheus instruments exported by the
// fulfillment service. All instruments are registered on the default registry
// and served from the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersPlaced counts successfully placed orders.
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fulfillment",
		Name:      "orders_placed_total",
		Help:      "Number of orders placed.",
	})

	// OrderTransitions counts committed order status transitions by target status.
	OrderTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fulfillment",
		Name:      "order_transitions_total",
		Help:      "Number of committed order status transitions.",
	}, []string{"to_status"})

	// OrdersAutoAccepted counts orders accepted by the sweeper.
	OrdersAutoAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fulfillment",
		Name:      "orders_auto_accepted_total",
		Help:      "Number of orders auto-accepted after the acceptance window elapsed.",
	})

	// WebhookDeliveries counts webhook delivery attempts by outcome.
	WebhookDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fulfillment",
		Name:      "webhook_deliveries_total",
		Help:      "Number of webhook delivery attempts.",
	}, []string{"status"})

	// WebhookDeliveryDuration observes the wall time of delivery attempts.
	WebhookDeliveryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fulfillment",
		Name:      "webhook_delivery_duration_seconds",
		Help:      "Duration of webhook delivery attempts.",
		Buckets:   prometheus.DefBuckets,
	})

	// EventsDispatched counts dispatch fan-outs by event type.
	EventsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fulfillment",
		Name:      "events_dispatched_total",
		Help:      "Number of domain events handed to the dispatch engine.",
	}, []string{"event"})

	// EventStreamPublishErrors counts failed publishes to the event stream.
	EventStreamPublishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fulfillment",
		Name:      "event_stream_publish_errors_total",
		Help:      "Number of failed publishes to the internal event stream.",
	})
)
