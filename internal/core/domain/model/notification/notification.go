// Package notification contains the in-app notification record written
// alongside order transitions, for both customers and store admins.
package notification

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// Kind classifies a notification for client-side rendering.
type Kind string

const (
	KindOrderPlaced   Kind = "order_placed"
	KindOrderAccepted Kind = "order_accepted"
	KindOrderStatus   Kind = "order_status"
	KindOrderCancel   Kind = "order_cancelled"
)

// Priority orders notifications in admin inboxes.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Notification is an in-app message about an order. A row addresses either one
// customer or the tenant's admins (all of them when AdminID is nil). Rows are
// written in the same transaction as the order change they describe, so a
// committed transition always has its notifications.
type Notification struct {
	ID         kernel.UUID
	TenantID   kernel.UUID
	CustomerID *kernel.UUID
	AdminID    *kernel.UUID
	OrderID    kernel.UUID
	Kind       Kind
	Priority   Priority
	Title      string
	Message    string
	Data       map[string]any
	Read       bool
	CreatedAt  time.Time
}

// NewOrderPlacedForCustomer builds the notification confirming a freshly
// placed order to the customer.
func NewOrderPlacedForCustomer(o *order.Order, at time.Time) Notification {
	customerID := o.CustomerID()
	return Notification{
		ID:         kernel.NewUUID(),
		TenantID:   o.TenantID(),
		CustomerID: &customerID,
		OrderID:    o.ID(),
		Kind:       KindOrderPlaced,
		Priority:   PriorityNormal,
		Title:      "Order received",
		Message:    "We have received your order and will confirm it shortly.",
		Data:       orderData(o),
		CreatedAt:  at,
	}
}

// NewOrderPlacedForAdmins builds the high-priority notification telling the
// tenant's admins a new order is waiting for acceptance.
func NewOrderPlacedForAdmins(o *order.Order, at time.Time) Notification {
	return Notification{
		ID:        kernel.NewUUID(),
		TenantID:  o.TenantID(),
		OrderID:   o.ID(),
		Kind:      KindOrderPlaced,
		Priority:  PriorityHigh,
		Title:     "New order",
		Message:   "A new order is waiting for confirmation.",
		Data:      orderData(o),
		CreatedAt: at,
	}
}

// NewAutoAcceptedForAdmins builds the notification telling the tenant's admins
// an order was auto-accepted because nobody confirmed it in time.
func NewAutoAcceptedForAdmins(o *order.Order, at time.Time) Notification {
	return Notification{
		ID:        kernel.NewUUID(),
		TenantID:  o.TenantID(),
		OrderID:   o.ID(),
		Kind:      KindOrderAccepted,
		Priority:  PriorityHigh,
		Title:     "Order auto-accepted",
		Message:   "An order was accepted automatically after the confirmation window expired.",
		Data:      orderData(o),
		CreatedAt: at,
	}
}

// NewStatusChangedForCustomer builds the customer notification for an order
// transition. The message depends on the status the order just reached.
func NewStatusChangedForCustomer(o *order.Order, at time.Time) Notification {
	kind := KindOrderStatus
	var title, message string
	switch o.Status() {
	case order.Accepted:
		kind = KindOrderAccepted
		title = "Order confirmed"
		message = "Your order has been confirmed and is being prepared."
	case order.Packed:
		title = "Order packed"
		message = "Your order has been packed and is awaiting dispatch."
	case order.Dispatched:
		title = "Order on its way"
		message = "Your order has been handed to the courier."
		if o.TrackingNumber() != "" {
			message = "Your order has been handed to the courier. Tracking number: " + o.TrackingNumber() + "."
		}
	case order.ReadyForPickup:
		title = "Order ready for pickup"
		message = "Your order is ready. You can pick it up at the store."
	case order.Delivered:
		title = "Order delivered"
		message = "Your order has been delivered. Thank you for shopping with us."
	case order.Cancelled:
		kind = KindOrderCancel
		title = "Order cancelled"
		message = "Your order has been cancelled."
	default:
		title = "Order updated"
		message = "Your order status has changed to " + o.Status().String() + "."
	}

	customerID := o.CustomerID()
	return Notification{
		ID:         kernel.NewUUID(),
		TenantID:   o.TenantID(),
		CustomerID: &customerID,
		OrderID:    o.ID(),
		Kind:       kind,
		Priority:   PriorityNormal,
		Title:      title,
		Message:    message,
		Data:       orderData(o),
		CreatedAt:  at,
	}
}

func orderData(o *order.Order) map[string]any {
	return map[string]any{
		"order_id":     o.ID().String(),
		"order_number": o.Number(),
		"status":       o.Status().String(),
	}
}
