package http

import "time"

// Error is the uniform JSON error body returned by every handler.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type placeOrderItem struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

type placeOrderRequest struct {
	Items           []placeOrderItem `json:"items"`
	DeliveryType    string           `json:"delivery_type"`
	DeliveryAddress string           `json:"delivery_address"`
	ContactPhone    string           `json:"contact_phone"`
	Notes           string           `json:"notes"`
}

type placeOrderResponse struct {
	OrderID    string `json:"order_id"`
	Number     int64  `json:"number"`
	TotalCents int64  `json:"total_cents"`
	Status     string `json:"status"`
}

type acceptOrderRequest struct {
	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time,omitempty"`
}

type sendOutOrderRequest struct {
	TrackingNumber string `json:"tracking_number"`
}

type deliverOrderRequest struct {
	PaymentStatus string `json:"payment_status,omitempty"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason,omitempty"`
}

type orderHistoryEntry struct {
	FromStatus      *string   `json:"from_status"`
	ToStatus        string    `json:"to_status"`
	ActorAdminID    *string   `json:"actor_admin_id,omitempty"`
	ActorCustomerID *string   `json:"actor_customer_id,omitempty"`
	ActorName       string    `json:"actor_name,omitempty"`
	Note            string    `json:"note,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type registerWebhookRequest struct {
	Name           string            `json:"name"`
	URL            string            `json:"url"`
	Events         []string          `json:"events"`
	Headers        map[string]string `json:"headers,omitempty"`
	MaxAttempts    int               `json:"max_attempts,omitempty"`
	TimeoutSeconds int               `json:"timeout_seconds,omitempty"`
}

type registerWebhookResponse struct {
	WebhookID string `json:"webhook_id"`
	Secret    string `json:"secret"`
}

type updateWebhookRequest struct {
	Name           *string           `json:"name,omitempty"`
	URL            *string           `json:"url,omitempty"`
	Events         []string          `json:"events,omitempty"`
	Headers        map[string]string `json:"headers,omitempty"`
	MaxAttempts    *int              `json:"max_attempts,omitempty"`
	TimeoutSeconds *int              `json:"timeout_seconds,omitempty"`
	Active         *bool             `json:"active,omitempty"`
}

type webhookSummary struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	URL                  string     `json:"url"`
	Events               []string   `json:"events"`
	MaxAttempts          int        `json:"max_attempts"`
	TimeoutSeconds       int        `json:"timeout_seconds"`
	Active               bool       `json:"active"`
	TotalDeliveries      int64      `json:"total_deliveries"`
	SuccessfulDeliveries int64      `json:"successful_deliveries"`
	FailedDeliveries     int64      `json:"failed_deliveries"`
	LastTriggeredAt      *time.Time `json:"last_triggered_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

type deliveryRow struct {
	ID            string     `json:"id"`
	EventType     string     `json:"event_type"`
	AttemptNumber int        `json:"attempt_number"`
	Status        string     `json:"status"`
	HTTPStatus    *int       `json:"http_status,omitempty"`
	ResponseBody  string     `json:"response_body,omitempty"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	DeliveredAt   *time.Time `json:"delivered_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type retryDeliveryResponse struct {
	Status        string `json:"status"`
	AttemptNumber int    `json:"attempt_number"`
	HTTPStatus    *int   `json:"http_status,omitempty"`
}
