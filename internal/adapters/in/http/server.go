// Package http exposes the fulfillment API over HTTP. Handlers translate
// requests into commands and queries; all business rules live behind them.
package http

import (
	"net/http"
	"strconv"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	placeOrderHandler      commands.PlaceOrderCommandHandler
	acceptOrderHandler     commands.AcceptOrderCommandHandler
	advanceOrderHandler    commands.AdvanceOrderCommandHandler
	deliverOrderHandler    commands.DeliverOrderCommandHandler
	cancelOrderHandler     commands.CancelOrderCommandHandler
	registerWebhookHandler commands.RegisterWebhookCommandHandler
	updateWebhookHandler   commands.UpdateWebhookCommandHandler
	deleteWebhookHandler   commands.DeleteWebhookCommandHandler
	retryDeliveryHandler   commands.RetryDeliveryCommandHandler

	// Query handlers
	orderHistoryHandler      queries.GetOrderHistoryQueryHandler
	listWebhooksHandler      queries.ListWebhooksQueryHandler
	webhookDeliveriesHandler queries.GetWebhookDeliveriesQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	placeOrderHandler commands.PlaceOrderCommandHandler,
	acceptOrderHandler commands.AcceptOrderCommandHandler,
	advanceOrderHandler commands.AdvanceOrderCommandHandler,
	deliverOrderHandler commands.DeliverOrderCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	registerWebhookHandler commands.RegisterWebhookCommandHandler,
	updateWebhookHandler commands.UpdateWebhookCommandHandler,
	deleteWebhookHandler commands.DeleteWebhookCommandHandler,
	retryDeliveryHandler commands.RetryDeliveryCommandHandler,
	orderHistoryHandler queries.GetOrderHistoryQueryHandler,
	listWebhooksHandler queries.ListWebhooksQueryHandler,
	webhookDeliveriesHandler queries.GetWebhookDeliveriesQueryHandler,
) *Server {
	return &Server{
		placeOrderHandler:        placeOrderHandler,
		acceptOrderHandler:       acceptOrderHandler,
		advanceOrderHandler:      advanceOrderHandler,
		deliverOrderHandler:      deliverOrderHandler,
		cancelOrderHandler:       cancelOrderHandler,
		registerWebhookHandler:   registerWebhookHandler,
		updateWebhookHandler:     updateWebhookHandler,
		deleteWebhookHandler:     deleteWebhookHandler,
		retryDeliveryHandler:     retryDeliveryHandler,
		orderHistoryHandler:      orderHistoryHandler,
		listWebhooksHandler:      listWebhooksHandler,
		webhookDeliveriesHandler: webhookDeliveriesHandler,
	}
}

// RegisterRoutes attaches all API routes to the given Echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.PlaceOrder)
	api.POST("/orders/:id/accept", s.AcceptOrder)
	api.POST("/orders/:id/pack", s.PackOrder)
	api.POST("/orders/:id/send-out", s.SendOutOrder)
	api.POST("/orders/:id/ready-for-pickup", s.ReadyForPickupOrder)
	api.POST("/orders/:id/deliver", s.DeliverOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.GET("/orders/:id/history", s.GetOrderHistory)

	api.POST("/webhooks", s.RegisterWebhook)
	api.GET("/webhooks", s.ListWebhooks)
	api.PATCH("/webhooks/:id", s.UpdateWebhook)
	api.DELETE("/webhooks/:id", s.DeleteWebhook)
	api.GET("/webhooks/:id/deliveries", s.GetWebhookDeliveries)
	api.POST("/deliveries/:id/retry", s.RetryDelivery)

	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// PlaceOrder handles POST /api/v1/orders - places a new order.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	actor, tenantID, err := actorFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var req placeOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidError("request body"))
	}

	items := make([]commands.PlaceOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := kernel.UUIDFromString(item.ProductID)
		if err != nil {
			return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("product id", err))
		}
		items = append(items, commands.PlaceOrderItem{
			ProductID:      productID,
			Name:           item.Name,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}

	deliveryType, err := order.DeliveryTypeFromString(req.DeliveryType)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewPlaceOrderCommand(
		actor, tenantID, items, deliveryType,
		req.DeliveryAddress, req.ContactPhone, req.Notes,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.placeOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, placeOrderResponse{
		OrderID:    result.OrderID.String(),
		Number:     result.Number,
		TotalCents: result.TotalCents,
		Status:     result.Status.String(),
	})
}

// AcceptOrder handles POST /api/v1/orders/:id/accept - manually confirms a
// pending order.
func (s *Server) AcceptOrder(ctx echo.Context) error {
	actor, tenantID, err := actorFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var req acceptOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidError("request body"))
	}

	cmd, err := commands.NewAcceptOrderCommand(actor, tenantID, orderID, req.EstimatedDeliveryTime)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.acceptOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// PackOrder handles POST /api/v1/orders/:id/pack - marks a courier order packed.
func (s *Server) PackOrder(ctx echo.Context) error {
	actor, tenantID, err := actorFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewPackOrderCommand(actor, tenantID, orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.advanceOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// SendOutOrder handles POST /api/v1/orders/:id/send-out - hands a packed
// order to the courier.
func (s *Server) SendOutOrder(ctx echo.Context) error {
	actor, tenantID, err := actorFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var req sendOutOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidError("request body"))
	}

	cmd, err := commands.NewSendOutOrderCommand(actor, tenantID, orderID, req.TrackingNumber)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.advanceOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ReadyForPickupOrder handles POST /api/v1/orders/:id/ready-for-pickup - marks
// a pickup order as awaiting collection.
func (s *Server) ReadyForPickupOrder(ctx echo.Context) error {
	actor, tenantID, err := actorFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewReadyForPickupOrderCommand(actor, tenantID, orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.advanceOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// DeliverOrder handles POST /api/v1/orders/:id/deliver - completes an order.
func (s *Server) DeliverOrder(ctx echo.Context) error {
	actor, tenantID, err := actorFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var req deliverOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidError("request body"))
	}

	cmd, err := commands.NewDeliverOrderCommand(
		actor, tenantID, orderID, order.PaymentStatus(req.PaymentStatus),
	)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.deliverOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel - cancels an order.
func (s *Server) CancelOrder(ctx echo.Context) error {
	actor, tenantID, err := actorFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var req cancelOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidError("request body"))
	}

	cmd, err := commands.NewCancelOrderCommand(actor, tenantID, orderID, req.Reason)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// GetOrderHistory handles GET /api/v1/orders/:id/history - returns the order's
// status ledger, oldest first.
func (s *Server) GetOrderHistory(ctx echo.Context) error {
	actor, tenantID, err := actorFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetOrderHistoryQuery(actor, tenantID, orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	rows, err := s.orderHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]orderHistoryEntry, len(rows))
	for i, row := range rows {
		response[i] = orderHistoryEntry{
			FromStatus:      row.FromStatus,
			ToStatus:        row.ToStatus,
			ActorAdminID:    uuidString(row.ActorAdminID),
			ActorCustomerID: uuidString(row.ActorCustomerID),
			ActorName:       row.ActorName,
			Note:            row.Note,
			CreatedAt:       row.CreatedAt,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// RegisterWebhook handles POST /api/v1/webhooks - registers a webhook and
// returns its signing secret, once.
func (s *Server) RegisterWebhook(ctx echo.Context) error {
	actor, tenantID, err := actorFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var req registerWebhookRequest
	if err := ctx.Bind(&req); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidError("request body"))
	}

	cmd, err := commands.NewRegisterWebhookCommand(
		actor, tenantID,
		req.Name, req.URL,
		toEventTypes(req.Events),
		req.Headers,
		req.MaxAttempts,
		time.Duration(req.TimeoutSeconds)*time.Second,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.registerWebhookHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, registerWebhookResponse{
		WebhookID: result.WebhookID.String(),
		Secret:    result.Secret,
	})
}

// ListWebhooks handles GET /api/v1/webhooks - lists the tenant's webhooks with
// their delivery counters.
func (s *Server) ListWebhooks(ctx echo.Context) error {
	actor, tenantID, err := actorFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewListWebhooksQuery(actor, tenantID)
	if err != nil {
		return writeError(ctx, err)
	}

	rows, err := s.listWebhooksHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]webhookSummary, len(rows))
	for i, row := range rows {
		response[i] = webhookSummary{
			ID:                   row.ID.String(),
			Name:                 row.Name,
			URL:                  row.URL,
			Events:               row.Events,
			MaxAttempts:          row.MaxAttempts,
			TimeoutSeconds:       row.TimeoutSeconds,
			Active:               row.Active,
			TotalDeliveries:      row.TotalDeliveries,
			SuccessfulDeliveries: row.SuccessfulDeliveries,
			FailedDeliveries:     row.FailedDeliveries,
			LastTriggeredAt:      row.LastTriggeredAt,
			CreatedAt:            row.CreatedAt,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// UpdateWebhook handles PATCH /api/v1/webhooks/:id - partially updates a
// webhook. Fields absent from the body are preserved.
func (s *Server) UpdateWebhook(ctx echo.Context) error {
	actor, tenantID, err := actorFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	webhookID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var req updateWebhookRequest
	if err := ctx.Bind(&req); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidError("request body"))
	}

	patch := webhook.UpdatePatch{
		Name:        req.Name,
		URL:         req.URL,
		Events:      toEventTypes(req.Events),
		Headers:     req.Headers,
		MaxAttempts: req.MaxAttempts,
		Active:      req.Active,
	}
	if req.TimeoutSeconds != nil {
		timeout := time.Duration(*req.TimeoutSeconds) * time.Second
		patch.Timeout = &timeout
	}

	cmd, err := commands.NewUpdateWebhookCommand(actor, tenantID, webhookID, patch)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.updateWebhookHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// DeleteWebhook handles DELETE /api/v1/webhooks/:id - removes a webhook.
// Recorded deliveries are kept for audit.
func (s *Server) DeleteWebhook(ctx echo.Context) error {
	actor, tenantID, err := actorFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	webhookID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewDeleteWebhookCommand(actor, tenantID, webhookID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.deleteWebhookHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// GetWebhookDeliveries handles GET /api/v1/webhooks/:id/deliveries - returns
// the webhook's delivery log, newest first. Supports status and event_type
// filters plus limit/offset paging.
func (s *Server) GetWebhookDeliveries(ctx echo.Context) error {
	actor, tenantID, err := actorFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	webhookID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var status *webhook.DeliveryStatus
	if raw := ctx.QueryParam("status"); raw != "" {
		parsed := webhook.DeliveryStatus(raw)
		status = &parsed
	}
	var eventType *event.Type
	if raw := ctx.QueryParam("event_type"); raw != "" {
		parsed := event.Type(raw)
		eventType = &parsed
	}
	limit, err := intQueryParam(ctx, "limit")
	if err != nil {
		return writeError(ctx, err)
	}
	offset, err := intQueryParam(ctx, "offset")
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetWebhookDeliveriesQuery(
		actor, tenantID, webhookID, status, eventType, limit, offset,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	rows, err := s.webhookDeliveriesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]deliveryRow, len(rows))
	for i, row := range rows {
		response[i] = deliveryRow{
			ID:            row.ID.String(),
			EventType:     row.EventType,
			AttemptNumber: row.AttemptNumber,
			Status:        row.Status,
			HTTPStatus:    row.HTTPStatus,
			ResponseBody:  row.ResponseBody,
			ErrorMessage:  row.ErrorMessage,
			DeliveredAt:   row.DeliveredAt,
			CreatedAt:     row.CreatedAt,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// RetryDelivery handles POST /api/v1/deliveries/:id/retry - replays a recorded
// delivery with its original payload.
func (s *Server) RetryDelivery(ctx echo.Context) error {
	actor, tenantID, err := actorFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	deliveryID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewRetryDeliveryCommand(actor, tenantID, deliveryID)
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.retryDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, retryDeliveryResponse{
		Status:        string(result.Status),
		AttemptNumber: result.AttemptNumber,
		HTTPStatus:    result.HTTPStatus,
	})
}

func pathID(ctx echo.Context) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("id path parameter", err)
	}
	return id, nil
}

func intQueryParam(ctx echo.Context, name string) (int, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(name+" query parameter", err)
	}
	return value, nil
}

func toEventTypes(names []string) []event.Type {
	if names == nil {
		return nil
	}
	types := make([]event.Type, len(names))
	for i, name := range names {
		types[i] = event.Type(name)
	}
	return types
}

func uuidString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
