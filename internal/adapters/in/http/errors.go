package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// writeError maps an application error to an HTTP status and writes the
// uniform error body. Unclassified errors are reported as 500 without the
// underlying message.
func writeError(ctx echo.Context, err error) error {
	code := statusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = "internal server error"
	}
	return ctx.JSON(code, Error{Code: code, Message: message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrAccessForbidden),
		errors.Is(err, commands.ErrWebhooksDisabled):
		return http.StatusForbidden
	case errors.Is(err, commands.ErrOrderAlreadyClaimed):
		return http.StatusConflict
	case errors.Is(err, commands.ErrWebhookQuotaExceeded),
		errors.Is(err, commands.ErrRetryBudgetExhausted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
