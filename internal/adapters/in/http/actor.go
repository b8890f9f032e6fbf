package http

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Identity headers. Authentication happens upstream; the gateway forwards the
// verified identity in these headers and this adapter only parses them.
const (
	HeaderTenantID   = "X-Tenant-ID"
	HeaderAdminID    = "X-Admin-ID"
	HeaderCustomerID = "X-Customer-ID"
	HeaderSuperAdmin = "X-Super-Admin"
	HeaderActorName  = "X-Actor-Name"
)

// actorFromRequest builds the acting identity from the forwarded headers.
// Exactly one of the admin and customer headers must be present; the admin
// header wins when both are set.
func actorFromRequest(ctx echo.Context) (kernel.Actor, kernel.UUID, error) {
	header := ctx.Request().Header

	tenantID, err := kernel.UUIDFromString(header.Get(HeaderTenantID))
	if err != nil {
		return kernel.Actor{}, kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(
			"tenant id header", err,
		)
	}

	if raw := header.Get(HeaderAdminID); raw != "" {
		adminID, err := kernel.UUIDFromString(raw)
		if err != nil {
			return kernel.Actor{}, kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(
				"admin id header", err,
			)
		}
		actor, err := kernel.NewAdminActor(adminID, tenantID, header.Get(HeaderSuperAdmin) == "true")
		if err != nil {
			return kernel.Actor{}, kernel.UUID{}, err
		}
		return actor.WithDisplayName(header.Get(HeaderActorName)), tenantID, nil
	}

	if raw := header.Get(HeaderCustomerID); raw != "" {
		customerID, err := kernel.UUIDFromString(raw)
		if err != nil {
			return kernel.Actor{}, kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(
				"customer id header", err,
			)
		}
		actor, err := kernel.NewCustomerActor(customerID, tenantID)
		if err != nil {
			return kernel.Actor{}, kernel.UUID{}, err
		}
		return actor.WithDisplayName(header.Get(HeaderActorName)), tenantID, nil
	}

	return kernel.Actor{}, kernel.UUID{}, errs.NewValueIsRequiredError("actor identity headers")
}
