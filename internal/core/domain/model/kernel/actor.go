package kernel

import "fulfillment/internal/pkg/errs"

// ActorKind distinguishes who is performing an operation.
type ActorKind int

const (
	// ActorUnknown represents an invalid or undefined actor.
	ActorUnknown ActorKind = iota

	// ActorAdmin is a tenant administrator (or super-admin).
	ActorAdmin

	// ActorCustomer is a customer acting on their own orders.
	ActorCustomer

	// ActorSystem is an internal process such as the acceptance sweeper.
	ActorSystem
)

// Actor is the already-authenticated identity performing an operation.
// Authentication mechanics live outside the core; the core only checks
// tenant scope and role capabilities carried by the Actor.
//
// Exactly one of AdminID/CustomerID is set for human actors; system actors
// carry neither.
type Actor struct {
	kind        ActorKind
	adminID     UUID
	customerID  UUID
	tenantID    UUID
	superAdmin  bool
	displayName string
}

// NewAdminActor creates an actor for a tenant administrator.
// Super-admins may act across tenant boundaries.
func NewAdminActor(adminID, tenantID UUID, superAdmin bool) (Actor, error) {
	if err := adminID.Validate(); err != nil {
		return Actor{}, err
	}
	if !superAdmin {
		if err := tenantID.Validate(); err != nil {
			return Actor{}, err
		}
	}
	return Actor{kind: ActorAdmin, adminID: adminID, tenantID: tenantID, superAdmin: superAdmin}, nil
}

// NewCustomerActor creates an actor for a customer of a tenant.
func NewCustomerActor(customerID, tenantID UUID) (Actor, error) {
	if err := customerID.Validate(); err != nil {
		return Actor{}, err
	}
	if err := tenantID.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{kind: ActorCustomer, customerID: customerID, tenantID: tenantID}, nil
}

// NewSystemActor creates an actor for internal scheduled processes.
func NewSystemActor() Actor {
	return Actor{kind: ActorSystem}
}

// WithDisplayName returns a copy of the actor carrying the human-readable
// name forwarded by the authentication layer. The name annotates audit
// records; authorization never depends on it.
func (a Actor) WithDisplayName(name string) Actor {
	a.displayName = name
	return a
}

// DisplayName returns the actor's human-readable name; empty when the
// authentication layer did not forward one.
func (a Actor) DisplayName() string {
	return a.displayName
}

// Kind returns the actor kind.
func (a Actor) Kind() ActorKind {
	return a.kind
}

// AdminID returns the admin identifier; zero value for non-admin actors.
func (a Actor) AdminID() UUID {
	return a.adminID
}

// CustomerID returns the customer identifier; zero value for non-customer actors.
func (a Actor) CustomerID() UUID {
	return a.customerID
}

// TenantID returns the actor's tenant scope; zero value for system and super-admin actors.
func (a Actor) TenantID() UUID {
	return a.tenantID
}

// IsSuperAdmin reports whether the actor holds the super-admin capability.
func (a Actor) IsSuperAdmin() bool {
	return a.kind == ActorAdmin && a.superAdmin
}

// IsSystem reports whether the actor is an internal process.
func (a Actor) IsSystem() bool {
	return a.kind == ActorSystem
}

// Validate checks that the actor was created through one of the constructors.
func (a Actor) Validate() error {
	if a.kind == ActorUnknown {
		return errs.NewValueIsRequiredError(
			"Actor must be created via NewAdminActor, NewCustomerActor, or NewSystemActor")
	}
	return nil
}

// CanManageTenant reports whether the actor may perform admin operations
// scoped to the given tenant. System actors and super-admins always may;
// tenant admins only within their own tenant.
func (a Actor) CanManageTenant(tenantID UUID) bool {
	switch a.kind {
	case ActorSystem:
		return true
	case ActorAdmin:
		return a.superAdmin || a.tenantID.IsEqual(tenantID)
	default:
		return false
	}
}

// CanReadOrder reports whether the actor may read an order's data: tenant
// admins and super-admins per CanManageTenant, plus the customer who placed it.
func (a Actor) CanReadOrder(tenantID, customerID UUID) bool {
	if a.kind == ActorCustomer {
		return a.tenantID.IsEqual(tenantID) && a.customerID.IsEqual(customerID)
	}
	return a.CanManageTenant(tenantID)
}
