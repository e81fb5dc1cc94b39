package gate

import (
	"context"

	"github.com/Chaturved5/estate-portal/internal/models"
)

// Resource type names used across the portal.
const (
	ResourceListing      = "listing"
	ResourceBooking      = "booking"
	ResourcePayment      = "payment"
	ResourceVerification = "verification"
	ResourceDashboard    = "dashboard"
)

// Default wires the portal's policies into a ready-to-use gate.
func Default() *Gate {
	g := NewGate()
	g.Register(ResourceListing, ListingPolicy{})
	g.Register(ResourceBooking, BookingPolicy{})
	g.Register(ResourcePayment, PaymentPolicy{})
	g.Register(ResourceVerification, VerificationPolicy{})
	g.Register(ResourceDashboard, DashboardPolicy{})
	return g
}

// ListingPolicy: admins manage everything; owners and agents manage their own
// listings; buyers only view.
type ListingPolicy struct{}

func (ListingPolicy) Can(_ context.Context, user *models.User, action Action, resource any) bool {
	if action == ActionView {
		return true
	}
	switch user.Role {
	case models.RoleAdmin:
		return true
	case models.RoleOwner, models.RoleAgent:
		p, ok := resource.(*models.Property)
		if !ok {
			// create: no resource yet
			return action == ActionCreate
		}
		return p.OwnerID == user.ID || p.AgentID == user.ID
	case models.RoleBuyer:
		return false
	}
	return false
}

// BookingPolicy: buyers create; the booking's buyer, the listing side and
// admins update.
type BookingPolicy struct{}

func (BookingPolicy) Can(_ context.Context, user *models.User, action Action, resource any) bool {
	switch user.Role {
	case models.RoleAdmin:
		return true
	case models.RoleBuyer:
		if action == ActionCreate {
			return true
		}
		b, ok := resource.(*models.Booking)
		return ok && b.UserID == user.ID
	case models.RoleOwner, models.RoleAgent:
		// Owners/agents accept or reject bookings on their listings; the
		// cross-check against the listing happens in the container, which
		// resolves the property before asking the gate.
		return action == ActionView || action == ActionUpdate
	}
	return false
}

// PaymentPolicy: admins and owners edit, everyone involved views.
type PaymentPolicy struct{}

func (PaymentPolicy) Can(_ context.Context, user *models.User, action Action, _ any) bool {
	switch user.Role {
	case models.RoleAdmin, models.RoleOwner:
		return true
	case models.RoleAgent, models.RoleBuyer:
		return action == ActionView
	}
	return false
}

// VerificationPolicy: any known role submits and views its own requests;
// reviewing is admin-only.
type VerificationPolicy struct{}

func (VerificationPolicy) Can(_ context.Context, user *models.User, action Action, resource any) bool {
	if action == ActionReview {
		return user.Role == models.RoleAdmin
	}
	switch user.Role {
	case models.RoleAdmin:
		return true
	case models.RoleOwner, models.RoleAgent, models.RoleBuyer:
		vr, ok := resource.(*models.VerificationRequest)
		if !ok {
			return action == ActionCreate || action == ActionView
		}
		return vr.UserID == user.ID
	}
	return false
}

// DashboardPolicy: every known role views its own dashboard; admin views all.
type DashboardPolicy struct{}

func (DashboardPolicy) Can(_ context.Context, user *models.User, action Action, resource any) bool {
	if action != ActionView {
		return false
	}
	wanted, ok := resource.(models.Role)
	if !ok {
		return false
	}
	if user.Role == models.RoleAdmin {
		return true
	}
	return user.Role == wanted
}
