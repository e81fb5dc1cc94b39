package gate

import (
	"context"
	"testing"

	"github.com/Chaturved5/estate-portal/internal/models"
)

func TestAuthorizeNilUser(t *testing.T) {
	g := Default()
	if err := g.Authorize(context.Background(), nil, ActionView, ResourceListing, nil); err != ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthorizeUnknownRole(t *testing.T) {
	g := Default()
	u := &models.User{ID: "u1", Role: "superuser"}
	if err := g.Authorize(context.Background(), u, ActionView, ResourceListing, nil); err != ErrUnauthorized {
		t.Errorf("unknown role must not fall through, got %v", err)
	}
}

func TestAuthorizeNoPolicy(t *testing.T) {
	g := NewGate()
	u := &models.User{ID: "u1", Role: models.RoleAdmin}
	if err := g.Authorize(context.Background(), u, ActionView, "widget", nil); err != ErrNoPolicyDefined {
		t.Errorf("expected ErrNoPolicyDefined, got %v", err)
	}
}

func TestListingPolicyOwnership(t *testing.T) {
	g := Default()
	ctx := context.Background()
	prop := &models.Property{ID: "p1", OwnerID: "owner-1", AgentID: "agent-1"}

	owner := &models.User{ID: "owner-1", Role: models.RoleOwner}
	stranger := &models.User{ID: "owner-2", Role: models.RoleOwner}
	agent := &models.User{ID: "agent-1", Role: models.RoleAgent}
	buyer := &models.User{ID: "b1", Role: models.RoleBuyer}
	admin := &models.User{ID: "a1", Role: models.RoleAdmin}

	cases := []struct {
		name string
		user *models.User
		want bool
	}{
		{"owner edits own", owner, true},
		{"other owner denied", stranger, false},
		{"assigned agent edits", agent, true},
		{"buyer denied", buyer, false},
		{"admin allowed", admin, true},
	}
	for _, tc := range cases {
		if got := g.Can(ctx, tc.user, ActionUpdate, ResourceListing, prop); got != tc.want {
			t.Errorf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}

	// Viewing is open to every known role.
	if !g.Can(ctx, buyer, ActionView, ResourceListing, prop) {
		t.Error("buyer should view listings")
	}
}

func TestVerificationReviewAdminOnly(t *testing.T) {
	g := Default()
	ctx := context.Background()
	vr := &models.VerificationRequest{ID: "v1", UserID: "owner-1"}

	admin := &models.User{ID: "a1", Role: models.RoleAdmin}
	owner := &models.User{ID: "owner-1", Role: models.RoleOwner}

	if !g.Can(ctx, admin, ActionReview, ResourceVerification, vr) {
		t.Error("admin must review")
	}
	if g.Can(ctx, owner, ActionReview, ResourceVerification, vr) {
		t.Error("owner must not review")
	}
	if !g.Can(ctx, owner, ActionView, ResourceVerification, vr) {
		t.Error("owner views own request")
	}
}

func TestDashboardPolicy(t *testing.T) {
	g := Default()
	ctx := context.Background()
	broker := &models.User{ID: "g1", Role: models.RoleAgent}
	admin := &models.User{ID: "a1", Role: models.RoleAdmin}

	if !g.Can(ctx, broker, ActionView, ResourceDashboard, models.RoleAgent) {
		t.Error("agent views agent dashboard")
	}
	if g.Can(ctx, broker, ActionView, ResourceDashboard, models.RoleAdmin) {
		t.Error("agent must not view admin dashboard")
	}
	if !g.Can(ctx, admin, ActionView, ResourceDashboard, models.RoleOwner) {
		t.Error("admin views any dashboard")
	}
}
