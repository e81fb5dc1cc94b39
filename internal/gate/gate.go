// Package gate is the central authorization checkpoint for role-gated
// operations. Each resource type registers a Policy; policies switch
// exhaustively over the closed models.Role set so an unrecognized role can
// never fall through to an implicit allow.
package gate

import (
	"context"
	"errors"

	"github.com/Chaturved5/estate-portal/internal/models"
)

// Action describes the kind of operation a user wants to perform.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionReview Action = "review"
)

// Sentinel errors returned by Gate.Authorize.
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNoPolicyDefined = errors.New("no policy defined for resource")
)

// Policy defines authorization rules for a resource type. For create/list
// checks resource may be nil.
type Policy interface {
	Can(ctx context.Context, user *models.User, action Action, resource any) bool
}

// Gate routes authorization checks to the policy registered for a resource
// type.
type Gate struct {
	policies map[string]Policy
}

// NewGate creates an empty Gate ready to register policies.
func NewGate() *Gate {
	return &Gate{policies: make(map[string]Policy)}
}

// Register adds a policy for a given resource type (e.g. "listing").
// Overwrites any existing policy for that type.
func (g *Gate) Register(resourceType string, p Policy) {
	g.policies[resourceType] = p
}

// Authorize checks authorization and returns an error if denied. A nil user,
// an unknown role, or a denied action all yield ErrUnauthorized; a missing
// policy yields ErrNoPolicyDefined.
func (g *Gate) Authorize(ctx context.Context, user *models.User, action Action, resourceType string, resource any) error {
	if user == nil || !user.Role.Known() {
		return ErrUnauthorized
	}
	p, ok := g.policies[resourceType]
	if !ok {
		return ErrNoPolicyDefined
	}
	if !p.Can(ctx, user, action, resource) {
		return ErrUnauthorized
	}
	return nil
}

// Can is a convenience wrapper returning bool instead of error.
func (g *Gate) Can(ctx context.Context, user *models.User, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, user, action, resourceType, resource) == nil
}
