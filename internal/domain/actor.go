package domain

import "context"

// Role is a marketplace account role.
type Role string

// List of roles
const (
	RoleCustomer   Role = "customer"
	RoleShopkeeper Role = "shopkeeper"
	RoleAgent      Role = "delivery_agent"
	RoleFarmer     Role = "farmer"
	RoleAdmin      Role = "admin"
)

// Actor is the identity performing an operation.
type Actor struct {
	ID   string
	Role Role
}

type actorKey struct{}

// WithActor returns a context carrying the actor.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom extracts the actor, if any.
func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	if !ok || a.ID == "" {
		return Actor{}, false
	}
	return a, true
}
