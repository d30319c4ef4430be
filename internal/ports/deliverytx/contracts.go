package deliverytx

import (
	"context"

	"service-delivery/internal/domain"
)

// Repository is the set of writes one delivery transition may touch. All
// calls share the transaction opened by Runner.
type Repository interface {
	GetByOrderID(ctx context.Context, orderID string) (*domain.Delivery, error)
	GetForUpdate(ctx context.Context, id string) (*domain.Delivery, error)
	Insert(ctx context.Context, d *domain.Delivery) error
	Update(ctx context.Context, d *domain.Delivery) error
	GetAgentForUpdate(ctx context.Context, id string) (*domain.Agent, error)
	SetAgentAvailability(ctx context.Context, id string, available bool) error
	CompleteAgentDelivery(ctx context.Context, id string) error
	// LockOrderStatus returns "" for an order that does not exist.
	LockOrderStatus(ctx context.Context, orderID string) (domain.OrderStatus, error)
	SetOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
}

// Runner is a transaction runner
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
