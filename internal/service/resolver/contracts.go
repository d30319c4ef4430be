//go:generate mockgen -source=contracts.go -destination=mocks_test.go -package=resolver

package resolver

import (
	"context"

	"service-delivery/internal/domain"
)

// orderStore is the read side of the relational store. Each method returns
// nil, nil when the row does not exist.
type orderStore interface {
	GetContext(ctx context.Context, orderID string) (*domain.OrderContext, error)
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	GetShop(ctx context.Context, id string) (*domain.Shop, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
}

type counter interface {
	Inc()
}
