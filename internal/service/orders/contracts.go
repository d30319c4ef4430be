//go:generate mockgen -source=contracts.go -destination=orders_mocks_test.go -package=orders_test

package orders

import (
	"context"

	"service-delivery/internal/domain"
)

// Deliveries is the part of the delivery record manager driven by order
// status changes. Both calls are idempotent per order.
type Deliveries interface {
	// Create ensures a delivery exists for a paid or confirmed order.
	Create(ctx context.Context, orderID string) (domain.CreateResult, error)
	// ReleaseForCancelledOrder detaches the agent from an undelivered
	// delivery and reports whether one was freed.
	ReleaseForCancelledOrder(ctx context.Context, orderID string) (bool, error)
}
