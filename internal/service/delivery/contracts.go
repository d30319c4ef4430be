package delivery

import (
	"context"

	"service-delivery/internal/domain"
	"service-delivery/internal/ports/deliverytx"
)

type deliveryStore interface {
	deliverytx.Runner
	Get(ctx context.Context, id string) (*domain.Delivery, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.Delivery, error)
	List(ctx context.Context, f domain.DeliveryFilter) ([]domain.Delivery, error)
}

type orderResolver interface {
	Resolve(ctx context.Context, orderID string) (*domain.OrderContext, error)
}

type geocoder interface {
	Resolve(ctx context.Context, address string) (domain.Location, error)
	Reverse(ctx context.Context, c domain.Coordinates) (string, error)
}

// locationWriter persists geocoded coordinates back onto shop and customer rows.
type locationWriter interface {
	SaveShopLocation(ctx context.Context, id string, c domain.Coordinates) error
	SaveCustomerLocation(ctx context.Context, id string, c domain.Coordinates) error
}

type agentDirectory interface {
	Get(ctx context.Context, id string) (*domain.Agent, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Agent, error)
	ListEligible(ctx context.Context) ([]domain.Agent, error)
}

type publisher interface {
	Publish(ctx context.Context, evt domain.DeliveryEvent) error
}

type creationRecorder interface {
	DeliveryCreated(assigned bool)
}
