package delivery

import (
	"context"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
)

// Get returns a delivery by id.
func (s *Service) Get(ctx context.Context, id string) (domain.Delivery, error) {
	id, err := requireID(id)
	if err != nil {
		return domain.Delivery{}, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.deps.Store.Get(ctx, id)
	if err != nil {
		return domain.Delivery{}, err
	}
	if d == nil {
		return domain.Delivery{}, &apperr.NotFoundError{Resource: "delivery", ID: id}
	}
	return *d, nil
}

// GetByOrder returns the delivery of an order.
func (s *Service) GetByOrder(ctx context.Context, orderID string) (domain.Delivery, error) {
	orderID, err := requireID(orderID)
	if err != nil {
		return domain.Delivery{}, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.deps.Store.GetByOrderID(ctx, orderID)
	if err != nil {
		return domain.Delivery{}, err
	}
	if d == nil {
		return domain.Delivery{}, &apperr.NotFoundError{Resource: "delivery", ID: "order:" + orderID}
	}
	return *d, nil
}

// List returns deliveries matching f.
func (s *Service) List(ctx context.Context, f domain.DeliveryFilter) ([]domain.Delivery, error) {
	if f.Limit != nil && *f.Limit < 0 || f.Offset != nil && *f.Offset < 0 {
		return nil, apperr.ErrInvalid
	}
	if f.Status != nil {
		st := domain.ParseDeliveryStatus(string(*f.Status))
		if !st.Valid() {
			return nil, apperr.ErrInvalid
		}
		f.Status = &st
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.deps.Store.List(ctx, f)
}
