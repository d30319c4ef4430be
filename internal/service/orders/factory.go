package orders

import (
	"context"

	"service-delivery/internal/domain"
)

type actionFunc func(context.Context, Event) error

type actionFactory struct {
	byStatus map[domain.OrderStatus]actionFunc
}

func newActionFactory(onPayable, onCancelled actionFunc) *actionFactory {
	return &actionFactory{
		byStatus: map[domain.OrderStatus]actionFunc{
			domain.OrderPaid:      onPayable,
			domain.OrderConfirmed: onPayable,
			// "canceled" arrives here already folded into CANCELLED
			domain.OrderCancelled: onCancelled,
		},
	}
}

func (f *actionFactory) get(status domain.OrderStatus) (actionFunc, bool) {
	fn, ok := f.byStatus[status]
	return fn, ok
}
