package orders

import (
	"time"

	"service-delivery/internal/domain"
)

// Event is an order status change as published by the orders service.
type Event struct {
	OrderID   string
	Status    string
	CreatedAt time.Time
}

// OrderStatus returns the normalized status; spelling variants such as
// "canceled" collapse onto the domain value.
func (e Event) OrderStatus() domain.OrderStatus {
	return domain.ParseOrderStatus(e.Status)
}
