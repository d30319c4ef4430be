package kafka

import (
	"strings"
	"time"

	"service-delivery/internal/domain"
	"service-delivery/internal/service/orders"
)

// EventDTO is the wire form of an order status event
type EventDTO struct {
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ToDomain converts EventDTO to orders.Event
func ToDomain(dto EventDTO) orders.Event {
	return orders.Event{
		OrderID:   strings.TrimSpace(dto.OrderID),
		Status:    strings.TrimSpace(dto.Status),
		CreatedAt: dto.CreatedAt,
	}
}

// DeliveryEventDTO is the wire form of domain.DeliveryEvent
type DeliveryEventDTO struct {
	Type       string    `json:"type"`
	DeliveryID string    `json:"delivery_id"`
	OrderID    string    `json:"order_id"`
	Status     string    `json:"status"`
	AgentID    *string   `json:"agent_id,omitempty"`
	Version    int64     `json:"version"`
	OccurredAt time.Time `json:"occurred_at"`
	// OrderTotal is a fixed two-decimal amount, e.g. "249.50".
	OrderTotal *string `json:"order_total,omitempty"`
}

// FromDeliveryEvent converts a domain.DeliveryEvent to its wire form
func FromDeliveryEvent(e domain.DeliveryEvent) DeliveryEventDTO {
	dto := DeliveryEventDTO{
		Type:       string(e.Type),
		DeliveryID: e.DeliveryID,
		OrderID:    e.OrderID,
		Status:     string(e.Status),
		AgentID:    e.AgentID,
		Version:    e.Version,
		OccurredAt: e.OccurredAt.UTC(),
	}
	if e.OrderTotal != nil {
		total := e.OrderTotal.StringFixed(2)
		dto.OrderTotal = &total
	}
	return dto
}
