package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryEventType names what happened to a delivery.
type DeliveryEventType string

// List of delivery event types
const (
	EventDeliveryCreated  DeliveryEventType = "delivery_created"
	EventDeliveryAccepted DeliveryEventType = "delivery_accepted"
	EventDeliveryUpdated  DeliveryEventType = "delivery_updated"
)

// DeliveryEvent is published after a delivery write is committed.
type DeliveryEvent struct {
	Type       DeliveryEventType
	DeliveryID string
	OrderID    string
	Status     DeliveryStatus
	AgentID    *string
	Version    int64
	OccurredAt time.Time
	// OrderTotal is set on creation events only.
	OrderTotal *decimal.Decimal
}

// NewDeliveryEvent builds an event snapshot of d.
func NewDeliveryEvent(t DeliveryEventType, d Delivery, at time.Time) DeliveryEvent {
	return DeliveryEvent{
		Type:       t,
		DeliveryID: d.ID,
		OrderID:    d.OrderID,
		Status:     d.Status,
		AgentID:    d.AgentID,
		Version:    d.Version,
		OccurredAt: at,
	}
}
