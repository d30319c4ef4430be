package domain

import "time"

// TrackingState tells the customer UI which message to show.
type TrackingState string

// List of tracking states
const (
	TrackingAwaitingAgent   TrackingState = "awaiting_agent"
	TrackingLocationUnknown TrackingState = "agent_location_unknown"
	TrackingLive            TrackingState = "live"
	TrackingDelivered       TrackingState = "delivered"
)

// AgentContact is the agent summary shown to customers.
type AgentContact struct {
	Name        string
	Phone       string
	VehicleType VehicleType
}

// TrackingSnapshot is a read-only projection of a delivery for the customer view.
type TrackingSnapshot struct {
	DeliveryID         string
	OrderID            string
	Status             DeliveryStatus
	State              TrackingState
	AgentAssigned      bool
	AgentLocationKnown bool
	AgentLocation      *Coordinates
	LocationUpdatedAt  *time.Time
	Agent              *AgentContact
	Pickup             *Coordinates
	Dropoff            *Coordinates
	AssignedAt         *time.Time
	PickedUpAt         *time.Time
	DeliveredAt        *time.Time
}
