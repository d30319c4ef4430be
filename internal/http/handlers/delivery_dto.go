package handlers

import (
	"time"

	"service-delivery/internal/domain"
)

type createDeliveryRequest struct {
	OrderID string `json:"order_id"`
}

type acceptDeliveryRequest struct {
	AgentID string `json:"agent_id,omitempty"`
}

type coordinatesDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type updateDeliveryRequest struct {
	Status   *string         `json:"status,omitempty"`
	AgentID  *string         `json:"agent_id,omitempty"`
	Pickup   *coordinatesDTO `json:"pickup_location,omitempty"`
	Dropoff  *coordinatesDTO `json:"dropoff_location,omitempty"`
	PhotoURL *string         `json:"photo_url,omitempty"`
	Notes    *string         `json:"notes,omitempty"`
	Version  *int64          `json:"version,omitempty"`
}

type endpointDTO struct {
	Address  string          `json:"address"`
	Location *coordinatesDTO `json:"location,omitempty"`
}

type deliveryDTO struct {
	ID              string      `json:"id"`
	OrderID         string      `json:"order_id"`
	Status          string      `json:"status"`
	AgentID         *string     `json:"agent_id"`
	Pickup          endpointDTO `json:"pickup"`
	Dropoff         endpointDTO `json:"dropoff"`
	AssignedAt      *time.Time  `json:"assigned_at,omitempty"`
	PickedUpAt      *time.Time  `json:"picked_up_at,omitempty"`
	DeliveredAt     *time.Time  `json:"delivered_at,omitempty"`
	PhotoURL        *string     `json:"photo_url,omitempty"`
	PhotoUploadedAt *time.Time  `json:"photo_uploaded_at,omitempty"`
	Notes           *string     `json:"notes,omitempty"`
	Version         int64       `json:"version"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type deliveryResponse struct {
	Success  bool        `json:"success"`
	Created  *bool       `json:"created,omitempty"`
	Delivery deliveryDTO `json:"delivery"`
}

type deliveryListResponse struct {
	Success    bool          `json:"success"`
	Deliveries []deliveryDTO `json:"deliveries"`
	Count      int           `json:"count"`
}

type trackingDTO struct {
	DeliveryID         string           `json:"delivery_id"`
	OrderID            string           `json:"order_id"`
	Status             string           `json:"status"`
	State              string           `json:"state"`
	AgentAssigned      bool             `json:"agent_assigned"`
	AgentLocationKnown bool             `json:"agent_location_known"`
	AgentLocation      *coordinatesDTO  `json:"agent_location,omitempty"`
	LocationUpdatedAt  *time.Time       `json:"location_updated_at,omitempty"`
	Agent              *agentContactDTO `json:"agent,omitempty"`
	Pickup             *coordinatesDTO  `json:"pickup_location,omitempty"`
	Dropoff            *coordinatesDTO  `json:"dropoff_location,omitempty"`
	AssignedAt         *time.Time       `json:"assigned_at,omitempty"`
	PickedUpAt         *time.Time       `json:"picked_up_at,omitempty"`
	DeliveredAt        *time.Time       `json:"delivered_at,omitempty"`
}

type agentContactDTO struct {
	Name        string             `json:"name"`
	Phone       string             `json:"phone"`
	VehicleType domain.VehicleType `json:"vehicle_type"`
}

type trackingResponse struct {
	Success  bool        `json:"success"`
	Tracking trackingDTO `json:"tracking"`
}
