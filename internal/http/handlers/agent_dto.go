package handlers

import (
	"time"

	"service-delivery/internal/domain"
)

type registerAgentRequest struct {
	UserID      string          `json:"user_id,omitempty"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	VehicleType string          `json:"vehicle_type,omitempty"`
	Location    *coordinatesDTO `json:"location,omitempty"`
}

type availabilityRequest struct {
	Available *bool `json:"available"`
}

type locationRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

type reviewRequest struct {
	Decision string `json:"decision"`
}

type agentDTO struct {
	ID                string             `json:"id"`
	UserID            string             `json:"user_id,omitempty"`
	Name              string             `json:"name"`
	Phone             string             `json:"phone"`
	VehicleType       domain.VehicleType `json:"vehicle_type"`
	ApprovalStatus    string             `json:"approval_status"`
	Available         bool               `json:"is_available"`
	Location          *coordinatesDTO    `json:"location,omitempty"`
	LocationUpdatedAt *time.Time         `json:"location_updated_at,omitempty"`
	Rating            float64            `json:"rating"`
	TotalDeliveries   int                `json:"total_deliveries"`
	ReviewedBy        *string            `json:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time         `json:"reviewed_at,omitempty"`
}

type agentResponse struct {
	Success bool     `json:"success"`
	Agent   agentDTO `json:"agent"`
}

type agentListResponse struct {
	Success bool       `json:"success"`
	Agents  []agentDTO `json:"agents"`
	Count   int        `json:"count"`
}
