package domain

import "time"

// Agent is a courier account that can be assigned deliveries.
type Agent struct {
	ID                string
	UserID            string
	Name              string
	Phone             string
	VehicleType       VehicleType
	Approval          ApprovalStatus
	Available         bool
	Location          *Coordinates
	LocationUpdatedAt *time.Time
	Rating            float64
	TotalDeliveries   int
	ReviewedBy        *string
	ReviewedAt        *time.Time
}

// Eligible reports whether the agent may be picked by automatic assignment.
func (a Agent) Eligible() bool {
	return a.Approval == ApprovalApproved && a.Available
}

// AgentFilter narrows agent listings.
type AgentFilter struct {
	Approval  *ApprovalStatus
	Available *bool
	Limit     *int
	Offset    *int
}
