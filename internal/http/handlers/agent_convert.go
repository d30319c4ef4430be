package handlers

import (
	"strings"

	"service-delivery/internal/domain"
)

func (r registerAgentRequest) toModel() domain.Agent {
	return domain.Agent{
		UserID:      strings.TrimSpace(r.UserID),
		Name:        r.Name,
		Phone:       strings.TrimSpace(r.Phone),
		VehicleType: domain.VehicleType(strings.ToLower(strings.TrimSpace(r.VehicleType))),
		Location:    r.Location.toModel(),
	}
}

func agentToResponse(a domain.Agent) agentDTO {
	return agentDTO{
		ID:                a.ID,
		UserID:            a.UserID,
		Name:              a.Name,
		Phone:             a.Phone,
		VehicleType:       a.VehicleType,
		ApprovalStatus:    string(a.Approval),
		Available:         a.Available,
		Location:          toCoordinatesDTO(a.Location),
		LocationUpdatedAt: a.LocationUpdatedAt,
		Rating:            a.Rating,
		TotalDeliveries:   a.TotalDeliveries,
		ReviewedBy:        a.ReviewedBy,
		ReviewedAt:        a.ReviewedAt,
	}
}

func agentsToResponse(list []domain.Agent) []agentDTO {
	out := make([]agentDTO, 0, len(list))
	for _, a := range list {
		out = append(out, agentToResponse(a))
	}
	return out
}
