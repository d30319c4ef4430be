package handlers

import (
	"service-delivery/internal/domain"
)

func toCoordinatesDTO(c *domain.Coordinates) *coordinatesDTO {
	if c == nil {
		return nil
	}
	return &coordinatesDTO{Lat: c.Lat, Lon: c.Lon}
}

func (c *coordinatesDTO) toModel() *domain.Coordinates {
	if c == nil {
		return nil
	}
	return &domain.Coordinates{Lat: c.Lat, Lon: c.Lon}
}

func (r updateDeliveryRequest) toModel() domain.DeliveryUpdate {
	u := domain.DeliveryUpdate{
		AgentID:         r.AgentID,
		Pickup:          r.Pickup.toModel(),
		Dropoff:         r.Dropoff.toModel(),
		PhotoURL:        r.PhotoURL,
		Notes:           r.Notes,
		ExpectedVersion: r.Version,
	}
	if r.Status != nil {
		st := domain.ParseDeliveryStatus(*r.Status)
		u.Status = &st
	}
	return u
}

func deliveryToResponse(d domain.Delivery) deliveryDTO {
	return deliveryDTO{
		ID:      d.ID,
		OrderID: d.OrderID,
		Status:  string(d.Status),
		AgentID: d.AgentID,
		Pickup: endpointDTO{
			Address:  d.Pickup.Address,
			Location: toCoordinatesDTO(d.Pickup.Location),
		},
		Dropoff: endpointDTO{
			Address:  d.Dropoff.Address,
			Location: toCoordinatesDTO(d.Dropoff.Location),
		},
		AssignedAt:      d.AssignedAt,
		PickedUpAt:      d.PickedUpAt,
		DeliveredAt:     d.DeliveredAt,
		PhotoURL:        d.PhotoURL,
		PhotoUploadedAt: d.PhotoUploadedAt,
		Notes:           d.Notes,
		Version:         d.Version,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func deliveriesToResponse(list []domain.Delivery) []deliveryDTO {
	out := make([]deliveryDTO, 0, len(list))
	for _, d := range list {
		out = append(out, deliveryToResponse(d))
	}
	return out
}

func trackingToResponse(s domain.TrackingSnapshot) trackingDTO {
	out := trackingDTO{
		DeliveryID:         s.DeliveryID,
		OrderID:            s.OrderID,
		Status:             string(s.Status),
		State:              string(s.State),
		AgentAssigned:      s.AgentAssigned,
		AgentLocationKnown: s.AgentLocationKnown,
		AgentLocation:      toCoordinatesDTO(s.AgentLocation),
		LocationUpdatedAt:  s.LocationUpdatedAt,
		Pickup:             toCoordinatesDTO(s.Pickup),
		Dropoff:            toCoordinatesDTO(s.Dropoff),
		AssignedAt:         s.AssignedAt,
		PickedUpAt:         s.PickedUpAt,
		DeliveredAt:        s.DeliveredAt,
	}
	if s.Agent != nil {
		out.Agent = &agentContactDTO{
			Name:        s.Agent.Name,
			Phone:       s.Agent.Phone,
			VehicleType: s.Agent.VehicleType,
		}
	}
	return out
}
