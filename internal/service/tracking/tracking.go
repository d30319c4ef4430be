// Package tracking builds the customer-facing view of a delivery.
package tracking

import (
	"context"
	"strings"
	"time"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
)

// Project derives the tracking snapshot of d. agent is the assigned agent, or
// nil when none is assigned or the profile could not be loaded.
func Project(d domain.Delivery, agent *domain.Agent) domain.TrackingSnapshot {
	snap := domain.TrackingSnapshot{
		DeliveryID:    d.ID,
		OrderID:       d.OrderID,
		Status:        d.Status,
		AgentAssigned: d.HasAgent(),
		Pickup:        copyCoords(d.Pickup.Location),
		Dropoff:       copyCoords(d.Dropoff.Location),
		AssignedAt:    d.AssignedAt,
		PickedUpAt:    d.PickedUpAt,
		DeliveredAt:   d.DeliveredAt,
	}

	if snap.AgentAssigned && agent != nil {
		snap.Agent = &domain.AgentContact{
			Name:        agent.Name,
			Phone:       agent.Phone,
			VehicleType: agent.VehicleType,
		}
		if agent.Location != nil && agent.Location.Valid() {
			snap.AgentLocationKnown = true
			snap.AgentLocation = copyCoords(agent.Location)
			snap.LocationUpdatedAt = agent.LocationUpdatedAt
		}
	}

	switch {
	case d.Status == domain.DeliveryDelivered:
		snap.State = domain.TrackingDelivered
	case !snap.AgentAssigned:
		snap.State = domain.TrackingAwaitingAgent
	case !snap.AgentLocationKnown:
		snap.State = domain.TrackingLocationUnknown
	default:
		snap.State = domain.TrackingLive
	}
	return snap
}

func copyCoords(c *domain.Coordinates) *domain.Coordinates {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

type deliveryReader interface {
	Get(ctx context.Context, id string) (*domain.Delivery, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.Delivery, error)
}

type agentReader interface {
	Get(ctx context.Context, id string) (*domain.Agent, error)
}

// Service serves tracking snapshots. Customers poll it.
type Service struct {
	deliveries       deliveryReader
	agents           agentReader
	operationTimeout time.Duration
}

// NewService creates a tracking Service.
func NewService(deliveries deliveryReader, agents agentReader, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{deliveries: deliveries, agents: agents, operationTimeout: timeout}
}

// ForOrder returns the snapshot of the order's delivery.
func (s *Service) ForOrder(ctx context.Context, orderID string) (domain.TrackingSnapshot, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return domain.TrackingSnapshot{}, apperr.ErrInvalid
	}
	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()

	d, err := s.deliveries.GetByOrderID(ctx, orderID)
	if err != nil {
		return domain.TrackingSnapshot{}, err
	}
	if d == nil {
		return domain.TrackingSnapshot{}, &apperr.NotFoundError{Resource: "delivery", ID: "order:" + orderID}
	}
	return s.project(ctx, *d)
}

// ForDelivery returns the snapshot of a delivery by id.
func (s *Service) ForDelivery(ctx context.Context, id string) (domain.TrackingSnapshot, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.TrackingSnapshot{}, apperr.ErrInvalid
	}
	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()

	d, err := s.deliveries.Get(ctx, id)
	if err != nil {
		return domain.TrackingSnapshot{}, err
	}
	if d == nil {
		return domain.TrackingSnapshot{}, &apperr.NotFoundError{Resource: "delivery", ID: id}
	}
	return s.project(ctx, *d)
}

func (s *Service) project(ctx context.Context, d domain.Delivery) (domain.TrackingSnapshot, error) {
	if !d.HasAgent() {
		return Project(d, nil), nil
	}
	a, err := s.agents.Get(ctx, *d.AgentID)
	if err != nil {
		return domain.TrackingSnapshot{}, err
	}
	return Project(d, a), nil
}
