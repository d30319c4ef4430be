package handlers

import (
	"context"

	"service-delivery/internal/domain"
	"service-delivery/internal/service/agent"
	"service-delivery/internal/service/delivery"
	"service-delivery/internal/service/tracking"
)

type deliveryUsecase interface {
	Create(ctx context.Context, orderID string) (domain.CreateResult, error)
	Get(ctx context.Context, id string) (domain.Delivery, error)
	List(ctx context.Context, f domain.DeliveryFilter) ([]domain.Delivery, error)
	Update(ctx context.Context, id string, u domain.DeliveryUpdate) (domain.Delivery, error)
	Accept(ctx context.Context, deliveryID, agentID string) (domain.Delivery, error)
	AcceptAs(ctx context.Context, deliveryID string, actor domain.Actor) (domain.Delivery, error)
}

// NewDeliveryUsecase wires a delivery.Service into a deliveryUsecase.
func NewDeliveryUsecase(svc *delivery.Service) deliveryUsecase {
	return svc
}

type agentUsecase interface {
	Register(ctx context.Context, a domain.Agent) (domain.Agent, error)
	Get(ctx context.Context, id string) (domain.Agent, error)
	List(ctx context.Context, f domain.AgentFilter) ([]domain.Agent, error)
	SetAvailability(ctx context.Context, id string, available bool) (domain.Agent, error)
	PushLocation(ctx context.Context, id string, c domain.Coordinates) (domain.Agent, error)
	Review(ctx context.Context, id string, decision domain.ApprovalStatus) (domain.Agent, error)
}

// NewAgentUsecase wires an agent.Service into an agentUsecase.
func NewAgentUsecase(svc *agent.Service) agentUsecase {
	return svc
}

type trackingUsecase interface {
	ForOrder(ctx context.Context, orderID string) (domain.TrackingSnapshot, error)
	ForDelivery(ctx context.Context, id string) (domain.TrackingSnapshot, error)
}

// NewTrackingUsecase wires a tracking.Service into a trackingUsecase.
func NewTrackingUsecase(svc *tracking.Service) trackingUsecase {
	return svc
}
