package agent

import (
	"context"
	"time"

	"service-delivery/internal/domain"
)

// agentRepository defines storage operations required by the business layer.
// Lookups and updates return nil, nil when the agent does not exist.
type agentRepository interface {
	Get(ctx context.Context, id string) (*domain.Agent, error)
	List(ctx context.Context, f domain.AgentFilter) ([]domain.Agent, error)
	Create(ctx context.Context, a *domain.Agent) error
	SetAvailability(ctx context.Context, id string, available bool) (*domain.Agent, error)
	UpdateLocation(ctx context.Context, id string, c domain.Coordinates, at time.Time) (*domain.Agent, error)
	Review(ctx context.Context, id string, status domain.ApprovalStatus, reviewer string, at time.Time) (*domain.Agent, error)
}
