package agent

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
	"service-delivery/internal/logx"
)

// Service coordinates agent business logic and orchestrates repository calls.
type Service struct {
	repo             agentRepository
	logger           logx.Logger
	operationTimeout time.Duration
	now              func() time.Time
	newID            func() string
}

// NewService creates and configures an agent Service.
func NewService(r agentRepository, logger logx.Logger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		repo:             r,
		logger:           logx.OrNop(logger),
		operationTimeout: timeout,
		now:              func() time.Time { return time.Now().UTC() },
		newID:            uuid.NewString,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

func validateRegister(a *domain.Agent) error {
	if a == nil {
		return apperr.ErrInvalid
	}
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return apperr.ErrInvalid
	}
	if !domain.ValidatePhone(a.Phone) {
		return apperr.ErrInvalid
	}
	if a.VehicleType == "" {
		a.VehicleType = domain.VehicleBicycle
	}
	if !a.VehicleType.Valid() {
		return apperr.ErrInvalid
	}
	if a.Location != nil && !a.Location.Valid() {
		return apperr.ErrInvalid
	}
	return nil
}

// Register creates a pending, unavailable agent awaiting admin review.
func (s *Service) Register(ctx context.Context, a domain.Agent) (domain.Agent, error) {
	if err := validateRegister(&a); err != nil {
		return domain.Agent{}, err
	}
	a.ID = s.newID()
	a.Approval = domain.ApprovalPending
	a.Available = false
	a.Rating = 0
	a.TotalDeliveries = 0
	a.ReviewedBy, a.ReviewedAt = nil, nil
	if a.Location != nil {
		now := s.now()
		a.LocationUpdatedAt = &now
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.repo.Create(ctx, &a); err != nil {
		return domain.Agent{}, err
	}
	s.logger.Info("agent registered",
		logx.String("event", "agent_registered"),
		logx.String("agent_id", a.ID),
		logx.String("vehicle", string(a.VehicleType)),
	)
	return a, nil
}

// Get retrieves an agent by its ID.
func (s *Service) Get(ctx context.Context, id string) (domain.Agent, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Agent{}, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return found(id)(s.repo.Get(ctx, id))
}

// List returns agents with optional filters and pagination.
func (s *Service) List(ctx context.Context, f domain.AgentFilter) ([]domain.Agent, error) {
	if f.Limit != nil && *f.Limit < 0 || f.Offset != nil && *f.Offset < 0 {
		return nil, apperr.ErrInvalid
	}
	if f.Approval != nil && !f.Approval.Valid() {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.List(ctx, f)
}

// SetAvailability toggles whether the agent takes new deliveries. Only
// approved agents can go available.
func (s *Service) SetAvailability(ctx context.Context, id string, available bool) (domain.Agent, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if available {
		a, err := found(id)(s.repo.Get(ctx, id))
		if err != nil {
			return domain.Agent{}, err
		}
		if a.Approval != domain.ApprovalApproved {
			return domain.Agent{}, apperr.ErrAgentNotEligible
		}
	}
	return found(id)(s.repo.SetAvailability(ctx, id, available))
}

// PushLocation records the agent's current position. Replaying a push is
// harmless: the stored timestamp never moves backwards.
func (s *Service) PushLocation(ctx context.Context, id string, c domain.Coordinates) (domain.Agent, error) {
	if strings.TrimSpace(id) == "" || !c.Valid() {
		return domain.Agent{}, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return found(id)(s.repo.UpdateLocation(ctx, id, c, s.now()))
}

// Review records an admin decision taken by the actor in ctx.
func (s *Service) Review(ctx context.Context, id string, decision domain.ApprovalStatus) (domain.Agent, error) {
	actor, ok := domain.ActorFrom(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.Agent{}, apperr.ErrForbidden
	}
	if decision == domain.ApprovalPending || !decision.Valid() {
		return domain.Agent{}, apperr.ErrInvalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	a, err := found(id)(s.repo.Review(ctx, id, decision, actor.ID, s.now()))
	if err != nil {
		return domain.Agent{}, err
	}
	s.logger.Info("agent reviewed",
		logx.String("event", "agent_reviewed"),
		logx.String("agent_id", a.ID),
		logx.String("decision", string(decision)),
		logx.String("reviewer", actor.ID),
	)
	return a, nil
}

func found(id string) func(*domain.Agent, error) (domain.Agent, error) {
	return func(a *domain.Agent, err error) (domain.Agent, error) {
		if err != nil {
			return domain.Agent{}, err
		}
		if a == nil {
			return domain.Agent{}, &apperr.NotFoundError{Resource: "agent", ID: id}
		}
		return *a, nil
	}
}
