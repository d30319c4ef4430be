package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
)

const agentCols = `id, COALESCE(user_id, ''), name, phone, vehicle_type, approval_status, is_available,
        latitude, longitude, location_updated_at, rating, total_deliveries, reviewed_by, reviewed_at`

// AgentRepo represents delivery agent repository.
type AgentRepo struct{ db *pgxpool.Pool }

// NewAgentRepo creates a new AgentRepo.
func NewAgentRepo(db *pgxpool.Pool) *AgentRepo { return &AgentRepo{db: db} }

func scanAgent(row pgx.Row) (domain.Agent, error) {
	var (
		a        domain.Agent
		lat, lon *float64
	)
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Phone, &a.VehicleType, &a.Approval, &a.Available,
		&lat, &lon, &a.LocationUpdatedAt, &a.Rating, &a.TotalDeliveries, &a.ReviewedBy, &a.ReviewedAt)
	if err != nil {
		return domain.Agent{}, err
	}
	a.Location = coords(lat, lon)
	return a, nil
}

func getAgent(ctx context.Context, q querier, id string, lock bool) (*domain.Agent, error) {
	sql := `SELECT ` + agentCols + ` FROM delivery_agents WHERE id = $1`
	if lock {
		sql += ` FOR UPDATE`
	}
	a, err := scanAgent(q.QueryRow(ctx, sql, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get agent %q: %w", id, err)
	}
	return &a, nil
}

// Get - returns agent by its ID, or nil, nil when absent.
func (r *AgentRepo) Get(ctx context.Context, id string) (*domain.Agent, error) {
	return getAgent(ctx, r.db, id, false)
}

// GetByUserID - returns the agent profile of a user account, or nil, nil.
func (r *AgentRepo) GetByUserID(ctx context.Context, userID string) (*domain.Agent, error) {
	a, err := scanAgent(r.db.QueryRow(ctx, `SELECT `+agentCols+` FROM delivery_agents WHERE user_id = $1`, userID))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get agent by user %q: %w", userID, err)
	}
	return &a, nil
}

// List returns agents ordered by id. If limit/offset are nil, returns the full list.
func (r *AgentRepo) List(ctx context.Context, f domain.AgentFilter) ([]domain.Agent, error) {
	q := `SELECT ` + agentCols + ` FROM delivery_agents WHERE TRUE`
	args := make([]any, 0, 4)
	if f.Approval != nil {
		args = append(args, string(*f.Approval))
		q += fmt.Sprintf(" AND approval_status = $%d", len(args))
	}
	if f.Available != nil {
		args = append(args, *f.Available)
		q += fmt.Sprintf(" AND is_available = $%d", len(args))
	}
	q += " ORDER BY id"
	q, args = paginate(q, args, f.Limit, f.Offset)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Agent, 0, capacity(f.Limit))
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("list agents: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListEligible returns approved and available agents in a stable order.
func (r *AgentRepo) ListEligible(ctx context.Context) ([]domain.Agent, error) {
	approved := domain.ApprovalApproved
	available := true
	return r.List(ctx, domain.AgentFilter{Approval: &approved, Available: &available})
}

// Create - creates a new agent.
func (r *AgentRepo) Create(ctx context.Context, a *domain.Agent) error {
	var userID *string
	if a.UserID != "" {
		userID = &a.UserID
	}
	var lat, lon *float64
	if a.Location != nil {
		lat, lon = &a.Location.Lat, &a.Location.Lon
	}
	_, err := r.db.Exec(ctx, `
        INSERT INTO delivery_agents (id, user_id, name, phone, vehicle_type, approval_status, is_available,
            latitude, longitude, location_updated_at, rating, total_deliveries)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `, a.ID, userID, a.Name, a.Phone, string(a.VehicleType), string(a.Approval), a.Available,
		lat, lon, a.LocationUpdatedAt, a.Rating, a.TotalDeliveries)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.ErrConflict
		}
		return fmt.Errorf("create agent: %w", err)
	}
	return nil
}

// SetAvailability toggles the availability flag and returns the updated agent.
func (r *AgentRepo) SetAvailability(ctx context.Context, id string, available bool) (*domain.Agent, error) {
	return r.updateReturning(ctx, id, `
        UPDATE delivery_agents
        SET is_available = $2, updated_at = now()
        WHERE id = $1
        RETURNING `+agentCols, available)
}

// UpdateLocation stores a position. location_updated_at never moves backwards,
// so replaying the same push leaves the row as it was.
func (r *AgentRepo) UpdateLocation(ctx context.Context, id string, c domain.Coordinates, at time.Time) (*domain.Agent, error) {
	return r.updateReturning(ctx, id, `
        UPDATE delivery_agents
        SET latitude = $2,
            longitude = $3,
            location_updated_at = GREATEST(COALESCE(location_updated_at, $4), $4),
            updated_at = now()
        WHERE id = $1
        RETURNING `+agentCols, c.Lat, c.Lon, at)
}

// Review records an approval decision. Rejected and suspended agents are
// forced unavailable.
func (r *AgentRepo) Review(ctx context.Context, id string, status domain.ApprovalStatus, reviewer string, at time.Time) (*domain.Agent, error) {
	return r.updateReturning(ctx, id, `
        UPDATE delivery_agents
        SET approval_status = $2,
            is_available = CASE WHEN $2 IN ('rejected', 'suspended') THEN FALSE ELSE is_available END,
            reviewed_by = $3,
            reviewed_at = $4,
            updated_at = now()
        WHERE id = $1
        RETURNING `+agentCols, string(status), reviewer, at)
}

func (r *AgentRepo) updateReturning(ctx context.Context, id, sql string, args ...any) (*domain.Agent, error) {
	a, err := scanAgent(r.db.QueryRow(ctx, sql, append([]any{id}, args...)...))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("update agent %q: %w", id, err)
	}
	return &a, nil
}

func paginate(q string, args []any, limit, offset *int) (string, []any) {
	if limit != nil {
		args = append(args, *limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset != nil {
		args = append(args, *offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return q, args
}

func capacity(limit *int) int {
	if limit != nil && *limit > 0 {
		return *limit
	}
	return 0
}
