package delivery

import (
	"context"
	"fmt"
	"strings"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
	"service-delivery/internal/logx"
	"service-delivery/internal/ports/deliverytx"
)

// Accept assigns an open delivery to agentID. Accepting a delivery that
// another agent already holds is a conflict; repeating one's own accept
// returns the delivery unchanged.
func (s *Service) Accept(ctx context.Context, deliveryID, agentID string) (domain.Delivery, error) {
	deliveryID, err := requireID(deliveryID)
	if err != nil {
		return domain.Delivery{}, err
	}
	agentID, err = requireID(agentID)
	if err != nil {
		return domain.Delivery{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		out     domain.Delivery
		changed bool
	)
	err = s.deps.Store.WithTx(ctx, func(tx deliverytx.Repository) error {
		d, err := lockDelivery(ctx, tx, deliveryID)
		if err != nil {
			return err
		}
		if err := ensureOrderOpen(ctx, tx, d.OrderID); err != nil {
			return err
		}
		if d.HasAgent() {
			if *d.AgentID != agentID {
				return fmt.Errorf("delivery %q already accepted: %w", deliveryID, apperr.ErrConflict)
			}
			out = *d
			return nil
		}
		if err := d.ValidateTransition(domain.DeliveryAssigned, false, true); err != nil {
			return err
		}
		if err := s.assignAgent(ctx, tx, d, agentID); err != nil {
			return err
		}
		if err := tx.Update(ctx, d); err != nil {
			return err
		}
		out, changed = *d, true
		return nil
	})
	if err != nil {
		return domain.Delivery{}, err
	}

	if changed {
		s.deps.Logger.Info("delivery accepted",
			logx.String("event", "delivery_accepted"),
			logx.String("delivery_id", out.ID),
			logx.String("order_id", out.OrderID),
			logx.String("agent_id", agentID),
		)
		s.publish(ctx, domain.EventDeliveryAccepted, out)
	}
	return out, nil
}

// AcceptAs accepts on behalf of the agent profile owned by actor.
func (s *Service) AcceptAs(ctx context.Context, deliveryID string, actor domain.Actor) (domain.Delivery, error) {
	if actor.Role != domain.RoleAgent {
		return domain.Delivery{}, apperr.ErrForbidden
	}
	agent, err := s.agentFor(ctx, actor.ID)
	if err != nil {
		return domain.Delivery{}, err
	}
	return s.Accept(ctx, deliveryID, agent.ID)
}

func (s *Service) agentFor(ctx context.Context, actorID string) (*domain.Agent, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	a, err := s.deps.Agents.GetByUserID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		a, err = s.deps.Agents.Get(ctx, actorID)
		if err != nil {
			return nil, err
		}
	}
	if a == nil {
		return nil, &apperr.NotFoundError{Resource: "agent", ID: actorID}
	}
	return a, nil
}

// Update applies a partial update. Every status change goes through
// Delivery.ValidateTransition; a rejected update leaves the stored record as
// it was.
func (s *Service) Update(ctx context.Context, id string, u domain.DeliveryUpdate) (domain.Delivery, error) {
	id, err := requireID(id)
	if err != nil {
		return domain.Delivery{}, err
	}
	if err := validateUpdate(&u); err != nil {
		return domain.Delivery{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		out  domain.Delivery
		from domain.DeliveryStatus
	)
	err = s.deps.Store.WithTx(ctx, func(tx deliverytx.Repository) error {
		d, err := lockDelivery(ctx, tx, id)
		if err != nil {
			return err
		}
		if u.ExpectedVersion != nil && *u.ExpectedVersion != d.Version {
			return fmt.Errorf("delivery %q is at version %d, not %d: %w", id, d.Version, *u.ExpectedVersion, apperr.ErrConflict)
		}
		if d.Status.Terminal() {
			return apperr.ErrInvalidTransition
		}
		if u.Status != nil || u.AgentID != nil {
			if err := ensureOrderOpen(ctx, tx, d.OrderID); err != nil {
				return err
			}
		}
		from = d.Status

		assigning := u.AgentID != nil && !d.HasAgent()
		if u.AgentID != nil && d.HasAgent() && *d.AgentID != *u.AgentID {
			return fmt.Errorf("delivery %q is held by another agent: %w", id, apperr.ErrConflict)
		}
		if u.Status != nil {
			if err := d.ValidateTransition(*u.Status, u.PhotoURL != nil, assigning); err != nil {
				return err
			}
		}

		now := s.now()
		if assigning {
			if err := s.assignAgent(ctx, tx, d, *u.AgentID); err != nil {
				return err
			}
		}
		if u.PhotoURL != nil {
			d.PhotoURL = u.PhotoURL
			d.PhotoUploadedAt = &now
		}
		if u.Notes != nil {
			d.Notes = u.Notes
		}
		if u.Pickup != nil {
			c := *u.Pickup
			d.Pickup.Location = &c
		}
		if u.Dropoff != nil {
			c := *u.Dropoff
			d.Dropoff.Location = &c
		}
		if u.Status != nil && *u.Status != d.Status {
			if err := s.applyStatus(ctx, tx, d, *u.Status); err != nil {
				return err
			}
		}

		if err := tx.Update(ctx, d); err != nil {
			return err
		}
		out = *d
		return nil
	})
	if err != nil {
		return domain.Delivery{}, err
	}

	if out.Status != from {
		s.deps.Logger.Info("delivery status changed",
			logx.String("event", "delivery_status_changed"),
			logx.String("delivery_id", out.ID),
			logx.String("order_id", out.OrderID),
			logx.String("from", string(from)),
			logx.String("to", string(out.Status)),
		)
	}
	s.publish(ctx, domain.EventDeliveryUpdated, out)
	return out, nil
}

// applyStatus moves d to status and performs the side effects of that step.
func (s *Service) applyStatus(ctx context.Context, tx deliverytx.Repository, d *domain.Delivery, status domain.DeliveryStatus) error {
	now := s.now()
	switch status {
	case domain.DeliveryPickedUp:
		d.PickedUpAt = &now
		if err := tx.SetOrderStatus(ctx, d.OrderID, domain.OrderInTransit); err != nil {
			return err
		}
	case domain.DeliveryInTransit:
		if d.PickedUpAt == nil {
			d.PickedUpAt = &now
		}
	case domain.DeliveryDelivered:
		d.DeliveredAt = &now
		if err := tx.SetOrderStatus(ctx, d.OrderID, domain.OrderDelivered); err != nil {
			return err
		}
		if d.HasAgent() {
			if err := tx.CompleteAgentDelivery(ctx, *d.AgentID); err != nil {
				return err
			}
		}
	}
	d.Status = status
	return nil
}

// assignAgent sets the agent and assigned_at together and takes the agent
// off the available pool.
func (s *Service) assignAgent(ctx context.Context, tx deliverytx.Repository, d *domain.Delivery, agentID string) error {
	agent, err := tx.GetAgentForUpdate(ctx, agentID)
	if err != nil {
		return err
	}
	if agent == nil {
		return &apperr.NotFoundError{Resource: "agent", ID: agentID}
	}
	if agent.Approval != domain.ApprovalApproved {
		return apperr.ErrAgentNotEligible
	}
	now := s.now()
	id := agent.ID
	d.AgentID = &id
	d.AssignedAt = &now
	return tx.SetAgentAvailability(ctx, id, false)
}

// ReleaseForCancelledOrder detaches the agent from an undelivered delivery
// whose order was cancelled and makes them available again. The delivery
// record is kept. It reports whether an agent was released.
func (s *Service) ReleaseForCancelledOrder(ctx context.Context, orderID string) (bool, error) {
	orderID, err := requireID(orderID)
	if err != nil {
		return false, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		agentID string
		out     domain.Delivery
	)
	err = s.deps.Store.WithTx(ctx, func(tx deliverytx.Repository) error {
		found, err := tx.GetByOrderID(ctx, orderID)
		if err != nil || found == nil {
			return err
		}
		d, err := lockDelivery(ctx, tx, found.ID)
		if err != nil {
			return err
		}
		if d.Status.Terminal() || !d.HasAgent() {
			return nil
		}
		agentID = *d.AgentID
		d.AgentID = nil
		d.AssignedAt = nil
		if err := tx.Update(ctx, d); err != nil {
			return err
		}
		out = *d
		return tx.SetAgentAvailability(ctx, agentID, true)
	})
	if err != nil {
		return false, err
	}
	if agentID == "" {
		return false, nil
	}
	s.deps.Logger.Info("agent released for cancelled order",
		logx.String("event", "agent_released"),
		logx.String("order_id", orderID),
		logx.String("agent_id", agentID),
	)
	s.publish(ctx, domain.EventDeliveryUpdated, out)
	return true, nil
}

// ensureOrderOpen rejects delivery changes once the order is cancelled or
// delivered.
func ensureOrderOpen(ctx context.Context, tx deliverytx.Repository, orderID string) error {
	st, err := tx.LockOrderStatus(ctx, orderID)
	if err != nil {
		return err
	}
	if st.Terminal() {
		return fmt.Errorf("order %q is %s: %w", orderID, st, apperr.ErrInvalidTransition)
	}
	return nil
}

func lockDelivery(ctx context.Context, tx deliverytx.Repository, id string) (*domain.Delivery, error) {
	d, err := tx.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, &apperr.NotFoundError{Resource: "delivery", ID: id}
	}
	return d, nil
}

func validateUpdate(u *domain.DeliveryUpdate) error {
	if u.Empty() {
		return apperr.ErrInvalid
	}
	if u.Status != nil {
		st := domain.ParseDeliveryStatus(string(*u.Status))
		if !st.Valid() {
			return apperr.ErrInvalid
		}
		u.Status = &st
	}
	if u.AgentID != nil && strings.TrimSpace(*u.AgentID) == "" {
		return apperr.ErrInvalid
	}
	if u.PhotoURL != nil {
		p := strings.TrimSpace(*u.PhotoURL)
		if p == "" {
			return apperr.ErrInvalid
		}
		u.PhotoURL = &p
	}
	if u.Pickup != nil && !u.Pickup.Valid() {
		return apperr.ErrInvalid
	}
	if u.Dropoff != nil && !u.Dropoff.Valid() {
		return apperr.ErrInvalid
	}
	return nil
}
