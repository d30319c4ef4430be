package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
	"service-delivery/internal/logx"
	"service-delivery/internal/ports/deliverytx"
	"service-delivery/internal/service/selector"
)

// Deps groups the collaborators of Service.
type Deps struct {
	Store     deliveryStore
	Orders    orderResolver
	Geocoder  geocoder
	Locations locationWriter
	Agents    agentDirectory
	Events    publisher
	Metrics   creationRecorder
	Logger    logx.Logger
}

// Config bounds service operations. GeocodeTimeout caps each address lookup
// so that a hanging provider cannot use up the creation budget.
type Config struct {
	OperationTimeout time.Duration
	CreateTimeout    time.Duration
	GeocodeTimeout   time.Duration
}

// Service owns the delivery record lifecycle.
type Service struct {
	deps  Deps
	cfg   Config
	now   func() time.Time
	newID func() string
}

// NewService creates a delivery Service.
func NewService(d Deps, cfg Config) *Service {
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 3 * time.Second
	}
	if cfg.CreateTimeout <= 0 {
		cfg.CreateTimeout = 30 * time.Second
	}
	d.Logger = logx.OrNop(d.Logger)
	return &Service{
		deps:  d,
		cfg:   cfg,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.OperationTimeout)
}

// Create makes the delivery for a paid or confirmed order. It is idempotent:
// when the order already has a delivery, that record is returned with
// Created=false.
func (s *Service) Create(ctx context.Context, orderID string) (domain.CreateResult, error) {
	orderID, err := requireID(orderID)
	if err != nil {
		return domain.CreateResult{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.CreateTimeout)
	defer cancel()

	existing, err := s.deps.Store.GetByOrderID(ctx, orderID)
	if err != nil {
		return domain.CreateResult{}, err
	}
	if existing != nil {
		return domain.CreateResult{Delivery: *existing}, nil
	}

	oc, err := s.deps.Orders.Resolve(ctx, orderID)
	if err != nil {
		return domain.CreateResult{}, err
	}
	if !oc.Order.Status.Payable() {
		return domain.CreateResult{}, fmt.Errorf("order %q is %s: %w", orderID, oc.Order.Status, apperr.ErrOrderNotPayable)
	}

	pickup, err := s.locate(ctx, oc.PickupAddress(), oc.Order.ShopLocation, func(c domain.Coordinates) error {
		if oc.Shop == nil {
			return nil
		}
		return s.deps.Locations.SaveShopLocation(ctx, oc.Shop.ID, c)
	})
	if err != nil {
		return domain.CreateResult{}, err
	}
	dropoff, err := s.locate(ctx, oc.DropoffAddress(), oc.Order.CustomerLocation, func(c domain.Coordinates) error {
		if oc.Customer == nil {
			return nil
		}
		return s.deps.Locations.SaveCustomerLocation(ctx, oc.Customer.ID, c)
	})
	if err != nil {
		return domain.CreateResult{}, err
	}

	pickupAddr := s.describe(ctx, oc.PickupAddress(), pickup)
	dropoffAddr := s.describe(ctx, oc.DropoffAddress(), dropoff)

	pool, err := s.deps.Agents.ListEligible(ctx)
	if err != nil {
		return domain.CreateResult{}, err
	}
	pick, picked := selector.Select(pickup, pool)

	now := s.now()
	d := domain.Delivery{
		ID:        s.newID(),
		OrderID:   orderID,
		Status:    domain.DeliveryAssigned,
		Pickup:    domain.Endpoint{Address: pickupAddr, Location: pickup.Ptr()},
		Dropoff:   domain.Endpoint{Address: dropoffAddr, Location: dropoff.Ptr()},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var result domain.CreateResult
	err = s.deps.Store.WithTx(ctx, func(tx deliverytx.Repository) error {
		prior, err := tx.GetByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		if prior != nil {
			result = domain.CreateResult{Delivery: *prior}
			return nil
		}

		if picked {
			agent, err := tx.GetAgentForUpdate(ctx, pick.Agent.ID)
			if err != nil {
				return err
			}
			if agent != nil && agent.Eligible() {
				id := agent.ID
				d.AgentID = &id
				d.AssignedAt = &now
				if err := tx.SetAgentAvailability(ctx, id, false); err != nil {
					return err
				}
			} else {
				s.deps.Logger.Warn("selected agent no longer eligible",
					logx.String("order_id", orderID),
					logx.String("agent_id", pick.Agent.ID),
				)
			}
		}

		if err := tx.Insert(ctx, &d); err != nil {
			return err
		}
		result = domain.CreateResult{Delivery: d, Created: true}
		return nil
	})
	if errors.Is(err, apperr.ErrConflict) {
		// lost the insert race to a concurrent creator
		winner, getErr := s.deps.Store.GetByOrderID(ctx, orderID)
		if getErr != nil {
			return domain.CreateResult{}, getErr
		}
		if winner != nil {
			return domain.CreateResult{Delivery: *winner}, nil
		}
	}
	if err != nil {
		return domain.CreateResult{}, err
	}
	if !result.Created {
		return result, nil
	}

	total := oc.Order.TotalAmount
	fields := []logx.Field{
		logx.String("event", "delivery_created"),
		logx.String("delivery_id", d.ID),
		logx.String("order_id", orderID),
		logx.String("order_total", total.StringFixed(2)),
		logx.Bool("pickup_resolved", pickup.IsResolved()),
		logx.Bool("dropoff_resolved", dropoff.IsResolved()),
	}
	if d.HasAgent() {
		fields = append(fields, logx.String("agent_id", *d.AgentID))
		if picked && pick.HasDistance {
			fields = append(fields, logx.Float64("distance_km", pick.DistanceKm))
		}
	}
	s.deps.Logger.Info("delivery created", fields...)
	if s.deps.Metrics != nil {
		s.deps.Metrics.DeliveryCreated(d.HasAgent())
	}
	evt := domain.NewDeliveryEvent(domain.EventDeliveryCreated, d, s.now())
	evt.OrderTotal = &total
	s.emit(ctx, evt)

	return result, nil
}

// locate returns known coordinates, or geocodes address and writes the result
// back through save. Credential failures and lookups that run out of time
// degrade to Unresolved; only the caller's own cancellation is an error.
func (s *Service) locate(ctx context.Context, address string, known *domain.Coordinates, save func(domain.Coordinates) error) (domain.Location, error) {
	if loc := domain.LocationOf(known); loc.IsResolved() {
		return loc, nil
	}
	if strings.TrimSpace(address) == "" || s.deps.Geocoder == nil {
		return domain.Unresolved(), nil
	}

	gctx, cancel := s.geocodeContext(ctx)
	loc, err := s.deps.Geocoder.Resolve(gctx, address)
	cancel()
	switch {
	case err == nil:
	case errors.Is(err, apperr.ErrGeocoderAuth), errors.Is(err, apperr.ErrInvalid):
		s.deps.Logger.Error("geocoding unavailable, continuing without coordinates",
			logx.String("address", address),
			logx.Err(err),
		)
		return domain.Unresolved(), nil
	case ctx.Err() == nil && (errors.Is(err, context.DeadlineExceeded) || errors.Is(err, apperr.ErrTransient)):
		s.deps.Logger.Warn("geocoding timed out, continuing without coordinates",
			logx.String("address", address),
			logx.Err(err),
		)
		return domain.Unresolved(), nil
	default:
		return domain.Unresolved(), err
	}

	if c, ok := loc.Coordinates(); ok && s.deps.Locations != nil {
		if err := save(c); err != nil {
			s.deps.Logger.Warn("failed to store geocoded location",
				logx.String("address", address),
				logx.Err(err),
			)
		}
	}
	return loc, nil
}

// describe fills a missing endpoint address from its coordinates. Failures
// leave the address empty.
func (s *Service) describe(ctx context.Context, address string, loc domain.Location) string {
	if address != "" || s.deps.Geocoder == nil {
		return address
	}
	c, ok := loc.Coordinates()
	if !ok {
		return address
	}

	gctx, cancel := s.geocodeContext(ctx)
	defer cancel()
	name, err := s.deps.Geocoder.Reverse(gctx, c)
	if err != nil {
		s.deps.Logger.Warn("reverse geocoding failed",
			logx.Float64("lat", c.Lat),
			logx.Float64("lon", c.Lon),
			logx.Err(err),
		)
		return address
	}
	return name
}

func (s *Service) geocodeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.GeocodeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.GeocodeTimeout)
}

func (s *Service) publish(ctx context.Context, t domain.DeliveryEventType, d domain.Delivery) {
	s.emit(ctx, domain.NewDeliveryEvent(t, d, s.now()))
}

func (s *Service) emit(ctx context.Context, evt domain.DeliveryEvent) {
	if s.deps.Events == nil {
		return
	}
	if err := s.deps.Events.Publish(ctx, evt); err != nil {
		s.deps.Logger.Warn("failed to publish delivery event",
			logx.String("type", string(evt.Type)),
			logx.String("delivery_id", evt.DeliveryID),
			logx.Err(err),
		)
	}
}

func requireID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", apperr.ErrInvalid
	}
	return id, nil
}
