package tracking_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
	"service-delivery/internal/service/tracking"
)

func strPtr(s string) *string { return &s }

func TestProject_States(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	pos := &domain.Coordinates{Lat: 12.97, Lon: 77.59}
	base := domain.Delivery{
		ID:      "d1",
		OrderID: "o1",
		Status:  domain.DeliveryAssigned,
		Pickup:  domain.Endpoint{Address: "12 Market St", Location: &domain.Coordinates{Lat: 12.9, Lon: 77.5}},
	}

	t.Run("awaiting agent", func(t *testing.T) {
		snap := tracking.Project(base, nil)
		assert.Equal(t, domain.TrackingAwaitingAgent, snap.State)
		assert.False(t, snap.AgentAssigned)
		assert.Nil(t, snap.Agent)
		assert.NotNil(t, snap.Pickup)
		assert.Nil(t, snap.Dropoff)
	})

	t.Run("agent without location", func(t *testing.T) {
		d := base
		d.AgentID = strPtr("a1")
		d.AssignedAt = &at
		snap := tracking.Project(d, &domain.Agent{ID: "a1", Name: "Ravi", Phone: "+919812345678", VehicleType: domain.VehicleScooter})

		assert.Equal(t, domain.TrackingLocationUnknown, snap.State)
		assert.True(t, snap.AgentAssigned)
		assert.False(t, snap.AgentLocationKnown)
		require.NotNil(t, snap.Agent)
		assert.Equal(t, "Ravi", snap.Agent.Name)
		assert.Equal(t, &at, snap.AssignedAt)
	})

	t.Run("assigned agent profile missing", func(t *testing.T) {
		d := base
		d.AgentID = strPtr("a1")
		snap := tracking.Project(d, nil)
		assert.Equal(t, domain.TrackingLocationUnknown, snap.State)
		assert.True(t, snap.AgentAssigned)
	})

	t.Run("live", func(t *testing.T) {
		d := base
		d.AgentID = strPtr("a1")
		d.Status = domain.DeliveryInTransit
		snap := tracking.Project(d, &domain.Agent{ID: "a1", Location: pos, LocationUpdatedAt: &at})

		assert.Equal(t, domain.TrackingLive, snap.State)
		assert.True(t, snap.AgentLocationKnown)
		assert.Equal(t, pos, snap.AgentLocation)
		assert.NotSame(t, pos, snap.AgentLocation)
		assert.Equal(t, &at, snap.LocationUpdatedAt)
	})

	t.Run("delivered", func(t *testing.T) {
		d := base
		d.AgentID = strPtr("a1")
		d.Status = domain.DeliveryDelivered
		d.DeliveredAt = &at
		snap := tracking.Project(d, &domain.Agent{ID: "a1", Location: pos})
		assert.Equal(t, domain.TrackingDelivered, snap.State)
	})
}

type fakeDeliveries struct {
	byOrder map[string]domain.Delivery
	err     error
}

func (f fakeDeliveries) Get(_ context.Context, id string) (*domain.Delivery, error) {
	for _, d := range f.byOrder {
		if d.ID == id {
			return &d, f.err
		}
	}
	return nil, f.err
}

func (f fakeDeliveries) GetByOrderID(_ context.Context, orderID string) (*domain.Delivery, error) {
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.byOrder[orderID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

type fakeAgents map[string]domain.Agent

func (f fakeAgents) Get(_ context.Context, id string) (*domain.Agent, error) {
	a, ok := f[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func TestService_ForOrder(t *testing.T) {
	t.Parallel()

	deliveries := fakeDeliveries{byOrder: map[string]domain.Delivery{
		"o1": {ID: "d1", OrderID: "o1", Status: domain.DeliveryPickedUp, AgentID: strPtr("a1")},
		"o2": {ID: "d2", OrderID: "o2", Status: domain.DeliveryAssigned},
	}}
	agents := fakeAgents{"a1": {ID: "a1", Name: "Ravi", Location: &domain.Coordinates{Lat: 1, Lon: 2}}}
	svc := tracking.NewService(deliveries, agents, 0)

	snap, err := svc.ForOrder(context.Background(), "o1")
	require.NoError(t, err)
	require.Equal(t, domain.TrackingLive, snap.State)
	require.Equal(t, "Ravi", snap.Agent.Name)

	snap, err = svc.ForDelivery(context.Background(), "d2")
	require.NoError(t, err)
	require.Equal(t, domain.TrackingAwaitingAgent, snap.State)

	_, err = svc.ForOrder(context.Background(), "o404")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.ForOrder(context.Background(), "")
	require.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestService_ForOrder_StoreError(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	svc := tracking.NewService(fakeDeliveries{err: boom}, fakeAgents{}, time.Second)

	_, err := svc.ForOrder(context.Background(), "o1")
	require.ErrorIs(t, err, boom)
}
