package domain_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"service-delivery/internal/domain"
)

func TestCoordinates_Valid(t *testing.T) {
	t.Parallel()

	require.True(t, domain.Coordinates{Lat: 12.97, Lon: 77.59}.Valid())
	require.True(t, domain.Coordinates{Lat: -90, Lon: 180}.Valid())
	require.False(t, domain.Coordinates{Lat: 90.1, Lon: 0}.Valid())
	require.False(t, domain.Coordinates{Lat: 0, Lon: -180.5}.Valid())
	require.False(t, domain.Coordinates{Lat: math.NaN(), Lon: 0}.Valid())
}

func TestLocation(t *testing.T) {
	t.Parallel()

	loc := domain.Resolved(domain.Coordinates{Lat: 1, Lon: 2})
	c, ok := loc.Coordinates()
	require.True(t, ok)
	require.Equal(t, domain.Coordinates{Lat: 1, Lon: 2}, c)
	require.Equal(t, &domain.Coordinates{Lat: 1, Lon: 2}, loc.Ptr())

	require.False(t, domain.Resolved(domain.Coordinates{Lat: 200}).IsResolved())
	require.False(t, domain.LocationOf(nil).IsResolved())
	require.Nil(t, domain.Unresolved().Ptr())
}

func TestParseOrderStatus(t *testing.T) {
	t.Parallel()

	require.Equal(t, domain.OrderPaid, domain.ParseOrderStatus("  paid "))
	require.Equal(t, domain.OrderCancelled, domain.ParseOrderStatus("canceled"))
	require.True(t, domain.OrderConfirmed.Payable())
	require.False(t, domain.OrderPending.Payable())
	require.True(t, domain.OrderCancelled.Terminal())
}

func TestOrderContext_Addresses(t *testing.T) {
	t.Parallel()

	oc := domain.OrderContext{
		Order:    domain.Order{DeliveryAddress: "  "},
		Shop:     &domain.Shop{Address: " 12 Market Rd "},
		Customer: &domain.Customer{Address: "4 Lake View"},
	}
	require.Equal(t, "12 Market Rd", oc.PickupAddress())
	require.Equal(t, "4 Lake View", oc.DropoffAddress())

	oc.Order.DeliveryAddress = "Flat 2, 9 Hill St"
	require.Equal(t, "Flat 2, 9 Hill St", oc.DropoffAddress())

	require.Empty(t, domain.OrderContext{}.PickupAddress())
}

func TestAgent_Eligible(t *testing.T) {
	t.Parallel()

	require.True(t, domain.Agent{Approval: domain.ApprovalApproved, Available: true}.Eligible())
	require.False(t, domain.Agent{Approval: domain.ApprovalApproved}.Eligible())
	require.False(t, domain.Agent{Approval: domain.ApprovalSuspended, Available: true}.Eligible())
}

func TestActorContext(t *testing.T) {
	t.Parallel()

	_, ok := domain.ActorFrom(context.Background())
	require.False(t, ok)

	ctx := domain.WithActor(context.Background(), domain.Actor{ID: "u1", Role: domain.RoleAdmin})
	a, ok := domain.ActorFrom(ctx)
	require.True(t, ok)
	require.Equal(t, domain.RoleAdmin, a.Role)
}

func TestValidatePhone(t *testing.T) {
	t.Parallel()

	require.True(t, domain.ValidatePhone("+919876543210"))
	require.False(t, domain.ValidatePhone("9876543210"))
	require.False(t, domain.ValidatePhone("+91-98765"))
}
