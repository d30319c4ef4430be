package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestDelivery_ValidateTransition(t *testing.T) {
	t.Parallel()

	agent := strPtr("agent-1")
	photo := strPtr("https://cdn.example.com/proof.jpg")

	tests := []struct {
		name          string
		d             domain.Delivery
		to            domain.DeliveryStatus
		photoSupplied bool
		agentSupplied bool
		wantErr       error
	}{
		{
			name: "open delivery stays assigned",
			d:    domain.Delivery{Status: domain.DeliveryAssigned},
			to:   domain.DeliveryAssigned,
		},
		{
			name: "pickup with agent",
			d:    domain.Delivery{Status: domain.DeliveryAssigned, AgentID: agent},
			to:   domain.DeliveryPickedUp,
		},
		{
			name:    "pickup without agent",
			d:       domain.Delivery{Status: domain.DeliveryAssigned},
			to:      domain.DeliveryPickedUp,
			wantErr: apperr.ErrInvalidTransition,
		},
		{
			name:          "pickup with agent in same update",
			d:             domain.Delivery{Status: domain.DeliveryAssigned},
			to:            domain.DeliveryPickedUp,
			agentSupplied: true,
		},
		{
			name: "picked up to in transit",
			d:    domain.Delivery{Status: domain.DeliveryPickedUp, AgentID: agent},
			to:   domain.DeliveryInTransit,
		},
		{
			name: "in transit location refresh",
			d:    domain.Delivery{Status: domain.DeliveryInTransit, AgentID: agent},
			to:   domain.DeliveryInTransit,
		},
		{
			name:    "assigned cannot skip pickup",
			d:       domain.Delivery{Status: domain.DeliveryAssigned, AgentID: agent},
			to:      domain.DeliveryInTransit,
			wantErr: apperr.ErrInvalidTransition,
		},
		{
			name:    "no way back",
			d:       domain.Delivery{Status: domain.DeliveryInTransit, AgentID: agent},
			to:      domain.DeliveryPickedUp,
			wantErr: apperr.ErrInvalidTransition,
		},
		{
			name:    "delivered without photo",
			d:       domain.Delivery{Status: domain.DeliveryInTransit, AgentID: agent},
			to:      domain.DeliveryDelivered,
			wantErr: apperr.ErrMissingProof,
		},
		{
			name:          "delivered with supplied photo",
			d:             domain.Delivery{Status: domain.DeliveryInTransit, AgentID: agent},
			to:            domain.DeliveryDelivered,
			photoSupplied: true,
		},
		{
			name: "delivered with stored photo",
			d:    domain.Delivery{Status: domain.DeliveryPickedUp, AgentID: agent, PhotoURL: photo},
			to:   domain.DeliveryDelivered,
		},
		{
			name:    "blank stored photo does not count",
			d:       domain.Delivery{Status: domain.DeliveryPickedUp, AgentID: agent, PhotoURL: strPtr("  ")},
			to:      domain.DeliveryDelivered,
			wantErr: apperr.ErrMissingProof,
		},
		{
			name:    "terminal",
			d:       domain.Delivery{Status: domain.DeliveryDelivered, AgentID: agent, PhotoURL: photo},
			to:      domain.DeliveryInTransit,
			wantErr: apperr.ErrInvalidTransition,
		},
		{
			name:    "unknown status",
			d:       domain.Delivery{Status: domain.DeliveryAssigned},
			to:      domain.DeliveryStatus("LOST"),
			wantErr: apperr.ErrInvalid,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.d.ValidateTransition(tt.to, tt.photoSupplied, tt.agentSupplied)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDelivery_MissingProofIsPrecondition(t *testing.T) {
	t.Parallel()

	d := domain.Delivery{Status: domain.DeliveryAssigned}
	err := d.ValidateTransition(domain.DeliveryDelivered, false, false)
	require.ErrorIs(t, err, apperr.ErrPreconditionFailed)
	require.Contains(t, err.Error(), "proof photo is required")
}

func TestDelivery_Open(t *testing.T) {
	t.Parallel()

	require.True(t, domain.Delivery{Status: domain.DeliveryAssigned}.Open())
	require.False(t, domain.Delivery{Status: domain.DeliveryAssigned, AgentID: strPtr("a")}.Open())
	require.False(t, domain.Delivery{Status: domain.DeliveryPickedUp}.Open())
}

func TestDeliveryUpdate_Empty(t *testing.T) {
	t.Parallel()

	v := int64(3)
	require.True(t, domain.DeliveryUpdate{}.Empty())
	require.True(t, domain.DeliveryUpdate{ExpectedVersion: &v}.Empty())
	require.False(t, domain.DeliveryUpdate{Notes: strPtr("ring twice")}.Empty())
}
