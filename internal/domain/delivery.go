package domain

import (
	"strings"
	"time"

	"service-delivery/internal/apperr"
)

// Endpoint is one end of a delivery leg.
type Endpoint struct {
	Address  string
	Location *Coordinates
}

// Delivery is one fulfillment leg for exactly one order.
type Delivery struct {
	ID              string
	OrderID         string
	Status          DeliveryStatus
	AgentID         *string
	Pickup          Endpoint
	Dropoff         Endpoint
	AssignedAt      *time.Time
	PickedUpAt      *time.Time
	DeliveredAt     *time.Time
	PhotoURL        *string
	PhotoUploadedAt *time.Time
	Notes           *string
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasAgent reports whether an agent is assigned.
func (d Delivery) HasAgent() bool {
	return d.AgentID != nil && *d.AgentID != ""
}

// HasPhoto reports whether a proof-of-delivery photo is stored.
func (d Delivery) HasPhoto() bool {
	return d.PhotoURL != nil && strings.TrimSpace(*d.PhotoURL) != ""
}

// Open reports whether the delivery sits in the unassigned pool.
func (d Delivery) Open() bool {
	return d.Status == DeliveryAssigned && !d.HasAgent()
}

// ValidateTransition is the single legality check shared by every mutator.
// photoSupplied and agentSupplied describe values arriving in the same update.
func (d Delivery) ValidateTransition(to DeliveryStatus, photoSupplied, agentSupplied bool) error {
	if !to.Valid() {
		return apperr.ErrInvalid
	}
	if d.Status.Terminal() {
		return apperr.ErrInvalidTransition
	}
	if to == DeliveryDelivered {
		if !d.HasPhoto() && !photoSupplied {
			return apperr.ErrMissingProof
		}
	}
	if to != DeliveryAssigned && !d.HasAgent() && !agentSupplied {
		return apperr.ErrInvalidTransition
	}

	switch to {
	case DeliveryAssigned:
		if d.Status != DeliveryAssigned {
			return apperr.ErrInvalidTransition
		}
	case DeliveryPickedUp:
		if d.Status != DeliveryAssigned && d.Status != DeliveryPickedUp {
			return apperr.ErrInvalidTransition
		}
	case DeliveryInTransit:
		if d.Status != DeliveryPickedUp && d.Status != DeliveryInTransit {
			return apperr.ErrInvalidTransition
		}
	case DeliveryDelivered:
		// any non-terminal state, guarded above
	}
	return nil
}

// DeliveryUpdate carries independent optional changes. A nil field means
// "do not change" that attribute.
type DeliveryUpdate struct {
	Status          *DeliveryStatus
	AgentID         *string
	Pickup          *Coordinates
	Dropoff         *Coordinates
	PhotoURL        *string
	Notes           *string
	ExpectedVersion *int64
}

// Empty reports whether the update changes nothing.
func (u DeliveryUpdate) Empty() bool {
	return u.Status == nil && u.AgentID == nil && u.Pickup == nil &&
		u.Dropoff == nil && u.PhotoURL == nil && u.Notes == nil
}

// DeliveryFilter narrows delivery listings.
type DeliveryFilter struct {
	AgentID    *string
	Status     *DeliveryStatus
	OrderID    *string
	Unassigned bool
	Limit      *int
	Offset     *int
}

// CreateResult is the outcome of delivery creation. Created is false when an
// existing delivery for the order was returned.
type CreateResult struct {
	Delivery Delivery
	Created  bool
}
