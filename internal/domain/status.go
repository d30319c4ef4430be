package domain

import (
	"regexp"
	"strings"
)

type (
	// DeliveryStatus is the state of a delivery leg.
	DeliveryStatus string
	// ApprovalStatus is the admin review state of an agent.
	ApprovalStatus string
	// VehicleType is the agent's means of transport.
	VehicleType string
)

// List of delivery statuses
const (
	DeliveryAssigned  DeliveryStatus = "ASSIGNED"
	DeliveryPickedUp  DeliveryStatus = "PICKED_UP"
	DeliveryInTransit DeliveryStatus = "IN_TRANSIT"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
)

// List of agent approval statuses
const (
	ApprovalPending   ApprovalStatus = "pending"
	ApprovalApproved  ApprovalStatus = "approved"
	ApprovalRejected  ApprovalStatus = "rejected"
	ApprovalSuspended ApprovalStatus = "suspended"
)

// List of vehicle types
const (
	VehicleBicycle   VehicleType = "bicycle"
	VehicleMotorbike VehicleType = "motorbike"
	VehicleScooter   VehicleType = "scooter"
	VehicleCar       VehicleType = "car"
	VehicleVan       VehicleType = "van"
)

var allowedDeliveryStatuses = [...]DeliveryStatus{
	DeliveryAssigned, DeliveryPickedUp, DeliveryInTransit, DeliveryDelivered,
}

var allowedApprovalStatuses = [...]ApprovalStatus{
	ApprovalPending, ApprovalApproved, ApprovalRejected, ApprovalSuspended,
}

var allowedVehicleTypes = [...]VehicleType{
	VehicleBicycle, VehicleMotorbike, VehicleScooter, VehicleCar, VehicleVan,
}

// ParseDeliveryStatus normalizes status text; the result may still be invalid.
func ParseDeliveryStatus(s string) DeliveryStatus {
	return DeliveryStatus(strings.ToUpper(strings.TrimSpace(s)))
}

// Valid checks if the DeliveryStatus is known
func (s DeliveryStatus) Valid() bool {
	for _, v := range allowedDeliveryStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s DeliveryStatus) Terminal() bool { return s == DeliveryDelivered }

// Valid checks if the ApprovalStatus is known
func (s ApprovalStatus) Valid() bool {
	for _, v := range allowedApprovalStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Valid checks if the VehicleType is known
func (t VehicleType) Valid() bool {
	for _, v := range allowedVehicleTypes {
		if t == v {
			return true
		}
	}
	return false
}

// rePhone accepts E.164 numbers
var rePhone = regexp.MustCompile(`^\+[0-9]{10,15}$`)

// ValidatePhone validates the phone number format
func ValidatePhone(s string) bool {
	return rePhone.MatchString(s)
}
