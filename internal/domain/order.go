package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a customer order.
type OrderStatus string

// List of order statuses
const (
	OrderPending   OrderStatus = "PENDING"
	OrderPaid      OrderStatus = "PAID"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderInTransit OrderStatus = "IN_TRANSIT"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// ParseOrderStatus normalizes free-form status text coming from events and the store.
func ParseOrderStatus(s string) OrderStatus {
	st := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	if st == "CANCELED" {
		return OrderCancelled
	}
	return st
}

// Payable reports whether a delivery may be created for an order in this status.
func (s OrderStatus) Payable() bool {
	return s == OrderPaid || s == OrderConfirmed
}

// Terminal reports whether the order lifecycle is over.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// Order represents a customer purchase.
type Order struct {
	ID              string
	Status          OrderStatus
	TotalAmount     decimal.Decimal
	DeliveryAddress string
	DeliveryPhone   string
	CustomerID      string
	ShopID          string
	// Pre-resolved coordinates copied from the shop and customer records.
	ShopLocation     *Coordinates
	CustomerLocation *Coordinates
}

// Shop is the pickup side of an order.
type Shop struct {
	ID       string
	Name     string
	Address  string
	Phone    string
	Location *Coordinates
}

// Customer is the drop-off side of an order.
type Customer struct {
	ID       string
	Name     string
	Phone    string
	Address  string
	Location *Coordinates
}

// OrderContext is an order with its shop and customer. Shop and Customer are nil
// when the referenced rows are missing.
type OrderContext struct {
	Order    Order
	Shop     *Shop
	Customer *Customer
}

// DropoffAddress prefers the address captured on the order over the customer profile.
func (oc OrderContext) DropoffAddress() string {
	if a := strings.TrimSpace(oc.Order.DeliveryAddress); a != "" {
		return a
	}
	if oc.Customer != nil {
		return strings.TrimSpace(oc.Customer.Address)
	}
	return ""
}

// PickupAddress returns the shop address, if any.
func (oc OrderContext) PickupAddress() string {
	if oc.Shop == nil {
		return ""
	}
	return strings.TrimSpace(oc.Shop.Address)
}
