package enums

import (
	"fmt"
	"strings"
)

// OrderStatus tracks the lifecycle of a delivery order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusAssigned   OrderStatus = "ASSIGNED"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

var orderStatusRanks = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusAssigned:   1,
	OrderStatusInProgress: 2,
	OrderStatusCompleted:  3,
	OrderStatusCancelled:  3,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	_, ok := orderStatusRanks[o]
	return ok
}

// IsTerminal reports whether no further transition is allowed.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusCompleted || o == OrderStatusCancelled
}

// CanTransitionTo reports whether moving from o to next is a forward step.
// Intermediate states may be skipped; terminal states are final.
func (o OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !o.IsValid() || !next.IsValid() || o.IsTerminal() {
		return false
	}
	return orderStatusRanks[next] > orderStatusRanks[o]
}

// ParseOrderStatus converts raw input into an OrderStatus. Matching is case
// insensitive so "completed" and "COMPLETED" are equivalent.
func ParseOrderStatus(value string) (OrderStatus, error) {
	candidate := OrderStatus(strings.ToUpper(strings.TrimSpace(value)))
	if candidate.IsValid() {
		return candidate, nil
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
