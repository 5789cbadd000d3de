package domain

import (
	"fmt"
	"strings"
)

// OrderStatus is a step of the lab work order workflow
type OrderStatus string

const (
	StatusCreated      OrderStatus = "CREATED"
	StatusLoggedIn     OrderStatus = "LOGGED_IN_SYSTEM"
	StatusInProduction OrderStatus = "IN_PRODUCTION"
	StatusPacked       OrderStatus = "PACKED"
	StatusInTransit    OrderStatus = "IN_TRANSIT"
	StatusDelivered    OrderStatus = "DELIVERED"
)

// InitialOrderStatus is the status every new order starts in
const InitialOrderStatus = StatusCreated

// OrderStatuses lists the workflow in business order
var OrderStatuses = []OrderStatus{
	StatusCreated,
	StatusLoggedIn,
	StatusInProduction,
	StatusPacked,
	StatusInTransit,
	StatusDelivered,
}

// ParseOrderStatus accepts "IN_PRODUCTION", "in-production" or "In Production"
func ParseOrderStatus(s string) (OrderStatus, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	st := OrderStatus(normalized)
	return st, st.Valid()
}

// Step returns the position of s in the workflow, or -1 when unknown
func (s OrderStatus) Step() int {
	for i, known := range OrderStatuses {
		if s == known {
			return i
		}
	}
	return -1
}

// Valid reports whether s is a workflow status
func (s OrderStatus) Valid() bool {
	return s.Step() >= 0
}

// Terminal reports whether no further transition is accepted from s
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered
}

// Next returns the following business step
func (s OrderStatus) Next() (OrderStatus, bool) {
	i := s.Step()
	if i < 0 || i+1 >= len(OrderStatuses) {
		return "", false
	}
	return OrderStatuses[i+1], true
}

// courierSources maps the targets a courier may set to the status the order must be in
var courierSources = map[OrderStatus]OrderStatus{
	StatusInTransit: StatusPacked,
	StatusDelivered: StatusInTransit,
}

// AllowedRoles returns the roles that may move an order into target
func AllowedRoles(target OrderStatus) []Role {
	roles := []Role{RoleAdmin, RoleFrontDesk, RoleTechnician}
	if _, ok := courierSources[target]; ok {
		roles = append(roles, RoleCourier)
	}
	return roles
}

// CheckTransition applies the role permission matrix and the workflow rules
// to a requested status change. Permission is decided before the order's
// current status is considered, so a role that can never set target is
// always told Forbidden.
func CheckTransition(role Role, from, target OrderStatus) error {
	switch role {
	case RoleAdmin, RoleFrontDesk, RoleTechnician:
	case RoleCourier:
		if _, ok := courierSources[target]; !ok {
			return fmt.Errorf("%w: couriers may only move orders to %s or %s; %s requires one of %s",
				ErrForbidden, StatusInTransit, StatusDelivered, target, joinRoles(AllowedRoles(target)))
		}
	case RoleDoctor:
		return fmt.Errorf("%w: referring doctors can create orders but not change their status; %s requires one of %s",
			ErrForbidden, target, joinRoles(AllowedRoles(target)))
	default:
		return fmt.Errorf("%w: role %q may not change order status", ErrForbidden, role)
	}

	if !target.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, target)
	}
	if from.Terminal() {
		return fmt.Errorf("%w: order is already %s and can no longer change", ErrInvalidTransition, from)
	}

	if role == RoleCourier {
		if source := courierSources[target]; from != source {
			return fmt.Errorf("%w: couriers may move an order to %s only from %s (current status %s); ask front desk or an administrator",
				ErrForbidden, target, source, from)
		}
	}

	if target == from {
		return fmt.Errorf("%w: order is already %s", ErrInvalidTransition, from)
	}
	if target == StatusCreated {
		return fmt.Errorf("%w: orders enter %s only when they are created", ErrInvalidTransition, StatusCreated)
	}
	return nil
}

func joinRoles(roles []Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}
