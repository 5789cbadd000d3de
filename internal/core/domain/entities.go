package domain

import (
	"fmt"
	"strings"
)

// Role represents a principal's role in the lab
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleFrontDesk  Role = "FRONT_DESK"
	RoleTechnician Role = "TECHNICIAN"
	RoleCourier    Role = "COURIER"
	RoleDoctor     Role = "DOCTOR"
)

// Roles lists every role in display order
var Roles = []Role{RoleAdmin, RoleFrontDesk, RoleTechnician, RoleCourier, RoleDoctor}

// Valid reports whether r is one of the enumerated roles
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// IsStaff reports whether r belongs to lab staff rather than a referring doctor
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleFrontDesk || r == RoleTechnician || r == RoleCourier
}

// ParseRole normalizes user input such as "front-desk" into a Role
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	return r, r.Valid()
}

// Category is a referring doctor's commercial tier
type Category string

const (
	CategoryRegular Category = "REGULAR"
	CategoryVIP     Category = "VIP"
	CategoryPremium Category = "PREMIUM"
)

// ParseCategory normalizes user input into a Category
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := categoryDiscounts[c]
	return c, ok
}

// Valid reports whether c is one of the enumerated categories
func (c Category) Valid() bool {
	_, ok := categoryDiscounts[c]
	return ok
}

// StockLevel classifies an inventory item against its minimum
type StockLevel string

const (
	StockCritical StockLevel = "CRITICAL"
	StockLow      StockLevel = "LOW"
	StockNormal   StockLevel = "NORMAL"
)

// FormatOrderNumber renders a store sequence value as a human-readable order number
func FormatOrderNumber(seq uint) string {
	return fmt.Sprintf("ORD-%05d", seq)
}
