package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNetPrice(t *testing.T) {
	testCases := []struct {
		name     string
		base     int64
		discount int64
		want     int64
	}{
		{"regular pays base", 180000, 0, 180000},
		{"vip metal ceramic crown", 180000, 15, 153000},
		{"vip zirconia crown", 220000, 15, 187000},
		{"premium implant", 650000, 20, 520000},
		{"rounds down", 99999, 15, 84999},
		{"full discount", 120000, 100, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := NetPrice(tc.base, decimal.NewFromInt(tc.discount))
			if got != tc.want {
				t.Errorf("NetPrice(%d, %d) = %d, want %d", tc.base, tc.discount, got, tc.want)
			}
		})
	}
}

func TestDiscountFor(t *testing.T) {
	want := map[Category]int64{CategoryRegular: 0, CategoryVIP: 15, CategoryPremium: 20}
	for category, rate := range want {
		got, err := DiscountFor(category)
		if err != nil {
			t.Fatalf("DiscountFor(%s): %v", category, err)
		}
		if !got.Equal(decimal.NewFromInt(rate)) {
			t.Errorf("DiscountFor(%s) = %s, want %d", category, got, rate)
		}
	}

	if _, err := DiscountFor("GOLD"); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestClassifyStock(t *testing.T) {
	testCases := []struct {
		quantity, minimum int
		want              StockLevel
	}{
		{5, 10, StockCritical},
		{10, 10, StockCritical},
		{0, 0, StockCritical},
		{11, 10, StockLow},
		{12, 10, StockLow},
		{15, 10, StockLow},
		{16, 10, StockNormal},
		{25, 10, StockNormal},
		{1, 0, StockNormal},
	}

	for _, tc := range testCases {
		if got := ClassifyStock(tc.quantity, tc.minimum); got != tc.want {
			t.Errorf("ClassifyStock(%d, %d) = %s, want %s", tc.quantity, tc.minimum, got, tc.want)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	for _, in := range []string{"IN_PRODUCTION", "in-production", "In Production"} {
		st, ok := ParseOrderStatus(in)
		if !ok || st != StatusInProduction {
			t.Errorf("ParseOrderStatus(%q) = %q, %v", in, st, ok)
		}
	}
	if _, ok := ParseOrderStatus("shipped"); ok {
		t.Error("expected unknown status to be rejected")
	}
}

func TestCheckTransition_DoctorAlwaysForbidden(t *testing.T) {
	for _, from := range OrderStatuses {
		for _, target := range []OrderStatus{StatusPacked, "LOST", ""} {
			err := CheckTransition(RoleDoctor, from, target)
			if !errors.Is(err, ErrForbidden) {
				t.Errorf("doctor %s -> %q: expected ErrForbidden, got %v", from, target, err)
			}
		}
	}
}

func TestCheckTransition_DeliveredIsTerminal(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleFrontDesk, RoleTechnician} {
		for _, target := range OrderStatuses {
			err := CheckTransition(role, StatusDelivered, target)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("%s: DELIVERED -> %s expected ErrInvalidTransition, got %v", role, target, err)
			}
		}
	}
}

func TestCheckTransition_Matrix(t *testing.T) {
	testCases := []struct {
		name    string
		role    Role
		from    OrderStatus
		target  OrderStatus
		wantErr error
	}{
		{"technician skips ahead", RoleTechnician, StatusCreated, StatusInProduction, nil},
		{"front desk logs order", RoleFrontDesk, StatusCreated, StatusLoggedIn, nil},
		{"front desk moves back", RoleFrontDesk, StatusPacked, StatusInProduction, nil},
		{"admin delivers", RoleAdmin, StatusInProduction, StatusDelivered, nil},
		{"courier picks up", RoleCourier, StatusPacked, StatusInTransit, nil},
		{"courier delivers", RoleCourier, StatusInTransit, StatusDelivered, nil},
		{"courier cannot pack", RoleCourier, StatusInProduction, StatusPacked, ErrForbidden},
		{"courier cannot revert to packed", RoleCourier, StatusInTransit, StatusPacked, ErrForbidden},
		{"courier needs packed order", RoleCourier, StatusInProduction, StatusInTransit, ErrForbidden},
		{"courier needs order in transit", RoleCourier, StatusPacked, StatusDelivered, ErrForbidden},
		{"courier on delivered order", RoleCourier, StatusDelivered, StatusDelivered, ErrInvalidTransition},
		{"same status", RoleAdmin, StatusPacked, StatusPacked, ErrInvalidTransition},
		{"back to created", RoleAdmin, StatusPacked, StatusCreated, ErrInvalidTransition},
		{"unknown target", RoleAdmin, StatusPacked, "LOST", ErrInvalidTransition},
		{"courier unknown target", RoleCourier, StatusPacked, "LOST", ErrForbidden},
		{"unknown role", Role("JANITOR"), StatusPacked, StatusInTransit, ErrForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckTransition(tc.role, tc.from, tc.target)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestStatusNext(t *testing.T) {
	next, ok := StatusPacked.Next()
	if !ok || next != StatusInTransit {
		t.Errorf("PACKED.Next() = %s, %v", next, ok)
	}
	if _, ok := StatusDelivered.Next(); ok {
		t.Error("DELIVERED must not have a next status")
	}
}

func TestUnknownLookupsAreNotFound(t *testing.T) {
	if !errors.Is(ErrUnknownService, ErrNotFound) || !errors.Is(ErrUnknownDoctor, ErrNotFound) {
		t.Error("pricing lookup errors must also match ErrNotFound")
	}
}
