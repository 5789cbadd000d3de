package services

import (
	"context"
	"errors"
	"testing"

	"dentlab-backoffice/internal/core/domain"
	"dentlab-backoffice/internal/pkg/pagination"

	"github.com/shopspring/decimal"
)

func TestSetCategoryKeepsDiscountInSync(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	doctor, err := env.doctor.Create(ctx, frontDesk, &CreateDoctorInput{Name: "Dr. Edwin Garzón", Clinic: "Centro Garzón"})
	if err != nil {
		t.Fatal(err)
	}
	if doctor.Category != domain.CategoryRegular || !doctor.DiscountRate.IsZero() {
		t.Fatalf("expected Regular/0, got %s/%s", doctor.Category, doctor.DiscountRate)
	}

	// An override drifts from the table until the next category change
	if _, err := env.doctor.SetDiscountOverride(ctx, admin, doctor.ID, decimal.NewFromInt(7)); err != nil {
		t.Fatal(err)
	}

	for _, category := range []domain.Category{domain.CategoryVIP, domain.CategoryPremium, domain.CategoryRegular, domain.CategoryVIP} {
		updated, err := env.doctor.SetCategory(ctx, frontDesk, doctor.ID, string(category))
		if err != nil {
			t.Fatalf("SetCategory(%s): %v", category, err)
		}
		want, _ := domain.DiscountFor(category)
		got, err := env.doctor.DiscountFor(ctx, doctor.ID)
		if err != nil {
			t.Fatal(err)
		}
		if updated.Category != category || !got.Equal(want) {
			t.Errorf("after SetCategory(%s): category %s discount %s, want %s", category, updated.Category, got, want)
		}
	}
}

func TestSetCategoryErrors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	doctor, err := env.doctor.Create(ctx, admin, &CreateDoctorInput{Name: "Dr. Fabián"})
	if err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name     string
		p        *domain.Principal
		id       uint
		category string
		wantErr  error
	}{
		{"lower case accepted", admin, doctor.ID, "vip", nil},
		{"unknown category", admin, doctor.ID, "GOLD", domain.ErrInvalidCategory},
		{"unknown doctor", admin, 999, "VIP", domain.ErrNotFound},
		{"technician forbidden", technician, doctor.ID, "VIP", domain.ErrForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.doctor.SetCategory(ctx, tc.p, tc.id, tc.category)
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

func TestDiscountOverride(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	doctor, err := env.doctor.Create(ctx, admin, &CreateDoctorInput{Name: "Dra. Luz Mary", Category: "PREMIUM"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := env.doctor.SetDiscountOverride(ctx, frontDesk, doctor.ID, decimal.NewFromInt(30)); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("front desk override: expected ErrForbidden, got %v", err)
	}
	if _, err := env.doctor.SetDiscountOverride(ctx, admin, doctor.ID, decimal.NewFromInt(101)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("out of range: expected ErrInvalidInput, got %v", err)
	}
	updated, err := env.doctor.SetDiscountOverride(ctx, admin, doctor.ID, decimal.RequireFromString("12.5"))
	if err != nil {
		t.Fatal(err)
	}
	if updated.Category != domain.CategoryPremium || !updated.DiscountRate.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("unexpected override result: %s/%s", updated.Category, updated.DiscountRate)
	}

	quote, err := env.pricing.Price(ctx, "Corona Metal-Cerámica", doctor.ID)
	if err != nil {
		t.Fatal(err)
	}
	if quote.Price != 157500 {
		t.Errorf("price with 12.5%% = %d, want 157500", quote.Price)
	}
}

func TestDeactivatedDoctorCannotBePriced(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	doctor, err := env.doctor.Create(ctx, admin, &CreateDoctorInput{Name: "Dr. Retirado"})
	if err != nil {
		t.Fatal(err)
	}
	if err := env.doctor.Deactivate(ctx, admin, doctor.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := env.pricing.Price(ctx, "Incrustación", doctor.ID); !errors.Is(err, domain.ErrUnknownDoctor) {
		t.Errorf("expected ErrUnknownDoctor, got %v", err)
	}

	active, total, err := env.doctor.List(ctx, &ListDoctorsInput{ActiveOnly: true}, pagination.New(1, 20))
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 || len(active) != 0 {
		t.Errorf("deactivated doctor still listed as active")
	}
	if _, err := env.doctor.Get(ctx, doctor.ID); err != nil {
		t.Errorf("deactivated doctor must stay readable: %v", err)
	}
}

func TestPricingTable(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	testCases := []struct {
		category domain.Category
		service  string
		want     int64
	}{
		{domain.CategoryRegular, "Corona Metal-Cerámica", 180000},
		{domain.CategoryVIP, "Corona Metal-Cerámica", 153000},
		{domain.CategoryVIP, "Corona Zirconio", 187000},
		{domain.CategoryPremium, "Implante + Corona", 520000},
	}

	for _, tc := range testCases {
		doctor, err := env.doctor.Create(ctx, admin, &CreateDoctorInput{Name: "Dr. " + string(tc.category), Category: string(tc.category)})
		if err != nil {
			t.Fatal(err)
		}
		quote, err := env.pricing.Price(ctx, tc.service, doctor.ID)
		if err != nil {
			t.Fatalf("%s/%s: %v", tc.category, tc.service, err)
		}
		if quote.Price != tc.want {
			t.Errorf("%s/%s = %d, want %d", tc.category, tc.service, quote.Price, tc.want)
		}
	}

	if _, err := env.pricing.Price(ctx, "Corona de Oro", 1); !errors.Is(err, domain.ErrUnknownService) {
		t.Errorf("expected ErrUnknownService, got %v", err)
	}
}
