package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"dentlab-backoffice/internal/core/domain"
)

func TestInventoryLevels(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	items := []CreateItemInput{
		{Name: "Zirconio Block", Category: "Materiales", Quantity: 25, MinQuantity: 10, UnitPrice: 85000},
		{Name: "Cerámica Feldespática", Category: "Materiales", Quantity: 8, MinQuantity: 10, UnitPrice: 120000},
		{Name: "Acrílico Dental", Category: "Materiales", Quantity: 14, MinQuantity: 10, UnitPrice: 45000},
	}
	ids := make([]uint, len(items))
	for i := range items {
		resp, err := env.stock.Create(ctx, &items[i])
		if err != nil {
			t.Fatalf("create %s: %v", items[i].Name, err)
		}
		ids[i] = resp.ID
	}

	want := []domain.StockLevel{domain.StockNormal, domain.StockCritical, domain.StockLow}
	for i, id := range ids {
		item, err := env.stock.Get(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if item.Level != want[i] {
			t.Errorf("%s: level %s, want %s", item.Name, item.Level, want[i])
		}
	}

	shortages, err := env.stock.Shortages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(shortages) != 2 || shortages[0].Level != domain.StockCritical || shortages[1].Level != domain.StockLow {
		t.Fatalf("shortages must list critical before low, got %d items", len(shortages))
	}

	// Restocking clears the shortage
	updated, err := env.stock.AdjustQuantity(ctx, ids[1], 40)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Level != domain.StockNormal {
		t.Errorf("after restock: level %s", updated.Level)
	}
}

func TestInventoryQuantityErrors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	item, err := env.stock.Create(ctx, &CreateItemInput{Name: "Yeso Tipo IV", Quantity: 3, MinQuantity: 5})
	if err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name     string
		id       uint
		quantity int
		wantErr  error
	}{
		{"negative quantity", item.ID, -1, domain.ErrInvalidQuantity},
		{"unknown item", 999, 4, domain.ErrNotFound},
		{"zero is allowed", item.ID, 0, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.stock.AdjustQuantity(ctx, tc.id, tc.quantity)
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

	if _, err := env.stock.Create(ctx, &CreateItemInput{Name: "Cera", Quantity: -2}); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Errorf("create with negative quantity: expected ErrInvalidQuantity, got %v", err)
	}
}

func TestStockAlertScan(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	now := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)
	lastMonth := now.AddDate(0, -1, 0)
	nextYear := now.AddDate(1, 0, 0)

	for _, in := range []*CreateItemInput{
		{Name: "Resina Compuesta", Quantity: 2, MinQuantity: 6, Expiry: &lastMonth},
		{Name: "Metal Base", Quantity: 9, MinQuantity: 6, Expiry: &nextYear},
		{Name: "Porcelana", Quantity: 30, MinQuantity: 6},
	} {
		if _, err := env.stock.Create(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	alerts := NewStockAlertService(env.stock)
	alerts.now = fixedClock(now)

	report, err := alerts.Scan(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Critical) != 1 || report.Critical[0].Name != "Resina Compuesta" {
		t.Errorf("critical: %+v", report.Critical)
	}
	if len(report.Low) != 1 || report.Low[0].Name != "Metal Base" {
		t.Errorf("low: %+v", report.Low)
	}
	if len(report.Expired) != 1 || report.Expired[0].Name != "Resina Compuesta" {
		t.Errorf("expired: %+v", report.Expired)
	}
	if !report.ScannedAt.Equal(now) {
		t.Errorf("scanned at %s", report.ScannedAt)
	}

	if err := alerts.Run(ctx); err != nil {
		t.Errorf("run: %v", err)
	}
}
