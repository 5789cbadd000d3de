package services

import (
	"context"
	"log"
	"time"

	"dentlab-backoffice/internal/adapters/persistence/models"
	"dentlab-backoffice/internal/core/domain"
)

// StockReport summarizes one inventory scan
type StockReport struct {
	ScannedAt time.Time                       `json:"scanned_at"`
	Critical  []*models.InventoryItemResponse `json:"critical"`
	Low       []*models.InventoryItemResponse `json:"low"`
	Expired   []*models.InventoryItemResponse `json:"expired"`
}

// StockAlertService scans inventory and logs shortages. It never mutates stock.
type StockAlertService struct {
	inventory *InventoryService
	now       func() time.Time
}

// NewStockAlertService creates a new stock alert service
func NewStockAlertService(inventory *InventoryService) *StockAlertService {
	return &StockAlertService{inventory: inventory, now: time.Now}
}

// Scan classifies current stock
func (s *StockAlertService) Scan(ctx context.Context) (*StockReport, error) {
	now := s.now()
	shortages, err := s.inventory.Shortages(ctx)
	if err != nil {
		return nil, err
	}
	expired, err := s.inventory.Expired(ctx, now)
	if err != nil {
		return nil, err
	}

	report := &StockReport{ScannedAt: now, Expired: expired}
	for _, item := range shortages {
		if item.Level == domain.StockCritical {
			report.Critical = append(report.Critical, item)
		} else {
			report.Low = append(report.Low, item)
		}
	}
	return report, nil
}

// Run scans and logs a summary; it is the scheduled job
func (s *StockAlertService) Run(ctx context.Context) error {
	report, err := s.Scan(ctx)
	if err != nil {
		return err
	}

	if len(report.Critical)+len(report.Low)+len(report.Expired) == 0 {
		log.Println("✅ Stock scan: all items above minimum")
		return nil
	}

	log.Printf("⚠️ Stock scan: %d critical, %d low, %d expired",
		len(report.Critical), len(report.Low), len(report.Expired))
	for _, item := range report.Critical {
		log.Printf("   ❌ %s: %d on hand (min %d), supplier %s", item.Name, item.Quantity, item.MinQuantity, item.Supplier)
	}
	for _, item := range report.Low {
		log.Printf("   ⚠️ %s: %d on hand (min %d)", item.Name, item.Quantity, item.MinQuantity)
	}
	for _, item := range report.Expired {
		log.Printf("   ⚠️ %s expired %s", item.Name, item.Expiry.Format("2006-01-02"))
	}
	return nil
}
