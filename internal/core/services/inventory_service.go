package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"dentlab-backoffice/internal/adapters/persistence/models"
	"dentlab-backoffice/internal/adapters/persistence/repositories"
	"dentlab-backoffice/internal/core/domain"
)

// InventoryService tracks stock and classifies it against minimums
type InventoryService struct {
	inventoryRepo repositories.InventoryRepository
}

// NewInventoryService creates a new inventory service
func NewInventoryService(inventoryRepo repositories.InventoryRepository) *InventoryService {
	return &InventoryService{inventoryRepo: inventoryRepo}
}

// CreateItemInput represents a new stock record
type CreateItemInput struct {
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Quantity    int        `json:"quantity"`
	MinQuantity int        `json:"min_quantity"`
	UnitPrice   int64      `json:"unit_price"`
	Supplier    string     `json:"supplier"`
	Expiry      *time.Time `json:"expiry"`
}

// Create adds a stock record
func (s *InventoryService) Create(ctx context.Context, input *CreateItemInput) (*models.InventoryItemResponse, error) {
	name := strings.TrimSpace(input.Name)
	switch {
	case name == "":
		return nil, invalidInput("item name is required")
	case input.Quantity < 0:
		return nil, fmt.Errorf("%w: quantity cannot be negative", domain.ErrInvalidQuantity)
	case input.MinQuantity < 0:
		return nil, fmt.Errorf("%w: minimum cannot be negative", domain.ErrInvalidQuantity)
	case input.UnitPrice < 0:
		return nil, invalidInput("unit price cannot be negative")
	}

	item := &models.InventoryItem{
		Name:        name,
		Category:    input.Category,
		Quantity:    input.Quantity,
		MinQuantity: input.MinQuantity,
		UnitPrice:   input.UnitPrice,
		Supplier:    input.Supplier,
		Expiry:      input.Expiry,
	}
	if err := s.inventoryRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	log.Printf("✅ Inventory item #%d %s added (%d on hand, min %d)", item.ID, item.Name, item.Quantity, item.MinQuantity)
	return item.ToResponse(), nil
}

// Get gets a stock record with its level
func (s *InventoryService) Get(ctx context.Context, id uint) (*models.InventoryItemResponse, error) {
	item, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, fmt.Errorf("%w: inventory item #%d", domain.ErrNotFound, id))
	}
	return item.ToResponse(), nil
}

// List lists every stock record with its level
func (s *InventoryService) List(ctx context.Context) ([]*models.InventoryItemResponse, error) {
	items, err := s.inventoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toItemResponses(items), nil
}

// AdjustQuantity sets the on-hand quantity. Shortages are flagged, never blocked.
func (s *InventoryService) AdjustQuantity(ctx context.Context, id uint, quantity int) (*models.InventoryItemResponse, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative, got %d", domain.ErrInvalidQuantity, quantity)
	}
	if err := s.inventoryRepo.UpdateQuantity(ctx, id, quantity); err != nil {
		return nil, storeErr(err, fmt.Errorf("%w: inventory item #%d", domain.ErrNotFound, id))
	}

	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Level != domain.StockNormal {
		log.Printf("⚠️ %s is %s: %d on hand, minimum %d", item.Name, item.Level, item.Quantity, item.MinQuantity)
	}
	return item, nil
}

// Shortages lists Critical items first, then Low ones
func (s *InventoryService) Shortages(ctx context.Context) ([]*models.InventoryItemResponse, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var critical, low []*models.InventoryItemResponse
	for _, item := range items {
		switch item.Level {
		case domain.StockCritical:
			critical = append(critical, item)
		case domain.StockLow:
			low = append(low, item)
		}
	}
	return append(critical, low...), nil
}

// Expired lists items whose expiry date is before now
func (s *InventoryService) Expired(ctx context.Context, now time.Time) ([]*models.InventoryItemResponse, error) {
	items, err := s.inventoryRepo.ListExpiredBefore(ctx, now)
	if err != nil {
		return nil, err
	}
	return toItemResponses(items), nil
}

func toItemResponses(items []*models.InventoryItem) []*models.InventoryItemResponse {
	out := make([]*models.InventoryItemResponse, len(items))
	for i, item := range items {
		out[i] = item.ToResponse()
	}
	return out
}
