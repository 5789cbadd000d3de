package repositories

import (
	"context"
	"time"

	"dentlab-backoffice/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// inventoryRepository handles stock data access
type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

// Create creates a new stock record
func (r *inventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// GetByID gets a stock record by ID
func (r *inventoryRepository) GetByID(ctx context.Context, id uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// List lists all stock records by category and name
func (r *inventoryRepository) List(ctx context.Context) ([]*models.InventoryItem, error) {
	var items []*models.InventoryItem
	err := r.db.WithContext(ctx).Order("category ASC, name ASC").Find(&items).Error
	return items, err
}

// ListExpiredBefore lists items whose expiry date is before t
func (r *inventoryRepository) ListExpiredBefore(ctx context.Context, t time.Time) ([]*models.InventoryItem, error) {
	var items []*models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("expiry IS NOT NULL AND expiry < ?", t).
		Order("expiry ASC").
		Find(&items).Error
	return items, err
}

// UpdateQuantity sets the on-hand quantity of an item
func (r *inventoryRepository) UpdateQuantity(ctx context.Context, id uint, quantity int) error {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Update("quantity", quantity)
	return rowsOrNotFound(res)
}
