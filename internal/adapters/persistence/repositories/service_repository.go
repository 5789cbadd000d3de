package repositories

import (
	"context"

	"dentlab-backoffice/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// serviceRepository handles service catalog data access
type serviceRepository struct {
	db *gorm.DB
}

// NewServiceRepository creates a new service catalog repository
func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

// Create creates a new catalog entry
func (r *serviceRepository) Create(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Create(service).Error
}

// GetByID gets a catalog entry by ID
func (r *serviceRepository) GetByID(ctx context.Context, id uint) (*models.Service, error) {
	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// GetActiveByName gets an active catalog entry by its work-type name
func (r *serviceRepository) GetActiveByName(ctx context.Context, name string) (*models.Service, error) {
	var service models.Service
	err := r.db.WithContext(ctx).
		Where("name = ? AND is_active = ?", name, true).
		First(&service).Error
	if err != nil {
		return nil, err
	}
	return &service, nil
}

// List lists catalog entries ordered by category and name
func (r *serviceRepository) List(ctx context.Context, activeOnly bool) ([]*models.Service, error) {
	var services []*models.Service
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("category ASC, name ASC").Find(&services).Error
	return services, err
}

// Update updates a catalog entry
func (r *serviceRepository) Update(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Save(service).Error
}
