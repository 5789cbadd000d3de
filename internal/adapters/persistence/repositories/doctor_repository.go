package repositories

import (
	"context"

	"dentlab-backoffice/internal/adapters/persistence/models"
	"dentlab-backoffice/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DoctorRepository handles doctor data access
type doctorRepository struct {
	db *gorm.DB
}

// NewDoctorRepository creates a new doctor repository
func NewDoctorRepository(db *gorm.DB) DoctorRepository {
	return &doctorRepository{db: db}
}

// Create creates a new doctor profile
func (r *doctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	return r.db.WithContext(ctx).Create(doctor).Error
}

// GetByID gets a doctor by ID
func (r *doctorRepository) GetByID(ctx context.Context, id uint) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := r.db.WithContext(ctx).First(&doctor, id).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}

// GetByUserID gets the doctor profile backing a user account
func (r *doctorRepository) GetByUserID(ctx context.Context, userID uint) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&doctor).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}

// List lists doctors with pagination
func (r *doctorRepository) List(ctx context.Context, filter DoctorFilter, offset, limit int) ([]*models.Doctor, int64, error) {
	var doctors []*models.Doctor
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Doctor{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&doctors).Error
	return doctors, total, err
}

// UpdateCategory sets category and discount rate together
func (r *doctorRepository) UpdateCategory(ctx context.Context, id uint, category domain.Category, rate decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&models.Doctor{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"category":      category,
			"discount_rate": rate,
		})
	return rowsOrNotFound(res)
}

// UpdateDiscount overrides the discount rate only
func (r *doctorRepository) UpdateDiscount(ctx context.Context, id uint, rate decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&models.Doctor{}).
		Where("id = ?", id).
		Update("discount_rate", rate)
	return rowsOrNotFound(res)
}

// SetActive activates or deactivates a doctor profile
func (r *doctorRepository) SetActive(ctx context.Context, id uint, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Doctor{}).
		Where("id = ?", id).
		Update("is_active", active)
	return rowsOrNotFound(res)
}

// rowsOrNotFound reports gorm.ErrRecordNotFound for updates that matched nothing
func rowsOrNotFound(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
