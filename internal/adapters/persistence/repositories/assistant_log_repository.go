package repositories

import (
	"context"

	"dentlab-backoffice/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// assistantLogRepository stores answered assistant questions
type assistantLogRepository struct {
	db *gorm.DB
}

// NewAssistantLogRepository creates a new assistant log repository
func NewAssistantLogRepository(db *gorm.DB) AssistantLogRepository {
	return &assistantLogRepository{db: db}
}

// Create appends one exchange
func (r *assistantLogRepository) Create(ctx context.Context, exchange *models.AssistantExchange) error {
	return r.db.WithContext(ctx).Create(exchange).Error
}

// ListByDoctor lists a doctor's exchanges, newest first
func (r *assistantLogRepository) ListByDoctor(ctx context.Context, doctorID uint, offset, limit int) ([]*models.AssistantExchange, int64, error) {
	var exchanges []*models.AssistantExchange
	var total int64

	query := r.db.WithContext(ctx).Model(&models.AssistantExchange{}).Where("doctor_id = ?", doctorID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&exchanges).Error
	return exchanges, total, err
}
