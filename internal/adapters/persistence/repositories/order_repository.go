package repositories

import (
	"context"
	"time"

	"dentlab-backoffice/internal/adapters/persistence/models"
	"dentlab-backoffice/internal/core/domain"

	"gorm.io/gorm"
)

// orderRepository handles order data access
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create numbers and inserts a new order together with its first event
func (r *orderRepository) Create(ctx context.Context, order *models.Order, event *models.OrderEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq := models.OrderSequence{}
		if err := tx.Create(&seq).Error; err != nil {
			return err
		}
		order.OrderNumber = domain.FormatOrderNumber(seq.ID)

		if err := tx.Omit("Doctor").Create(order).Error; err != nil {
			return err
		}

		event.OrderID = order.ID
		return tx.Create(event).Error
	})
}

// GetByID gets an order by ID with its doctor
func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Doctor").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByTrackingToken gets an order by its public tracking token
func (r *orderRepository) GetByTrackingToken(ctx context.Context, token string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Doctor").
		Where("tracking_token = ?", token).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List lists orders, newest first
func (r *orderRepository) List(ctx context.Context, filter OrderFilter, offset, limit int) ([]*models.Order, int64, error) {
	var orders []*models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.DoctorID != nil {
		query = query.Where("doctor_id = ?", *filter.DoctorID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Doctor").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error

	return orders, total, err
}

// ApplyTransition writes the new status only if the stored status is still from
func (r *orderRepository) ApplyTransition(ctx context.Context, order *models.Order, from domain.OrderStatus, event *models.OrderEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, from).
			Updates(map[string]interface{}{
				"status":          order.Status,
				"technician":      order.Technician,
				"notes":           order.Notes,
				"actual_delivery": order.ActualDelivery,
				"updated_at":      time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}

		event.OrderID = order.ID
		return tx.Create(event).Error
	})
}

// History gets the status events of an order, oldest first
func (r *orderRepository) History(ctx context.Context, orderID uint) ([]*models.OrderEvent, error) {
	var events []*models.OrderEvent
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&events).Error
	return events, err
}
