package repositories

import (
	"context"
	"errors"
	"time"

	"dentlab-backoffice/internal/adapters/persistence/models"
	"dentlab-backoffice/internal/core/domain"

	"github.com/shopspring/decimal"
)

// ErrStaleStatus is returned by ApplyTransition when the order's status no
// longer matches the status the caller validated against.
var ErrStaleStatus = errors.New("order status changed concurrently")

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByHandle(ctx context.Context, handle string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByHandle(ctx context.Context, handle string) (bool, error)
	// CreateWithDoctor stores a doctor's user account and profile in one transaction
	CreateWithDoctor(ctx context.Context, user *models.User, doctor *models.Doctor) error
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// DoctorFilter narrows doctor listings
type DoctorFilter struct {
	ActiveOnly bool
	Category   domain.Category
}

// DoctorRepository defines doctor repository interface
type DoctorRepository interface {
	Create(ctx context.Context, doctor *models.Doctor) error
	GetByID(ctx context.Context, id uint) (*models.Doctor, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Doctor, error)
	List(ctx context.Context, filter DoctorFilter, offset, limit int) ([]*models.Doctor, int64, error)
	// UpdateCategory writes category and discount rate in a single update
	UpdateCategory(ctx context.Context, id uint, category domain.Category, rate decimal.Decimal) error
	UpdateDiscount(ctx context.Context, id uint, rate decimal.Decimal) error
	SetActive(ctx context.Context, id uint, active bool) error
}

// ServiceRepository defines service catalog repository interface
type ServiceRepository interface {
	Create(ctx context.Context, service *models.Service) error
	GetByID(ctx context.Context, id uint) (*models.Service, error)
	GetActiveByName(ctx context.Context, name string) (*models.Service, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Service, error)
	Update(ctx context.Context, service *models.Service) error
}

// OrderFilter narrows order listings
type OrderFilter struct {
	DoctorID *uint
	Status   domain.OrderStatus
}

// OrderRepository defines order repository interface
type OrderRepository interface {
	// Create assigns the next order number from the store sequence, inserts
	// the order and its first history event in one transaction.
	Create(ctx context.Context, order *models.Order, event *models.OrderEvent) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	GetByTrackingToken(ctx context.Context, token string) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter, offset, limit int) ([]*models.Order, int64, error)
	// ApplyTransition persists order's status, technician, notes and
	// delivery stamp only if the stored status still equals from, and
	// appends event in the same transaction. Returns ErrStaleStatus otherwise.
	ApplyTransition(ctx context.Context, order *models.Order, from domain.OrderStatus, event *models.OrderEvent) error
	History(ctx context.Context, orderID uint) ([]*models.OrderEvent, error)
}

// InventoryRepository defines inventory repository interface
type InventoryRepository interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	GetByID(ctx context.Context, id uint) (*models.InventoryItem, error)
	List(ctx context.Context) ([]*models.InventoryItem, error)
	ListExpiredBefore(ctx context.Context, t time.Time) ([]*models.InventoryItem, error)
	UpdateQuantity(ctx context.Context, id uint, quantity int) error
}

// AssistantLogRepository defines the append-only assistant log
type AssistantLogRepository interface {
	Create(ctx context.Context, exchange *models.AssistantExchange) error
	ListByDoctor(ctx context.Context, doctorID uint, offset, limit int) ([]*models.AssistantExchange, int64, error)
}
