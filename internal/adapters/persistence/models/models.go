package models

import (
	"time"

	"dentlab-backoffice/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// Users & sessions
// ============================================================

// User represents users table. Users are deactivated, never deleted.
type User struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Handle    string      `gorm:"uniqueIndex;size:50;not null" json:"handle"`
	Password  string      `gorm:"size:255;not null" json:"-"`
	Role      domain.Role `gorm:"size:20;not null;index" json:"role"`
	Name      string      `gorm:"size:100;not null" json:"name"`
	Email     string      `gorm:"size:100" json:"email"`
	Phone     string      `gorm:"size:30" json:"phone"`
	IsActive  bool        `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint        `json:"id"`
	Handle    string      `json:"handle"`
	Role      domain.Role `json:"role"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	IsActive  bool        `json:"is_active"`
	DoctorID  *uint       `json:"doctor_id,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Handle:    u.Handle,
		Role:      u.Role,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Reference data: doctors & service catalog
// ============================================================

// Doctor represents doctors table. DiscountRate is written together with
// Category; see DoctorRepository.UpdateCategory.
type Doctor struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       *uint           `gorm:"uniqueIndex" json:"user_id"`
	Name         string          `gorm:"size:100;not null" json:"name"`
	Clinic       string          `gorm:"size:150" json:"clinic"`
	Specialty    string          `gorm:"size:100" json:"specialty"`
	Phone        string          `gorm:"size:30" json:"phone"`
	Email        string          `gorm:"size:100" json:"email"`
	Category     domain.Category `gorm:"size:20;not null;default:'REGULAR'" json:"category"`
	DiscountRate decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"discount_rate"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// Service represents services table (the lab's work-type catalog)
type Service struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Category       string    `gorm:"size:100" json:"category"`
	Description    string    `gorm:"type:text" json:"description"`
	BasePrice      int64     `gorm:"not null" json:"base_price"`
	TurnaroundDays int       `gorm:"not null;default:0" json:"turnaround_days"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Service) TableName() string {
	return "services"
}

// ============================================================
// Orders
// ============================================================

// Order represents orders table. Status changes only through
// OrderRepository.ApplyTransition; rows are never deleted.
type Order struct {
	ID             uint               `gorm:"primaryKey" json:"id"`
	OrderNumber    string             `gorm:"size:20;uniqueIndex;not null" json:"order_number"`
	DoctorID       uint               `gorm:"not null;index" json:"doctor_id"`
	Patient        string             `gorm:"size:150;not null" json:"patient"`
	ServiceName    string             `gorm:"size:100;not null" json:"service_name"`
	Spec           string             `gorm:"type:text" json:"spec"`
	Status         domain.OrderStatus `gorm:"size:30;not null;index" json:"status"`
	Technician     string             `gorm:"size:100" json:"technician"`
	CreatedBy      uint               `gorm:"not null" json:"created_by"`
	EstDelivery    *time.Time         `json:"est_delivery"`
	ActualDelivery *time.Time         `json:"actual_delivery"`
	BasePrice      int64              `gorm:"not null" json:"base_price"`
	DiscountRate   decimal.Decimal    `gorm:"type:decimal(5,2);not null" json:"discount_rate"`
	Price          int64              `gorm:"not null" json:"price"`
	Notes          string             `gorm:"type:text" json:"notes"`
	TrackingToken  string             `gorm:"size:36;uniqueIndex;not null" json:"tracking_token"`
	CreatedAt      time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time          `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Doctor *Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderSequence is the store-owned counter behind order numbers.
// Each new order inserts one row and uses its auto-increment id.
type OrderSequence struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (OrderSequence) TableName() string {
	return "order_sequences"
}

// OrderEvent is the append-only status history of an order. The full
// status history of an order can be replayed from these rows alone.
type OrderEvent struct {
	ID         uint               `gorm:"primaryKey" json:"id"`
	OrderID    uint               `gorm:"not null;index" json:"order_id"`
	FromStatus domain.OrderStatus `gorm:"size:30" json:"from_status,omitempty"`
	ToStatus   domain.OrderStatus `gorm:"size:30;not null" json:"to_status"`
	ActorID    uint               `gorm:"not null" json:"actor_id"`
	ActorRole  domain.Role        `gorm:"size:20;not null" json:"actor_role"`
	Note       string             `gorm:"type:text" json:"note,omitempty"`
	CreatedAt  time.Time          `gorm:"not null" json:"created_at"`
}

func (OrderEvent) TableName() string {
	return "order_events"
}

// ============================================================
// Inventory
// ============================================================

// InventoryItem represents inventory table
type InventoryItem struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:150;not null" json:"name"`
	Category    string     `gorm:"size:100" json:"category"`
	Quantity    int        `gorm:"not null;default:0" json:"quantity"`
	MinQuantity int        `gorm:"not null;default:0" json:"min_quantity"`
	UnitPrice   int64      `gorm:"not null;default:0" json:"unit_price"`
	Supplier    string     `gorm:"size:150" json:"supplier"`
	Expiry      *time.Time `json:"expiry"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (InventoryItem) TableName() string {
	return "inventory"
}

// Level classifies the item's on-hand quantity against its minimum
func (i *InventoryItem) Level() domain.StockLevel {
	return domain.ClassifyStock(i.Quantity, i.MinQuantity)
}

// InventoryItemResponse DTO
type InventoryItemResponse struct {
	*InventoryItem
	Level domain.StockLevel `json:"level"`
}

func (i *InventoryItem) ToResponse() *InventoryItemResponse {
	return &InventoryItemResponse{InventoryItem: i, Level: i.Level()}
}

// ============================================================
// Assistant
// ============================================================

// AssistantExchange is one answered question. Rows are append-only and are
// never read back by the assistant when answering.
type AssistantExchange struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DoctorID  uint      `gorm:"not null;index" json:"doctor_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Rule      string    `gorm:"size:30;not null" json:"rule"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AssistantExchange) TableName() string {
	return "assistant_exchanges"
}

// ============================================================
// Migration
// ============================================================

// AutoMigrate creates or updates every table the back office owns
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Doctor{},
		&Service{},
		&OrderSequence{},
		&Order{},
		&OrderEvent{},
		&InventoryItem{},
		&AssistantExchange{},
	)
}
