// Package memory keeps every repository in process maps. It backs the
// service and handler tests and reports misses as gorm.ErrRecordNotFound
// so callers see the same errors as with the MySQL store.
package memory

import (
	"sync"
	"time"

	"dentlab-backoffice/internal/adapters/persistence/models"
)

// Store is the shared in-memory state behind all repositories
type Store struct {
	mu sync.RWMutex

	nextUserID, nextTokenID, nextDoctorID uint
	nextServiceID, nextOrderID            uint
	nextEventID, nextItemID, orderSeq     uint
	nextExchangeID                        uint

	users     map[uint]models.User
	tokens    map[uint]models.RefreshToken
	doctors   map[uint]models.Doctor
	services  map[uint]models.Service
	orders    map[uint]models.Order
	events    []models.OrderEvent
	inventory map[uint]models.InventoryItem
	exchanges []models.AssistantExchange

	now func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:     make(map[uint]models.User),
		tokens:    make(map[uint]models.RefreshToken),
		doctors:   make(map[uint]models.Doctor),
		services:  make(map[uint]models.Service),
		orders:    make(map[uint]models.Order),
		inventory: make(map[uint]models.InventoryItem),
		now:       time.Now,
	}
}

// page applies offset/limit to an already ordered slice length
func page(n, offset, limit int) (int, int) {
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}
