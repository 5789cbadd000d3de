package memory

import (
	"context"
	"sort"
	"time"

	"dentlab-backoffice/internal/adapters/persistence/models"
	"dentlab-backoffice/internal/adapters/persistence/repositories"
	"dentlab-backoffice/internal/core/domain"

	"gorm.io/gorm"
)

// Orders implements repositories.OrderRepository
type Orders struct{ s *Store }

// NewOrders creates an order repository over s
func NewOrders(s *Store) *Orders { return &Orders{s: s} }

var _ repositories.OrderRepository = (*Orders)(nil)

func (r *Orders) Create(ctx context.Context, order *models.Order, event *models.OrderEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.orderSeq++
	order.OrderNumber = domain.FormatOrderNumber(r.s.orderSeq)
	r.s.nextOrderID++
	order.ID = r.s.nextOrderID
	order.CreatedAt = r.s.now()
	order.UpdatedAt = order.CreatedAt
	order.Doctor = nil
	r.s.orders[order.ID] = *order

	event.OrderID = order.ID
	r.s.appendEvent(event)
	return nil
}

func (r *Orders) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.s.withDoctor(o), nil
}

func (r *Orders) GetByTrackingToken(ctx context.Context, token string) (*models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, o := range r.s.orders {
		if o.TrackingToken == token {
			return r.s.withDoctor(o), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *Orders) List(ctx context.Context, filter repositories.OrderFilter, offset, limit int) ([]*models.Order, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]*models.Order, 0, len(r.s.orders))
	for _, o := range r.s.orders {
		if filter.DoctorID != nil && o.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		all = append(all, r.s.withDoctor(o))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	from, to := page(len(all), offset, limit)
	return all[from:to], int64(len(all)), nil
}

func (r *Orders) ApplyTransition(ctx context.Context, order *models.Order, from domain.OrderStatus, event *models.OrderEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.orders[order.ID]
	if !ok || stored.Status != from {
		return repositories.ErrStaleStatus
	}
	stored.Status = order.Status
	stored.Technician = order.Technician
	stored.Notes = order.Notes
	stored.ActualDelivery = order.ActualDelivery
	stored.UpdatedAt = r.s.now()
	r.s.orders[order.ID] = stored

	event.OrderID = order.ID
	r.s.appendEvent(event)
	return nil
}

func (r *Orders) History(ctx context.Context, orderID uint) ([]*models.OrderEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*models.OrderEvent
	for _, e := range r.s.events {
		if e.OrderID == orderID {
			cp := e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// SetStatus overwrites an order's status without an event, simulating a
// concurrent writer in tests.
func (r *Orders) SetStatus(id uint, status domain.OrderStatus) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o, ok := r.s.orders[id]; ok {
		o.Status = status
		r.s.orders[id] = o
	}
}

func (s *Store) appendEvent(event *models.OrderEvent) {
	s.nextEventID++
	event.ID = s.nextEventID
	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.now()
	}
	s.events = append(s.events, *event)
}

func (s *Store) withDoctor(o models.Order) *models.Order {
	if d, ok := s.doctors[o.DoctorID]; ok {
		o.Doctor = &d
	}
	return &o
}

// Inventory implements repositories.InventoryRepository
type Inventory struct{ s *Store }

// NewInventory creates an inventory repository over s
func NewInventory(s *Store) *Inventory { return &Inventory{s: s} }

var _ repositories.InventoryRepository = (*Inventory)(nil)

func (r *Inventory) Create(ctx context.Context, item *models.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextItemID++
	item.ID = r.s.nextItemID
	item.CreatedAt = r.s.now()
	item.UpdatedAt = item.CreatedAt
	r.s.inventory[item.ID] = *item
	return nil
}

func (r *Inventory) GetByID(ctx context.Context, id uint) (*models.InventoryItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	item, ok := r.s.inventory[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &item, nil
}

func (r *Inventory) List(ctx context.Context) ([]*models.InventoryItem, error) {
	return r.collect(func(models.InventoryItem) bool { return true }), nil
}

func (r *Inventory) ListExpiredBefore(ctx context.Context, t time.Time) ([]*models.InventoryItem, error) {
	items := r.collect(func(i models.InventoryItem) bool {
		return i.Expiry != nil && i.Expiry.Before(t)
	})
	sort.SliceStable(items, func(i, j int) bool { return items[i].Expiry.Before(*items[j].Expiry) })
	return items, nil
}

func (r *Inventory) UpdateQuantity(ctx context.Context, id uint, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.inventory[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.Quantity = quantity
	item.UpdatedAt = r.s.now()
	r.s.inventory[id] = item
	return nil
}

func (r *Inventory) collect(keep func(models.InventoryItem) bool) []*models.InventoryItem {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.InventoryItem, 0, len(r.s.inventory))
	for _, item := range r.s.inventory {
		if keep(item) {
			cp := item
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out
}
