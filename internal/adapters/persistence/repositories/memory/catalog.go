package memory

import (
	"context"
	"sort"

	"dentlab-backoffice/internal/adapters/persistence/models"
	"dentlab-backoffice/internal/adapters/persistence/repositories"
	"dentlab-backoffice/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Doctors implements repositories.DoctorRepository
type Doctors struct{ s *Store }

// NewDoctors creates a doctor repository over s
func NewDoctors(s *Store) *Doctors { return &Doctors{s: s} }

var _ repositories.DoctorRepository = (*Doctors)(nil)

func (r *Doctors) Create(ctx context.Context, doctor *models.Doctor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.insertDoctor(doctor)
	return nil
}

func (s *Store) insertDoctor(doctor *models.Doctor) {
	s.nextDoctorID++
	doctor.ID = s.nextDoctorID
	doctor.CreatedAt = s.now()
	doctor.UpdatedAt = doctor.CreatedAt
	s.doctors[doctor.ID] = *doctor
}

func (r *Doctors) GetByID(ctx context.Context, id uint) (*models.Doctor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.doctors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &d, nil
}

func (r *Doctors) GetByUserID(ctx context.Context, userID uint) (*models.Doctor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, d := range r.s.doctors {
		if d.UserID != nil && *d.UserID == userID {
			cp := d
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *Doctors) List(ctx context.Context, filter repositories.DoctorFilter, offset, limit int) ([]*models.Doctor, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]*models.Doctor, 0, len(r.s.doctors))
	for _, d := range r.s.doctors {
		if filter.ActiveOnly && !d.IsActive {
			continue
		}
		if filter.Category != "" && d.Category != filter.Category {
			continue
		}
		cp := d
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	from, to := page(len(all), offset, limit)
	return all[from:to], int64(len(all)), nil
}

func (r *Doctors) UpdateCategory(ctx context.Context, id uint, category domain.Category, rate decimal.Decimal) error {
	return r.update(id, func(d *models.Doctor) {
		d.Category = category
		d.DiscountRate = rate
	})
}

func (r *Doctors) UpdateDiscount(ctx context.Context, id uint, rate decimal.Decimal) error {
	return r.update(id, func(d *models.Doctor) { d.DiscountRate = rate })
}

func (r *Doctors) SetActive(ctx context.Context, id uint, active bool) error {
	return r.update(id, func(d *models.Doctor) { d.IsActive = active })
}

func (r *Doctors) update(id uint, apply func(*models.Doctor)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.doctors[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	apply(&d)
	d.UpdatedAt = r.s.now()
	r.s.doctors[id] = d
	return nil
}

// Services implements repositories.ServiceRepository
type Services struct{ s *Store }

// NewServices creates a service catalog repository over s
func NewServices(s *Store) *Services { return &Services{s: s} }

var _ repositories.ServiceRepository = (*Services)(nil)

func (r *Services) Create(ctx context.Context, service *models.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.services {
		if existing.Name == service.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	r.s.nextServiceID++
	service.ID = r.s.nextServiceID
	service.CreatedAt = r.s.now()
	service.UpdatedAt = service.CreatedAt
	r.s.services[service.ID] = *service
	return nil
}

func (r *Services) GetByID(ctx context.Context, id uint) (*models.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	svc, ok := r.s.services[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &svc, nil
}

func (r *Services) GetActiveByName(ctx context.Context, name string) (*models.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, svc := range r.s.services {
		if svc.Name == name && svc.IsActive {
			cp := svc
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *Services) List(ctx context.Context, activeOnly bool) ([]*models.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.Service, 0, len(r.s.services))
	for _, svc := range r.s.services {
		if activeOnly && !svc.IsActive {
			continue
		}
		cp := svc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *Services) Update(ctx context.Context, service *models.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.services[service.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	service.UpdatedAt = r.s.now()
	r.s.services[service.ID] = *service
	return nil
}
