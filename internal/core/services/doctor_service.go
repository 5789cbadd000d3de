package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"dentlab-backoffice/internal/adapters/persistence/models"
	"dentlab-backoffice/internal/adapters/persistence/repositories"
	"dentlab-backoffice/internal/core/domain"
	"dentlab-backoffice/internal/pkg/pagination"

	"github.com/shopspring/decimal"
)

// DoctorService is the registry of referring doctors and their discounts
type DoctorService struct {
	doctorRepo repositories.DoctorRepository
}

// NewDoctorService creates a new doctor service
func NewDoctorService(doctorRepo repositories.DoctorRepository) *DoctorService {
	return &DoctorService{doctorRepo: doctorRepo}
}

// CreateDoctorInput represents a doctor profile created by staff
type CreateDoctorInput struct {
	Name      string `json:"name"`
	Clinic    string `json:"clinic"`
	Specialty string `json:"specialty"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Category  string `json:"category"`
}

// ListDoctorsInput narrows a doctor listing
type ListDoctorsInput struct {
	ActiveOnly bool
	Category   string
}

// Create creates a doctor profile. Category defaults to Regular.
func (s *DoctorService) Create(ctx context.Context, p *domain.Principal, input *CreateDoctorInput) (*models.Doctor, error) {
	if err := requireRole(p, "registering doctors", domain.RoleAdmin, domain.RoleFrontDesk); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalidInput("doctor name is required")
	}

	category := domain.CategoryRegular
	if input.Category != "" {
		c, ok := domain.ParseCategory(input.Category)
		if !ok {
			_, err := domain.DiscountFor(c)
			return nil, err
		}
		category = c
	}
	rate, err := domain.DiscountFor(category)
	if err != nil {
		return nil, err
	}

	doctor := &models.Doctor{
		Name:         name,
		Clinic:       input.Clinic,
		Specialty:    input.Specialty,
		Phone:        input.Phone,
		Email:        input.Email,
		Category:     category,
		DiscountRate: rate,
		IsActive:     true,
	}
	if err := s.doctorRepo.Create(ctx, doctor); err != nil {
		return nil, storeErr(err, domain.ErrNotFound)
	}

	log.Printf("✅ Doctor #%d %s registered as %s by %s", doctor.ID, doctor.Name, category, p.Handle)
	return doctor, nil
}

// Get gets a doctor profile
func (s *DoctorService) Get(ctx context.Context, id uint) (*models.Doctor, error) {
	doctor, err := s.doctorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, fmt.Errorf("%w: doctor #%d", domain.ErrNotFound, id))
	}
	return doctor, nil
}

// List lists doctor profiles with pagination
func (s *DoctorService) List(ctx context.Context, input *ListDoctorsInput, params *pagination.Params) ([]*models.Doctor, int64, error) {
	filter := repositories.DoctorFilter{ActiveOnly: input.ActiveOnly}
	if input.Category != "" {
		c, ok := domain.ParseCategory(input.Category)
		if !ok {
			_, err := domain.DiscountFor(c)
			return nil, 0, err
		}
		filter.Category = c
	}
	return s.doctorRepo.List(ctx, filter, params.Offset, params.Limit)
}

// DiscountFor returns the doctor's discount percentage
func (s *DoctorService) DiscountFor(ctx context.Context, id uint) (decimal.Decimal, error) {
	doctor, err := s.doctorRepo.GetByID(ctx, id)
	if err != nil {
		return decimal.Zero, storeErr(err, fmt.Errorf("%w: #%d", domain.ErrUnknownDoctor, id))
	}
	return doctor.DiscountRate, nil
}

// SetCategory changes a doctor's category and rewrites the discount from
// the category table in the same update.
func (s *DoctorService) SetCategory(ctx context.Context, p *domain.Principal, id uint, category string) (*models.Doctor, error) {
	if err := requireRole(p, "changing doctor categories", domain.RoleAdmin, domain.RoleFrontDesk); err != nil {
		return nil, err
	}

	c, _ := domain.ParseCategory(category)
	rate, err := domain.DiscountFor(c)
	if err != nil {
		return nil, err
	}

	if err := s.doctorRepo.UpdateCategory(ctx, id, c, rate); err != nil {
		return nil, storeErr(err, fmt.Errorf("%w: doctor #%d", domain.ErrNotFound, id))
	}

	log.Printf("✅ Doctor #%d category set to %s (%s%%) by %s", id, c, rate, p.Handle)
	return s.Get(ctx, id)
}

// SetDiscountOverride stores an explicit discount that lasts until the next SetCategory
func (s *DoctorService) SetDiscountOverride(ctx context.Context, p *domain.Principal, id uint, rate decimal.Decimal) (*models.Doctor, error) {
	if err := requireRole(p, "overriding discounts", domain.RoleAdmin); err != nil {
		return nil, err
	}
	if !domain.ValidDiscount(rate) {
		return nil, invalidInput("discount must be between 0 and 100, got %s", rate)
	}

	if err := s.doctorRepo.UpdateDiscount(ctx, id, rate); err != nil {
		return nil, storeErr(err, fmt.Errorf("%w: doctor #%d", domain.ErrNotFound, id))
	}

	log.Printf("⚠️ Doctor #%d discount overridden to %s%% by %s", id, rate, p.Handle)
	return s.Get(ctx, id)
}

// Deactivate hides a doctor from new orders while keeping their history
func (s *DoctorService) Deactivate(ctx context.Context, p *domain.Principal, id uint) error {
	if err := requireRole(p, "deactivating doctors", domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.doctorRepo.SetActive(ctx, id, false); err != nil {
		return storeErr(err, fmt.Errorf("%w: doctor #%d", domain.ErrNotFound, id))
	}
	log.Printf("✅ Doctor #%d deactivated by %s", id, p.Handle)
	return nil
}
