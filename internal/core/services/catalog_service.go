package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"dentlab-backoffice/internal/adapters/persistence/models"
	"dentlab-backoffice/internal/adapters/persistence/repositories"
	"dentlab-backoffice/internal/core/domain"
)

// CatalogService manages the lab's work-type catalog
type CatalogService struct {
	serviceRepo repositories.ServiceRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(serviceRepo repositories.ServiceRepository) *CatalogService {
	return &CatalogService{serviceRepo: serviceRepo}
}

// CreateServiceInput represents a new catalog entry
type CreateServiceInput struct {
	Name           string `json:"name"`
	Category       string `json:"category"`
	Description    string `json:"description"`
	BasePrice      int64  `json:"base_price"`
	TurnaroundDays int    `json:"turnaround_days"`
}

// Lookup finds an active service by name
func (s *CatalogService) Lookup(ctx context.Context, name string) (*models.Service, error) {
	svc, err := s.serviceRepo.GetActiveByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, storeErr(err, fmt.Errorf("%w: %q is not in the active catalog", domain.ErrUnknownService, name))
	}
	return svc, nil
}

// Get gets a catalog entry by ID
func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Service, error) {
	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, fmt.Errorf("%w: service #%d", domain.ErrNotFound, id))
	}
	return svc, nil
}

// List lists the catalog
func (s *CatalogService) List(ctx context.Context, activeOnly bool) ([]*models.Service, error) {
	return s.serviceRepo.List(ctx, activeOnly)
}

// Create adds a catalog entry
func (s *CatalogService) Create(ctx context.Context, p *domain.Principal, input *CreateServiceInput) (*models.Service, error) {
	if err := requireRole(p, "editing the catalog", domain.RoleAdmin); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	switch {
	case name == "":
		return nil, invalidInput("service name is required")
	case input.BasePrice < 0:
		return nil, invalidInput("base price cannot be negative")
	case input.TurnaroundDays < 0:
		return nil, invalidInput("turnaround days cannot be negative")
	}

	svc := &models.Service{
		Name:           name,
		Category:       input.Category,
		Description:    input.Description,
		BasePrice:      input.BasePrice,
		TurnaroundDays: input.TurnaroundDays,
		IsActive:       true,
	}
	if err := s.serviceRepo.Create(ctx, svc); err != nil {
		return nil, storeErr(err, domain.ErrNotFound)
	}

	log.Printf("✅ Service %q added at %d by %s", svc.Name, svc.BasePrice, p.Handle)
	return svc, nil
}

// UpdatePrice changes a service's base price. Existing orders keep their snapshot.
func (s *CatalogService) UpdatePrice(ctx context.Context, p *domain.Principal, id uint, basePrice int64) (*models.Service, error) {
	if err := requireRole(p, "editing the catalog", domain.RoleAdmin); err != nil {
		return nil, err
	}
	if basePrice < 0 {
		return nil, invalidInput("base price cannot be negative")
	}

	svc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	old := svc.BasePrice
	svc.BasePrice = basePrice
	if err := s.serviceRepo.Update(ctx, svc); err != nil {
		return nil, err
	}

	log.Printf("✅ Service %q price %d -> %d by %s", svc.Name, old, basePrice, p.Handle)
	return svc, nil
}

// Deactivate removes a service from the active catalog
func (s *CatalogService) Deactivate(ctx context.Context, p *domain.Principal, id uint) error {
	if err := requireRole(p, "editing the catalog", domain.RoleAdmin); err != nil {
		return err
	}
	svc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	svc.IsActive = false
	if err := s.serviceRepo.Update(ctx, svc); err != nil {
		return err
	}
	log.Printf("✅ Service %q deactivated by %s", svc.Name, p.Handle)
	return nil
}
