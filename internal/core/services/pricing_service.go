package services

import (
	"context"
	"fmt"
	"strings"

	"dentlab-backoffice/internal/adapters/persistence/repositories"
	"dentlab-backoffice/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Quote is a priced (service, doctor) pair as of the moment it was computed
type Quote struct {
	ServiceName    string          `json:"service_name"`
	DoctorID       uint            `json:"doctor_id"`
	BasePrice      int64           `json:"base_price"`
	DiscountRate   decimal.Decimal `json:"discount_rate"`
	Price          int64           `json:"price"`
	TurnaroundDays int             `json:"turnaround_days"`
}

// PricingService combines the catalog price with the doctor's discount
type PricingService struct {
	serviceRepo repositories.ServiceRepository
	doctorRepo  repositories.DoctorRepository
}

// NewPricingService creates a new pricing service
func NewPricingService(serviceRepo repositories.ServiceRepository, doctorRepo repositories.DoctorRepository) *PricingService {
	return &PricingService{serviceRepo: serviceRepo, doctorRepo: doctorRepo}
}

// Price quotes floor(base * (1 - discount/100)) for a service and doctor.
// Inactive services and doctors are treated as unknown.
func (s *PricingService) Price(ctx context.Context, serviceName string, doctorID uint) (*Quote, error) {
	name := strings.TrimSpace(serviceName)
	svc, err := s.serviceRepo.GetActiveByName(ctx, name)
	if err != nil {
		return nil, storeErr(err, fmt.Errorf("%w: %q is not in the active catalog", domain.ErrUnknownService, name))
	}

	doctor, err := s.doctorRepo.GetByID(ctx, doctorID)
	if err != nil {
		return nil, storeErr(err, fmt.Errorf("%w: #%d", domain.ErrUnknownDoctor, doctorID))
	}
	if !doctor.IsActive {
		return nil, fmt.Errorf("%w: #%d %s is deactivated", domain.ErrUnknownDoctor, doctorID, doctor.Name)
	}

	return &Quote{
		ServiceName:    svc.Name,
		DoctorID:       doctor.ID,
		BasePrice:      svc.BasePrice,
		DiscountRate:   doctor.DiscountRate,
		Price:          domain.NetPrice(svc.BasePrice, doctor.DiscountRate),
		TurnaroundDays: svc.TurnaroundDays,
	}, nil
}

// PriceList quotes every active service for a doctor
func (s *PricingService) PriceList(ctx context.Context, doctorID uint) ([]*Quote, error) {
	services, err := s.serviceRepo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	quotes := make([]*Quote, 0, len(services))
	for _, svc := range services {
		q, err := s.Price(ctx, svc.Name, doctorID)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}
