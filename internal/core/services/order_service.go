package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"dentlab-backoffice/internal/adapters/persistence/models"
	"dentlab-backoffice/internal/adapters/persistence/repositories"
	"dentlab-backoffice/internal/core/domain"
	"dentlab-backoffice/internal/pkg/pagination"

	"github.com/google/uuid"
)

// OrderService owns the order lifecycle
type OrderService struct {
	orderRepo repositories.OrderRepository
	pricing   *PricingService
	now       func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo repositories.OrderRepository, pricing *PricingService) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		pricing:   pricing,
		now:       time.Now,
	}
}

// CreateOrderInput represents a new work order
type CreateOrderInput struct {
	DoctorID    uint   `json:"doctor_id"`
	Patient     string `json:"patient"`
	ServiceName string `json:"service_name"`
	Spec        string `json:"spec"`
	Technician  string `json:"technician"`
	Notes       string `json:"notes"`
}

// TransitionInput represents a requested status change
type TransitionInput struct {
	Target     domain.OrderStatus `json:"target"`
	Technician *string            `json:"technician"`
	Note       string             `json:"note"`
}

// ListOrdersInput narrows an order listing
type ListOrdersInput struct {
	Status   domain.OrderStatus
	DoctorID *uint
}

// TrackingView is what an anonymous holder of a tracking token may see
type TrackingView struct {
	OrderNumber    string             `json:"order_number"`
	ServiceName    string             `json:"service_name"`
	Status         domain.OrderStatus `json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
	EstDelivery    *time.Time         `json:"est_delivery"`
	ActualDelivery *time.Time         `json:"actual_delivery"`
}

// Create prices and stores a new order in its initial status
func (s *OrderService) Create(ctx context.Context, p *domain.Principal, input *CreateOrderInput) (*models.Order, error) {
	if p == nil || p.Is(domain.RoleCourier) || !p.Role.Valid() {
		return nil, fmt.Errorf("%w: creating orders requires one of %s, %s, %s, %s",
			domain.ErrForbidden, domain.RoleAdmin, domain.RoleFrontDesk, domain.RoleTechnician, domain.RoleDoctor)
	}

	if p.Is(domain.RoleDoctor) {
		if p.DoctorID == nil {
			return nil, fmt.Errorf("%w: doctor account has no doctor profile", domain.ErrForbidden)
		}
		if input.DoctorID == 0 {
			input.DoctorID = *p.DoctorID
		}
		if !p.OwnsDoctor(input.DoctorID) {
			return nil, fmt.Errorf("%w: doctors may only create orders for themselves", domain.ErrForbidden)
		}
	}

	input.Patient = strings.TrimSpace(input.Patient)
	switch {
	case input.DoctorID == 0:
		return nil, invalidInput("doctor_id is required")
	case input.Patient == "":
		return nil, invalidInput("patient name is required")
	case strings.TrimSpace(input.ServiceName) == "":
		return nil, invalidInput("service_name is required")
	}

	quote, err := s.pricing.Price(ctx, input.ServiceName, input.DoctorID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	est := now.AddDate(0, 0, quote.TurnaroundDays)
	order := &models.Order{
		DoctorID:      input.DoctorID,
		Patient:       input.Patient,
		ServiceName:   quote.ServiceName,
		Spec:          input.Spec,
		Status:        domain.InitialOrderStatus,
		Technician:    strings.TrimSpace(input.Technician),
		CreatedBy:     p.UserID,
		EstDelivery:   &est,
		BasePrice:     quote.BasePrice,
		DiscountRate:  quote.DiscountRate,
		Price:         quote.Price,
		Notes:         input.Notes,
		TrackingToken: uuid.NewString(),
	}
	event := &models.OrderEvent{
		ToStatus:  domain.InitialOrderStatus,
		ActorID:   p.UserID,
		ActorRole: p.Role,
		Note:      "order created",
		CreatedAt: now,
	}

	if err := s.orderRepo.Create(ctx, order, event); err != nil {
		return nil, storeErr(err, domain.ErrNotFound)
	}

	log.Printf("✅ Order %s created by %s: %s for %s at %d (%s%% off %d)",
		order.OrderNumber, p.Handle, order.ServiceName, order.Patient, order.Price, order.DiscountRate, order.BasePrice)

	return s.load(ctx, order.ID)
}

// Transition moves an order to target. Staff may jump forward or move an
// order back; couriers only pick up packed orders and deliver them.
func (s *OrderService) Transition(ctx context.Context, p *domain.Principal, id uint, input *TransitionInput) (*models.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, p, order, input)
}

// Advance moves an order one business step forward
func (s *OrderService) Advance(ctx context.Context, p *domain.Principal, id uint) (*models.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	target, ok := order.Status.Next()
	if !ok {
		// Terminal: let the permission check report it
		target = order.Status
	}
	return s.apply(ctx, p, order, &TransitionInput{Target: target})
}

func (s *OrderService) apply(ctx context.Context, p *domain.Principal, order *models.Order, input *TransitionInput) (*models.Order, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: changing order status requires an authenticated principal", domain.ErrForbidden)
	}

	from := order.Status
	if err := domain.CheckTransition(p.Role, from, input.Target); err != nil {
		log.Printf("⚠️ Order %s: %s refused %s -> %s: %v", order.OrderNumber, p.Handle, from, input.Target, err)
		return nil, err
	}

	now := s.now()
	order.Status = input.Target
	if input.Technician != nil {
		order.Technician = strings.TrimSpace(*input.Technician)
	}
	if input.Target == domain.StatusDelivered {
		order.ActualDelivery = &now
	}

	event := &models.OrderEvent{
		FromStatus: from,
		ToStatus:   input.Target,
		ActorID:    p.UserID,
		ActorRole:  p.Role,
		Note:       strings.TrimSpace(input.Note),
		CreatedAt:  now,
	}

	if err := s.orderRepo.ApplyTransition(ctx, order, from, event); err != nil {
		if errors.Is(err, repositories.ErrStaleStatus) {
			return nil, fmt.Errorf("%w: order %s changed concurrently, reload and retry",
				domain.ErrInvalidTransition, order.OrderNumber)
		}
		return nil, err
	}

	log.Printf("✅ Order %s: %s -> %s by %s (%s)", order.OrderNumber, from, input.Target, p.Handle, p.Role)
	return order, nil
}

// Get gets an order. Doctors only see their own orders.
func (s *OrderService) Get(ctx context.Context, p *domain.Principal, id uint) (*models.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canView(p, order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetByTrackingToken is the public lookup behind a printed slip
func (s *OrderService) GetByTrackingToken(ctx context.Context, token string) (*TrackingView, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, fmt.Errorf("%w: unknown tracking token", domain.ErrNotFound)
	}
	order, err := s.orderRepo.GetByTrackingToken(ctx, token)
	if err != nil {
		return nil, storeErr(err, fmt.Errorf("%w: unknown tracking token", domain.ErrNotFound))
	}
	return &TrackingView{
		OrderNumber:    order.OrderNumber,
		ServiceName:    order.ServiceName,
		Status:         order.Status,
		CreatedAt:      order.CreatedAt,
		EstDelivery:    order.EstDelivery,
		ActualDelivery: order.ActualDelivery,
	}, nil
}

// List lists orders newest first. Doctors are limited to their own orders.
func (s *OrderService) List(ctx context.Context, p *domain.Principal, input *ListOrdersInput, params *pagination.Params) ([]*models.Order, int64, error) {
	filter := repositories.OrderFilter{Status: input.Status, DoctorID: input.DoctorID}
	if p.Is(domain.RoleDoctor) {
		if p.DoctorID == nil {
			return nil, 0, fmt.Errorf("%w: doctor account has no doctor profile", domain.ErrForbidden)
		}
		filter.DoctorID = p.DoctorID
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, invalidInput("unknown status %q", filter.Status)
	}
	return s.orderRepo.List(ctx, filter, params.Offset, params.Limit)
}

// History returns the status events of an order, oldest first
func (s *OrderService) History(ctx context.Context, p *domain.Principal, id uint) ([]*models.OrderEvent, error) {
	if _, err := s.Get(ctx, p, id); err != nil {
		return nil, err
	}
	return s.orderRepo.History(ctx, id)
}

func (s *OrderService) load(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, fmt.Errorf("%w: order #%d", domain.ErrNotFound, id))
	}
	return order, nil
}

func canView(p *domain.Principal, order *models.Order) error {
	if p == nil {
		return fmt.Errorf("%w: authentication required", domain.ErrForbidden)
	}
	if p.Is(domain.RoleDoctor) && !p.OwnsDoctor(order.DoctorID) {
		return fmt.Errorf("%w: order %s belongs to another doctor", domain.ErrForbidden, order.OrderNumber)
	}
	return nil
}
