package services

import (
	"context"
	"fmt"
	"time"

	"dentlab-backoffice/internal/adapters/persistence/models"
	"dentlab-backoffice/internal/adapters/persistence/repositories"
	"dentlab-backoffice/internal/core/domain"
)

const recentOrderLimit = 10

// DashboardService builds role-specific overviews
type DashboardService struct {
	orderRepo repositories.OrderRepository
	alerts    *StockAlertService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(orderRepo repositories.OrderRepository, alerts *StockAlertService) *DashboardService {
	return &DashboardService{orderRepo: orderRepo, alerts: alerts}
}

// ============================================================
// Staff Dashboard
// ============================================================

// StaffDashboardData represents the lab-wide overview
type StaffDashboardData struct {
	// Order Statistics
	TotalOrders    int64                        `json:"total_orders"`
	OpenOrders     int64                        `json:"open_orders"`
	OrdersByStatus map[domain.OrderStatus]int64 `json:"orders_by_status"`

	// Stock Statistics
	CriticalItems int `json:"critical_items"`
	LowItems      int `json:"low_items"`
	ExpiredItems  int `json:"expired_items"`

	// Recent Activity
	RecentOrders []OrderSummary `json:"recent_orders"`
}

// DoctorDashboardData represents a referring doctor's overview
type DoctorDashboardData struct {
	TotalOrders    int64                        `json:"total_orders"`
	OpenOrders     int64                        `json:"open_orders"`
	OrdersByStatus map[domain.OrderStatus]int64 `json:"orders_by_status"`
	RecentOrders   []OrderSummary               `json:"recent_orders"`
}

// OrderSummary represents one line of recent activity
type OrderSummary struct {
	ID          uint               `json:"id"`
	OrderNumber string             `json:"order_number"`
	Patient     string             `json:"patient"`
	ServiceName string             `json:"service_name"`
	Status      domain.OrderStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
}

// GetStaffDashboard returns lab-wide order and stock figures
func (s *DashboardService) GetStaffDashboard(ctx context.Context, p *domain.Principal) (*StaffDashboardData, error) {
	if p == nil || !p.Role.IsStaff() {
		return nil, fmt.Errorf("%w: the lab dashboard is for staff", domain.ErrForbidden)
	}

	counts, total, open, err := s.countByStatus(ctx, nil)
	if err != nil {
		return nil, err
	}
	recent, err := s.recent(ctx, nil)
	if err != nil {
		return nil, err
	}
	report, err := s.alerts.Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &StaffDashboardData{
		TotalOrders:    total,
		OpenOrders:     open,
		OrdersByStatus: counts,
		CriticalItems:  len(report.Critical),
		LowItems:       len(report.Low),
		ExpiredItems:   len(report.Expired),
		RecentOrders:   recent,
	}, nil
}

// GetDoctorDashboard returns figures for the calling doctor's own orders
func (s *DashboardService) GetDoctorDashboard(ctx context.Context, p *domain.Principal) (*DoctorDashboardData, error) {
	if p == nil || !p.Is(domain.RoleDoctor) || p.DoctorID == nil {
		return nil, fmt.Errorf("%w: doctor account required", domain.ErrForbidden)
	}

	counts, total, open, err := s.countByStatus(ctx, p.DoctorID)
	if err != nil {
		return nil, err
	}
	recent, err := s.recent(ctx, p.DoctorID)
	if err != nil {
		return nil, err
	}

	return &DoctorDashboardData{
		TotalOrders:    total,
		OpenOrders:     open,
		OrdersByStatus: counts,
		RecentOrders:   recent,
	}, nil
}

func (s *DashboardService) countByStatus(ctx context.Context, doctorID *uint) (map[domain.OrderStatus]int64, int64, int64, error) {
	counts := make(map[domain.OrderStatus]int64, len(domain.OrderStatuses))
	var total, open int64
	for _, status := range domain.OrderStatuses {
		_, n, err := s.orderRepo.List(ctx, repositories.OrderFilter{DoctorID: doctorID, Status: status}, 0, 1)
		if err != nil {
			return nil, 0, 0, err
		}
		counts[status] = n
		total += n
		if status != domain.StatusDelivered {
			open += n
		}
	}
	return counts, total, open, nil
}

func (s *DashboardService) recent(ctx context.Context, doctorID *uint) ([]OrderSummary, error) {
	orders, _, err := s.orderRepo.List(ctx, repositories.OrderFilter{DoctorID: doctorID}, 0, recentOrderLimit)
	if err != nil {
		return nil, err
	}
	return toOrderSummaries(orders), nil
}

func toOrderSummaries(orders []*models.Order) []OrderSummary {
	summaries := make([]OrderSummary, 0, len(orders))
	for _, o := range orders {
		summaries = append(summaries, OrderSummary{
			ID:          o.ID,
			OrderNumber: o.OrderNumber,
			Patient:     o.Patient,
			ServiceName: o.ServiceName,
			Status:      o.Status,
			CreatedAt:   o.CreatedAt,
		})
	}
	return summaries
}
