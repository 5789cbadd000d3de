package services

import (
	"context"
	"errors"
	"testing"

	"dentlab-backoffice/internal/core/domain"
)

func TestDashboards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	drPaz, pazProfile := env.addDoctor(t, "dr.paz", domain.CategoryRegular)
	_, ortizProfile := env.addDoctor(t, "dr.ortiz", domain.CategoryVIP)

	var pazOrders []uint
	for _, doctorID := range []uint{pazProfile.ID, pazProfile.ID, ortizProfile.ID} {
		order, err := env.order.Create(ctx, frontDesk, &CreateOrderInput{
			DoctorID: doctorID, Patient: "Paciente", ServiceName: "Corona Zirconio",
		})
		if err != nil {
			t.Fatal(err)
		}
		if doctorID == pazProfile.ID {
			pazOrders = append(pazOrders, order.ID)
		}
	}
	if _, err := env.order.Transition(ctx, technician, pazOrders[0], &TransitionInput{Target: domain.StatusInProduction}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.stock.Create(ctx, &CreateItemInput{Name: "Disco Zirconio", Quantity: 2, MinQuantity: 4}); err != nil {
		t.Fatal(err)
	}

	dashboards := NewDashboardService(env.orders, NewStockAlertService(env.stock))

	t.Run("staff sees the whole lab", func(t *testing.T) {
		data, err := dashboards.GetStaffDashboard(ctx, frontDesk)
		if err != nil {
			t.Fatal(err)
		}
		if data.TotalOrders != 3 || data.OpenOrders != 3 {
			t.Errorf("totals = %d/%d, want 3/3", data.TotalOrders, data.OpenOrders)
		}
		if data.OrdersByStatus[domain.StatusCreated] != 2 || data.OrdersByStatus[domain.StatusInProduction] != 1 {
			t.Errorf("by status = %v", data.OrdersByStatus)
		}
		if data.CriticalItems != 1 || len(data.RecentOrders) != 3 {
			t.Errorf("critical = %d, recent = %d", data.CriticalItems, len(data.RecentOrders))
		}
	})

	t.Run("doctor sees own orders only", func(t *testing.T) {
		data, err := dashboards.GetDoctorDashboard(ctx, drPaz)
		if err != nil {
			t.Fatal(err)
		}
		if data.TotalOrders != 2 || len(data.RecentOrders) != 2 {
			t.Errorf("total = %d, recent = %d, want 2", data.TotalOrders, len(data.RecentOrders))
		}
	})

	t.Run("roles are kept apart", func(t *testing.T) {
		if _, err := dashboards.GetStaffDashboard(ctx, drPaz); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("doctor on staff dashboard: %v", err)
		}
		if _, err := dashboards.GetDoctorDashboard(ctx, admin); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("admin on doctor dashboard: %v", err)
		}
	})
}
