package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"dentlab-backoffice/internal/core/domain"
	"dentlab-backoffice/internal/pkg/pagination"

	"github.com/shopspring/decimal"
)

func TestOrderLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	drPrincipal, doctor := env.addDoctor(t, "dr.vip", domain.CategoryVIP)

	if !doctor.DiscountRate.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("VIP discount = %s, want 15", doctor.DiscountRate)
	}

	order, err := env.order.Create(ctx, frontDesk, &CreateOrderInput{
		DoctorID: doctor.ID, Patient: "María González", ServiceName: "Corona Zirconio", Spec: "Diente 11, color A2",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if order.Price != 187000 {
		t.Fatalf("price = %d, want 187000", order.Price)
	}
	if order.Status != domain.StatusCreated {
		t.Fatalf("status = %s, want CREATED", order.Status)
	}

	order, err = env.order.Transition(ctx, technician, order.ID, &TransitionInput{Target: domain.StatusInProduction})
	if err != nil {
		t.Fatalf("technician to IN_PRODUCTION: %v", err)
	}

	_, err = env.order.Transition(ctx, drPrincipal, order.ID, &TransitionInput{Target: domain.StatusDelivered})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("doctor deliver: expected ErrForbidden, got %v", err)
	}

	order, err = env.order.Transition(ctx, admin, order.ID, &TransitionInput{Target: domain.StatusDelivered})
	if err != nil {
		t.Fatalf("admin deliver: %v", err)
	}
	if order.ActualDelivery == nil {
		t.Fatal("expected actual delivery to be stamped")
	}

	_, err = env.order.Transition(ctx, admin, order.ID, &TransitionInput{Target: domain.StatusDelivered})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("re-delivery: expected ErrInvalidTransition, got %v", err)
	}
}

func TestOrderPriceIsSnapshot(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, doctor := env.addDoctor(t, "dr.snap", domain.CategoryVIP)

	order, err := env.order.Create(ctx, frontDesk, &CreateOrderInput{
		DoctorID: doctor.ID, Patient: "Pedro", ServiceName: "Corona Metal-Cerámica",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if order.Price != 153000 {
		t.Fatalf("price = %d, want 153000", order.Price)
	}

	if _, err := env.doctor.SetCategory(ctx, admin, doctor.ID, "PREMIUM"); err != nil {
		t.Fatal(err)
	}
	svc, _ := env.services.Lookup(ctx, "Corona Metal-Cerámica")
	if _, err := env.services.UpdatePrice(ctx, admin, svc.ID, 200000); err != nil {
		t.Fatal(err)
	}

	reloaded, err := env.order.Get(ctx, admin, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Price != 153000 || reloaded.BasePrice != 180000 {
		t.Errorf("snapshot changed: price %d base %d", reloaded.Price, reloaded.BasePrice)
	}

	next, err := env.order.Create(ctx, frontDesk, &CreateOrderInput{
		DoctorID: doctor.ID, Patient: "Pedro", ServiceName: "Corona Metal-Cerámica",
	})
	if err != nil {
		t.Fatal(err)
	}
	if next.Price != 160000 {
		t.Errorf("new order price = %d, want 160000", next.Price)
	}
}

func TestOrderCreatePermissions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	drA, doctorA := env.addDoctor(t, "dr.a", domain.CategoryRegular)
	_, doctorB := env.addDoctor(t, "dr.b", domain.CategoryRegular)

	testCases := []struct {
		name     string
		p        *domain.Principal
		doctorID uint
		wantErr  error
	}{
		{"doctor for self", drA, doctorA.ID, nil},
		{"doctor defaults to self", drA, 0, nil},
		{"doctor for another doctor", drA, doctorB.ID, domain.ErrForbidden},
		{"courier", courier, doctorA.ID, domain.ErrForbidden},
		{"technician", technician, doctorB.ID, nil},
		{"unknown doctor", frontDesk, 999, domain.ErrUnknownDoctor},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.order.Create(ctx, tc.p, &CreateOrderInput{
				DoctorID: tc.doctorID, Patient: "Paciente", ServiceName: "Incrustación",
			})
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestOrderCreateUnknownService(t *testing.T) {
	env := newTestEnv(t)
	_, doctor := env.addDoctor(t, "dr.x", domain.CategoryRegular)

	_, err := env.order.Create(context.Background(), frontDesk, &CreateOrderInput{
		DoctorID: doctor.ID, Patient: "Ana", ServiceName: "Corona de Oro",
	})
	if !errors.Is(err, domain.ErrUnknownService) || !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrUnknownService, got %v", err)
	}
}

func TestOrderNumbersAreSequential(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, doctor := env.addDoctor(t, "dr.seq", domain.CategoryRegular)

	for i, want := range []string{"ORD-00001", "ORD-00002", "ORD-00003"} {
		order, err := env.order.Create(ctx, frontDesk, &CreateOrderInput{
			DoctorID: doctor.ID, Patient: "Paciente", ServiceName: "Blanqueamiento",
		})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if order.OrderNumber != want {
			t.Errorf("order %d number = %s, want %s", i, order.OrderNumber, want)
		}
		if order.TrackingToken == "" {
			t.Error("expected a tracking token")
		}
	}
}

func TestOrderEstimatedDelivery(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, doctor := env.addDoctor(t, "dr.est", domain.CategoryRegular)
	created := time.Date(2025, 7, 15, 9, 0, 0, 0, time.UTC)
	env.order.now = fixedClock(created)

	order, err := env.order.Create(ctx, frontDesk, &CreateOrderInput{
		DoctorID: doctor.ID, Patient: "Laura", ServiceName: "Implante + Corona",
	})
	if err != nil {
		t.Fatal(err)
	}
	if want := created.AddDate(0, 0, 10); !order.EstDelivery.Equal(want) {
		t.Errorf("est delivery = %s, want %s", order.EstDelivery, want)
	}
}

func TestCourierFlow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, doctor := env.addDoctor(t, "dr.c", domain.CategoryRegular)

	order, err := env.order.Create(ctx, frontDesk, &CreateOrderInput{DoctorID: doctor.ID, Patient: "P", ServiceName: "Incrustación"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := env.order.Transition(ctx, courier, order.ID, &TransitionInput{Target: domain.StatusInTransit}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("courier pickup before packing: expected ErrForbidden, got %v", err)
	}

	if _, err := env.order.Transition(ctx, technician, order.ID, &TransitionInput{Target: domain.StatusPacked}); err != nil {
		t.Fatalf("technician pack: %v", err)
	}
	if _, err := env.order.Transition(ctx, courier, order.ID, &TransitionInput{Target: domain.StatusInTransit}); err != nil {
		t.Fatalf("courier pickup: %v", err)
	}
	if _, err := env.order.Transition(ctx, courier, order.ID, &TransitionInput{Target: domain.StatusPacked}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("courier revert: expected ErrForbidden, got %v", err)
	}
	delivered, err := env.order.Transition(ctx, courier, order.ID, &TransitionInput{Target: domain.StatusDelivered})
	if err != nil {
		t.Fatalf("courier deliver: %v", err)
	}
	if delivered.ActualDelivery == nil {
		t.Error("expected actual delivery to be stamped")
	}
}

func TestTransitionUnknownOrder(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.order.Transition(context.Background(), admin, 42, &TransitionInput{Target: domain.StatusPacked})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTransitionDetectsConcurrentChange(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, doctor := env.addDoctor(t, "dr.race", domain.CategoryRegular)
	order, err := env.order.Create(ctx, frontDesk, &CreateOrderInput{DoctorID: doctor.ID, Patient: "P", ServiceName: "Incrustación"})
	if err != nil {
		t.Fatal(err)
	}

	// Another writer moves the order after it was read but before the write
	stale, err := env.order.Get(ctx, admin, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	env.orders.SetStatus(order.ID, domain.StatusInProduction)

	_, err = env.order.apply(ctx, technician, stale, &TransitionInput{Target: domain.StatusLoggedIn})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestTransitionAppliesTechnicianAndHistory(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	drPrincipal, doctor := env.addDoctor(t, "dr.h", domain.CategoryRegular)
	order, err := env.order.Create(ctx, drPrincipal, &CreateOrderInput{DoctorID: doctor.ID, Patient: "P", ServiceName: "Prótesis Total"})
	if err != nil {
		t.Fatal(err)
	}

	tech := "Carlos López"
	order, err = env.order.Transition(ctx, frontDesk, order.ID, &TransitionInput{
		Target: domain.StatusLoggedIn, Technician: &tech, Note: "urgente",
	})
	if err != nil {
		t.Fatal(err)
	}
	if order.Technician != tech {
		t.Errorf("technician = %q", order.Technician)
	}
	if _, err := env.order.Advance(ctx, technician, order.ID); err != nil {
		t.Fatalf("advance: %v", err)
	}

	events, err := env.order.History(ctx, drPrincipal, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := []domain.OrderStatus{domain.StatusCreated, domain.StatusLoggedIn, domain.StatusInProduction}
	if len(events) != len(want) {
		t.Fatalf("history has %d events, want %d", len(events), len(want))
	}
	for i, e := range events {
		if e.ToStatus != want[i] {
			t.Errorf("event %d to %s, want %s", i, e.ToStatus, want[i])
		}
		if i > 0 && e.FromStatus != events[i-1].ToStatus {
			t.Errorf("event %d from %s does not chain from %s", i, e.FromStatus, events[i-1].ToStatus)
		}
	}
	if events[1].Note != "urgente" || events[1].ActorRole != domain.RoleFrontDesk {
		t.Errorf("unexpected event: %+v", events[1])
	}

	reloaded, _ := env.order.Get(ctx, admin, order.ID)
	if last := events[len(events)-1]; last.ToStatus != reloaded.Status {
		t.Errorf("history ends at %s but order is %s", last.ToStatus, reloaded.Status)
	}
}

func TestAdvanceDeliveredOrder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	drPrincipal, doctor := env.addDoctor(t, "dr.adv", domain.CategoryRegular)
	order, err := env.order.Create(ctx, frontDesk, &CreateOrderInput{DoctorID: doctor.ID, Patient: "P", ServiceName: "Incrustación"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.order.Transition(ctx, admin, order.ID, &TransitionInput{Target: domain.StatusDelivered}); err != nil {
		t.Fatal(err)
	}

	if _, err := env.order.Advance(ctx, admin, order.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("admin advance delivered: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := env.order.Advance(ctx, drPrincipal, order.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("doctor advance delivered: expected ErrForbidden, got %v", err)
	}
}

func TestDoctorSeesOnlyOwnOrders(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	drA, doctorA := env.addDoctor(t, "dr.own", domain.CategoryRegular)
	_, doctorB := env.addDoctor(t, "dr.other", domain.CategoryRegular)

	mine, err := env.order.Create(ctx, frontDesk, &CreateOrderInput{DoctorID: doctorA.ID, Patient: "Mine", ServiceName: "Incrustación"})
	if err != nil {
		t.Fatal(err)
	}
	theirs, err := env.order.Create(ctx, frontDesk, &CreateOrderInput{DoctorID: doctorB.ID, Patient: "Theirs", ServiceName: "Incrustación"})
	if err != nil {
		t.Fatal(err)
	}

	orders, total, err := env.order.List(ctx, drA, &ListOrdersInput{DoctorID: &doctorB.ID}, pagination.New(1, 20))
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || orders[0].ID != mine.ID {
		t.Errorf("doctor listing returned %d orders", total)
	}

	if _, err := env.order.Get(ctx, drA, theirs.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden reading another doctor's order, got %v", err)
	}

	all, total, err := env.order.List(ctx, frontDesk, &ListOrdersInput{}, pagination.New(1, 20))
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || all[0].ID != theirs.ID {
		t.Errorf("staff listing: total %d, newest first expected", total)
	}
}

func TestGetByTrackingToken(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, doctor := env.addDoctor(t, "dr.track", domain.CategoryRegular)
	order, err := env.order.Create(ctx, frontDesk, &CreateOrderInput{DoctorID: doctor.ID, Patient: "Privado", ServiceName: "Incrustación"})
	if err != nil {
		t.Fatal(err)
	}

	view, err := env.order.GetByTrackingToken(ctx, order.TrackingToken)
	if err != nil {
		t.Fatal(err)
	}
	if view.OrderNumber != order.OrderNumber || view.Status != domain.StatusCreated {
		t.Errorf("unexpected view: %+v", view)
	}

	for _, token := range []string{"not-a-token", "7f1d1c0e-0000-4000-8000-000000000000"} {
		if _, err := env.order.GetByTrackingToken(ctx, token); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("token %q: expected ErrNotFound, got %v", token, err)
		}
	}
}
