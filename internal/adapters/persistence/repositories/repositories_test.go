package repositories

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"dentlab-backoffice/internal/adapters/persistence/models"
	"dentlab-backoffice/internal/core/domain"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "dentlab.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedDoctor(t *testing.T, db *gorm.DB, name string) *models.Doctor {
	t.Helper()
	doctor := &models.Doctor{Name: name, Category: domain.CategoryRegular, DiscountRate: decimal.Zero, IsActive: true}
	if err := NewDoctorRepository(db).Create(context.Background(), doctor); err != nil {
		t.Fatal(err)
	}
	return doctor
}

func newOrder(doctorID uint, token string) (*models.Order, *models.OrderEvent) {
	order := &models.Order{
		DoctorID:      doctorID,
		Patient:       "Paciente",
		ServiceName:   "Corona Zirconio",
		Status:        domain.StatusCreated,
		CreatedBy:     1,
		BasePrice:     220000,
		DiscountRate:  decimal.Zero,
		Price:         220000,
		TrackingToken: token,
	}
	event := &models.OrderEvent{ToStatus: domain.StatusCreated, ActorID: 1, ActorRole: domain.RoleFrontDesk, CreatedAt: time.Now()}
	return order, event
}

func TestOrderRepository(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	paz := seedDoctor(t, db, "Dr. Paz")
	ortiz := seedDoctor(t, db, "Dr. Ortiz")

	var created []*models.Order
	for i, doctorID := range []uint{paz.ID, paz.ID, ortiz.ID} {
		order, event := newOrder(doctorID, []string{"tok-a", "tok-b", "tok-c"}[i])
		if err := repo.Create(ctx, order, event); err != nil {
			t.Fatalf("create order %d: %v", i, err)
		}
		created = append(created, order)
	}

	t.Run("numbers come from the store sequence", func(t *testing.T) {
		for i, want := range []string{"ORD-00001", "ORD-00002", "ORD-00003"} {
			if created[i].OrderNumber != want {
				t.Errorf("order %d number = %s, want %s", i, created[i].OrderNumber, want)
			}
		}
	})

	t.Run("status write is compare and set", func(t *testing.T) {
		order := *created[0]
		order.Status = domain.StatusInProduction
		order.Technician = "Carlos López"
		event := &models.OrderEvent{FromStatus: domain.StatusCreated, ToStatus: domain.StatusInProduction, ActorID: 3, ActorRole: domain.RoleTechnician, CreatedAt: time.Now()}
		if err := repo.ApplyTransition(ctx, &order, domain.StatusCreated, event); err != nil {
			t.Fatalf("first transition: %v", err)
		}

		stale := *created[0]
		stale.Status = domain.StatusPacked
		event = &models.OrderEvent{FromStatus: domain.StatusCreated, ToStatus: domain.StatusPacked, ActorID: 2, ActorRole: domain.RoleFrontDesk, CreatedAt: time.Now()}
		if err := repo.ApplyTransition(ctx, &stale, domain.StatusCreated, event); !errors.Is(err, ErrStaleStatus) {
			t.Fatalf("stale transition: expected ErrStaleStatus, got %v", err)
		}

		stored, err := repo.GetByID(ctx, order.ID)
		if err != nil {
			t.Fatal(err)
		}
		if stored.Status != domain.StatusInProduction || stored.Technician != "Carlos López" {
			t.Errorf("stored order = %s/%s", stored.Status, stored.Technician)
		}
		history, err := repo.History(ctx, order.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(history) != 2 || history[1].ToStatus != domain.StatusInProduction {
			t.Errorf("history = %d events", len(history))
		}
	})

	t.Run("list filters and preloads the doctor", func(t *testing.T) {
		orders, total, err := repo.List(ctx, OrderFilter{DoctorID: &paz.ID}, 0, 10)
		if err != nil {
			t.Fatal(err)
		}
		if total != 2 || len(orders) != 2 {
			t.Fatalf("total = %d, len = %d, want 2", total, len(orders))
		}
		if orders[0].ID < orders[1].ID {
			t.Error("expected newest first")
		}
		if orders[0].Doctor == nil || orders[0].Doctor.Name != "Dr. Paz" {
			t.Errorf("doctor not preloaded: %+v", orders[0].Doctor)
		}

		_, total, err = repo.List(ctx, OrderFilter{Status: domain.StatusCreated}, 0, 1)
		if err != nil {
			t.Fatal(err)
		}
		if total != 2 {
			t.Errorf("created orders = %d, want 2", total)
		}
	})

	t.Run("tracking token lookup", func(t *testing.T) {
		order, err := repo.GetByTrackingToken(ctx, "tok-c")
		if err != nil {
			t.Fatal(err)
		}
		if order.OrderNumber != "ORD-00003" {
			t.Errorf("tok-c resolved to %s", order.OrderNumber)
		}
		if _, err := repo.GetByTrackingToken(ctx, "missing"); !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound, got %v", err)
		}
	})
}

func TestDoctorRepositoryUpdates(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewDoctorRepository(db)
	doctor := seedDoctor(t, db, "Dra. Seneida")

	if err := repo.UpdateCategory(ctx, doctor.ID, domain.CategoryVIP, decimal.NewFromInt(15)); err != nil {
		t.Fatal(err)
	}
	stored, err := repo.GetByID(ctx, doctor.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Category != domain.CategoryVIP || !stored.DiscountRate.Equal(decimal.NewFromInt(15)) {
		t.Errorf("stored = %s %s, want VIP 15", stored.Category, stored.DiscountRate)
	}

	doctors, total, err := repo.List(ctx, DoctorFilter{Category: domain.CategoryVIP}, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || doctors[0].ID != doctor.ID {
		t.Errorf("VIP listing = %d", total)
	}

	missing := doctor.ID + 100
	testCases := []struct {
		name string
		run  func() error
	}{
		{"category", func() error { return repo.UpdateCategory(ctx, missing, domain.CategoryPremium, decimal.NewFromInt(20)) }},
		{"discount", func() error { return repo.UpdateDiscount(ctx, missing, decimal.NewFromInt(5)) }},
		{"active", func() error { return repo.SetActive(ctx, missing, false) }},
		{"inventory quantity", func() error { return NewInventoryRepository(db).UpdateQuantity(ctx, missing, 3) }},
	}
	for _, tc := range testCases {
		t.Run("missing row "+tc.name, func(t *testing.T) {
			if err := tc.run(); !errors.Is(err, gorm.ErrRecordNotFound) {
				t.Errorf("expected ErrRecordNotFound, got %v", err)
			}
		})
	}
}

func TestUserAndTokenRepositories(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserRepository(db)
	tokens := NewRefreshTokenRepository(db)

	user := &models.User{Handle: "dr.rios", Password: "hash", Role: domain.RoleDoctor, Name: "Dr. Ríos", IsActive: true}
	doctor := &models.Doctor{Name: "Dr. Ríos", Category: domain.CategoryRegular, DiscountRate: decimal.Zero}
	if err := users.CreateWithDoctor(ctx, user, doctor); err != nil {
		t.Fatal(err)
	}
	profile, err := NewDoctorRepository(db).GetByUserID(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if profile.ID != doctor.ID {
		t.Errorf("profile %d, want %d", profile.ID, doctor.ID)
	}

	for _, hash := range []string{"h1", "h2"} {
		if err := tokens.Create(ctx, &models.RefreshToken{UserID: user.ID, TokenHash: hash, ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := tokens.RevokeAllByUserID(ctx, user.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := tokens.GetByTokenHash(ctx, "h1"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("revoked token still found: %v", err)
	}
}

func TestInventoryExpiry(t *testing.T) {
	ctx := context.Background()
	repo := NewInventoryRepository(openTestDB(t))
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	past, future := now.AddDate(0, -1, 0), now.AddDate(0, 6, 0)

	for _, item := range []*models.InventoryItem{
		{Name: "Yeso Tipo IV", Quantity: 10, MinQuantity: 5, Expiry: &past},
		{Name: "Disco Zirconio", Quantity: 4, MinQuantity: 2, Expiry: &future},
		{Name: "Fresas", Quantity: 30, MinQuantity: 10},
	} {
		if err := repo.Create(ctx, item); err != nil {
			t.Fatal(err)
		}
	}

	expired, err := repo.ListExpiredBefore(ctx, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(expired) != 1 || expired[0].Name != "Yeso Tipo IV" {
		t.Errorf("expired = %d items", len(expired))
	}
}

func TestAssistantLogRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAssistantLogRepository(openTestDB(t))

	for _, e := range []*models.AssistantExchange{
		{DoctorID: 1, UserID: 10, Question: "precio", Rule: "price", Answer: "…"},
		{DoctorID: 2, UserID: 11, Question: "hola", Rule: "greeting", Answer: "…"},
		{DoctorID: 1, UserID: 10, Question: "contacto", Rule: "contact", Answer: "…"},
	} {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	exchanges, total, err := repo.ListByDoctor(ctx, 1, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || exchanges[0].Rule != "contact" {
		t.Errorf("total = %d, newest = %+v", total, exchanges[0])
	}
}
