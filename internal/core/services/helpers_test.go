package services

import (
	"context"
	"testing"
	"time"

	"dentlab-backoffice/internal/adapters/persistence/models"
	"dentlab-backoffice/internal/adapters/persistence/repositories/memory"
	"dentlab-backoffice/internal/config"
	"dentlab-backoffice/internal/core/domain"
	"dentlab-backoffice/internal/pkg/jwt"
	"dentlab-backoffice/internal/pkg/password"

	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	store    *memory.Store
	users    *memory.Users
	tokens   *memory.RefreshTokens
	doctors  *memory.Doctors
	catalog  *memory.Services
	orders   *memory.Orders
	items    *memory.Inventory
	asked    *memory.AssistantLog
	lab      config.LabConfig
	auth     *AuthService
	userSvc  *UserService
	doctor   *DoctorService
	services *CatalogService
	pricing  *PricingService
	order    *OrderService
	stock    *InventoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	password.SetCost(bcrypt.MinCost)

	store := memory.NewStore()
	env := &testEnv{
		store:   store,
		users:   memory.NewUsers(store),
		tokens:  memory.NewRefreshTokens(store),
		doctors: memory.NewDoctors(store),
		catalog: memory.NewServices(store),
		orders:  memory.NewOrders(store),
		items:   memory.NewInventory(store),
		asked:   memory.NewAssistantLog(store),
		lab:     config.DefaultLab(),
	}
	env.lab.Lab = config.LabInfo{Name: "Sonrisa Dental Lab", Phone: "601 555 0142", Email: "pedidos@sonrisa.example"}

	env.auth = NewAuthService(env.users, env.tokens, env.doctors, jwt.NewManager("access", "refresh", 15, 7))
	env.userSvc = NewUserService(env.users, env.tokens, env.doctors)
	env.doctor = NewDoctorService(env.doctors)
	env.services = NewCatalogService(env.catalog)
	env.pricing = NewPricingService(env.catalog, env.doctors)
	env.order = NewOrderService(env.orders, env.pricing)
	env.stock = NewInventoryService(env.items)

	ctx := context.Background()
	for _, svc := range config.DefaultServices() {
		svc := svc
		svc.IsActive = true
		if err := env.catalog.Create(ctx, &svc); err != nil {
			t.Fatalf("seed service %s: %v", svc.Name, err)
		}
	}
	return env
}

func principal(role domain.Role, userID uint) *domain.Principal {
	return &domain.Principal{UserID: userID, Handle: string(role) + "-user", Role: role}
}

var (
	admin      = principal(domain.RoleAdmin, 1)
	frontDesk  = principal(domain.RoleFrontDesk, 2)
	technician = principal(domain.RoleTechnician, 3)
	courier    = principal(domain.RoleCourier, 4)
)

// addDoctor registers a doctor account with the given category and returns its principal
func (e *testEnv) addDoctor(t *testing.T, handle string, category domain.Category) (*domain.Principal, *models.Doctor) {
	t.Helper()
	ctx := context.Background()

	resp, err := e.auth.RegisterDoctor(ctx, &RegisterDoctorInput{
		Handle: handle, Password: "doctor-pass", Name: "Dr. " + handle, Clinic: "Clínica " + handle,
	})
	if err != nil {
		t.Fatalf("register doctor %s: %v", handle, err)
	}
	if category != domain.CategoryRegular {
		if _, err := e.doctor.SetCategory(ctx, admin, *resp.User.DoctorID, string(category)); err != nil {
			t.Fatalf("set category: %v", err)
		}
	}
	doctor, err := e.doctors.GetByID(ctx, *resp.User.DoctorID)
	if err != nil {
		t.Fatal(err)
	}
	return &domain.Principal{
		UserID: resp.User.ID, Handle: handle, Name: doctor.Name, Role: domain.RoleDoctor, DoctorID: &doctor.ID,
	}, doctor
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
