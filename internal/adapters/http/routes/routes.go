package routes

import (
	"context"
	"time"

	"dentlab-backoffice/internal/adapters/http/handlers"
	"dentlab-backoffice/internal/adapters/http/middleware"
	"dentlab-backoffice/internal/adapters/persistence/repositories"
	"dentlab-backoffice/internal/config"
	"dentlab-backoffice/internal/core/domain"
	"dentlab-backoffice/internal/core/services"
	"dentlab-backoffice/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Repositories bundles the stores the services run on
type Repositories struct {
	Users         repositories.UserRepository
	RefreshTokens repositories.RefreshTokenRepository
	Doctors       repositories.DoctorRepository
	Services      repositories.ServiceRepository
	Orders        repositories.OrderRepository
	Inventory     repositories.InventoryRepository
	AssistantLog  repositories.AssistantLogRepository
}

// GormRepositories builds the MySQL-backed repositories
func GormRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:         repositories.NewUserRepository(db),
		RefreshTokens: repositories.NewRefreshTokenRepository(db),
		Doctors:       repositories.NewDoctorRepository(db),
		Services:      repositories.NewServiceRepository(db),
		Orders:        repositories.NewOrderRepository(db),
		Inventory:     repositories.NewInventoryRepository(db),
		AssistantLog:  repositories.NewAssistantLogRepository(db),
	}
}

// Services bundles the core services served over HTTP and by the scheduler
type Services struct {
	Auth        *services.AuthService
	Users       *services.UserService
	Doctors     *services.DoctorService
	Catalog     *services.CatalogService
	Pricing     *services.PricingService
	Orders      *services.OrderService
	Inventory   *services.InventoryService
	StockAlerts *services.StockAlertService
	Slips       *services.SlipService
	Assistant   *services.AssistantService
	Dashboard   *services.DashboardService
}

// NewServices wires the core services
func NewServices(repos Repositories, cfg *config.Config) *Services {
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTokenMins, cfg.JWT.RefreshTokenDays)
	pricing := services.NewPricingService(repos.Services, repos.Doctors)
	inventory := services.NewInventoryService(repos.Inventory)
	alerts := services.NewStockAlertService(inventory)

	return &Services{
		Auth:        services.NewAuthService(repos.Users, repos.RefreshTokens, repos.Doctors, tokens),
		Users:       services.NewUserService(repos.Users, repos.RefreshTokens, repos.Doctors),
		Doctors:     services.NewDoctorService(repos.Doctors),
		Catalog:     services.NewCatalogService(repos.Services),
		Pricing:     pricing,
		Orders:      services.NewOrderService(repos.Orders, pricing),
		Inventory:   inventory,
		StockAlerts: alerts,
		Slips:       services.NewSlipService(cfg.Lab),
		Assistant:   services.NewAssistantService(pricing, repos.Doctors, repos.Orders, repos.Services, repos.AssistantLog, cfg.Lab),
		Dashboard:   services.NewDashboardService(repos.Orders, alerts),
	}
}

// Setup configures all routes for the application
func Setup(app *fiber.App, svc *Services, cfg *config.Config, healthCheck func(ctx context.Context) error) {
	healthHandler := handlers.NewHealthHandler(cfg, healthCheck)
	authHandler := handlers.NewAuthHandler(svc.Auth, cfg)
	userHandler := handlers.NewUserHandler(svc.Users)
	doctorHandler := handlers.NewDoctorHandler(svc.Doctors, svc.Pricing)
	serviceHandler := handlers.NewServiceHandler(svc.Catalog)
	orderHandler := handlers.NewOrderHandler(svc.Orders, svc.Slips)
	inventoryHandler := handlers.NewInventoryHandler(svc.Inventory, svc.StockAlerts)
	assistantHandler := handlers.NewAssistantHandler(svc.Assistant)
	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	auth := middleware.AuthMiddleware(svc.Auth)

	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	setupAuthRoutes(apiV1.Group("/auth"), authHandler, auth)
	setupUserRoutes(apiV1.Group("/users", auth, middleware.AdminOnly()), userHandler)
	apiV1.Put("/profile/password", auth, userHandler.ChangePassword)
	setupDoctorRoutes(apiV1.Group("/doctors", auth), doctorHandler)
	setupServiceRoutes(apiV1.Group("/services", auth), serviceHandler)
	setupOrderRoutes(apiV1.Group("/orders", auth), orderHandler)
	setupInventoryRoutes(apiV1.Group("/inventory", auth, middleware.StaffOnly()), inventoryHandler)

	// Public tracking lookup
	apiV1.Get("/track/:token", middleware.StrictRateLimiter(), middleware.NoCacheHeaders(), orderHandler.Track)

	apiV1.Post("/assistant/ask", auth, middleware.DoctorOnly(), assistantHandler.Ask)
	apiV1.Get("/assistant/history", auth, middleware.DoctorOnly(), middleware.NoCacheHeaders(), assistantHandler.History)

	// Dashboard routes
	dashboard := apiV1.Group("/dashboard", auth, middleware.PrivateCacheHeaders(time.Minute))
	dashboard.Get("/", dashboardHandler.GetMyDashboard)
	dashboard.Get("/staff", middleware.StaffOnly(), dashboardHandler.GetStaffDashboard)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, auth fiber.Handler) {
	// Public routes
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", auth, middleware.NoCacheHeaders(), handler.Me)
	router.Post("/logout-all", auth, handler.LogoutAll)
}

// setupUserRoutes configures account administration routes (Admin only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.ListUsers)
	router.Post("/", handler.CreateUser)
	router.Get("/:id", handler.GetUser)
	router.Put("/:id/role", handler.SetUserRole)
	router.Put("/:id/active", handler.SetUserActive)
	router.Put("/:id/password", handler.ResetPassword)
}

// setupDoctorRoutes configures the doctor registry. Doctors may read their own price list.
func setupDoctorRoutes(router fiber.Router, handler *handlers.DoctorHandler) {
	router.Get("/:id/prices", middleware.PrivateCacheHeaders(5*time.Minute), handler.PriceList)

	staff := router.Group("", middleware.StaffOnly())
	staff.Get("/", handler.List)
	staff.Get("/:id", handler.Get)

	desk := router.Group("", middleware.RoleMiddleware(domain.RoleAdmin, domain.RoleFrontDesk))
	desk.Post("/", handler.Create)
	desk.Put("/:id/category", handler.SetCategory)

	admin := router.Group("", middleware.AdminOnly())
	admin.Put("/:id/discount", handler.SetDiscount)
	admin.Delete("/:id", handler.Deactivate)
}

// setupServiceRoutes configures the service catalog
func setupServiceRoutes(router fiber.Router, handler *handlers.ServiceHandler) {
	router.Get("/", middleware.CacheControl(10*time.Minute), handler.List)
	router.Get("/:id", middleware.CacheControl(10*time.Minute), handler.Get)

	admin := router.Group("", middleware.AdminOnly())
	admin.Post("/", handler.Create)
	admin.Put("/:id/price", handler.UpdatePrice)
	admin.Delete("/:id", handler.Deactivate)
}

// setupOrderRoutes configures work orders. Role rules per transition live in the order service.
func setupOrderRoutes(router fiber.Router, handler *handlers.OrderHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)
	router.Get("/:id/history", handler.History)
	router.Get("/:id/slip", middleware.NoCacheHeaders(), handler.Slip)
	router.Put("/:id/transition", handler.Transition)
	router.Post("/:id/advance", middleware.StaffOnly(), handler.Advance)
}

// setupInventoryRoutes configures lab stock (staff only)
func setupInventoryRoutes(router fiber.Router, handler *handlers.InventoryHandler) {
	router.Get("/", handler.List)
	router.Get("/shortages", handler.Shortages)
	router.Get("/expired", handler.Expired)
	router.Get("/report", handler.Report)
	router.Get("/:id", handler.Get)

	desk := router.Group("", middleware.RoleMiddleware(domain.RoleAdmin, domain.RoleFrontDesk, domain.RoleTechnician))
	desk.Post("/", handler.Create)
	desk.Put("/:id/quantity", handler.AdjustQuantity)
}
