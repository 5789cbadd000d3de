package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dentlab-backoffice/internal/adapters/http/middleware"
	"dentlab-backoffice/internal/adapters/http/routes"
	"dentlab-backoffice/internal/config"
	"dentlab-backoffice/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "dentlab-backoffice/docs" // Swagger docs
)

// @title Dental Lab Back Office API
// @version 1.0
// @description Work orders, doctor pricing and stock for a dental laboratory.

// @contact.name API Support
// @contact.email soporte@dentlab.local

// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database (migrates on connect)
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed data: %v", err)
	}

	svc := routes.NewServices(routes.GormRepositories(db), cfg)

	// Background jobs
	scheduler := services.NewScheduler(2 * time.Minute)
	if cfg.Lab.Alerts.Enabled {
		if err := scheduler.Add("stock-alert", cfg.Lab.Alerts.Schedule, svc.StockAlerts.Run); err != nil {
			log.Printf("⚠️ Stock alerts disabled: %v", err)
		}
	}
	if err := scheduler.Add("session-purge", "@hourly", svc.Auth.PurgeExpiredSessions); err != nil {
		log.Fatalf("❌ Failed to schedule session purge: %v", err)
	}
	scheduler.Start()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      cfg.Lab.Lab.Name + " Back Office v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg)
	routes.Setup(app, svc, cfg, config.HealthCheck)

	// Graceful shutdown
	go gracefulShutdown(app, scheduler)

	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, scheduler *services.Scheduler) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	scheduler.Stop(ctx)

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
