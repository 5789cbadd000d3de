package config

import (
	"errors"
	"log"
	"time"

	"dentlab-backoffice/internal/adapters/persistence/models"
	"dentlab-backoffice/internal/core/domain"
	"dentlab-backoffice/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders. Each seeder is idempotent.
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}
	if err := s.seedServices(); err != nil {
		return err
	}
	if err := s.seedDoctors(); err != nil {
		log.Printf("⚠️ Doctor seeder skipped: %v", err)
	}
	if err := s.seedInventory(); err != nil {
		log.Printf("⚠️ Inventory seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser creates the first Owner-Administrator when none exists.
// The credential must be rotated after first login.
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	hashed, err := password.Hash(getEnv("SEED_ADMIN_PASSWORD", "admin123456"))
	if err != nil {
		return err
	}

	admin := &models.User{
		Handle:   "admin",
		Name:     "Lab Administrator",
		Email:    "admin@dentlab.local",
		Password: hashed,
		Role:     domain.RoleAdmin,
		IsActive: true,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Handle)
	return nil
}

// DefaultServices is the lab's standard work-type catalog
func DefaultServices() []models.Service {
	return []models.Service{
		{Name: "Corona Metal-Cerámica", Category: "Prótesis Fija", BasePrice: 180000, Description: "Corona con base metálica y recubrimiento cerámico", TurnaroundDays: 5},
		{Name: "Corona Zirconio", Category: "Prótesis Fija", BasePrice: 220000, Description: "Corona de zirconio monolítico o estratificado", TurnaroundDays: 4},
		{Name: "Puente 3 Unidades", Category: "Prótesis Fija", BasePrice: 480000, Description: "Puente fijo de 3 unidades", TurnaroundDays: 7},
		{Name: "Prótesis Parcial", Category: "Prótesis Removible", BasePrice: 320000, Description: "Prótesis parcial removible", TurnaroundDays: 6},
		{Name: "Prótesis Total", Category: "Prótesis Removible", BasePrice: 450000, Description: "Prótesis total superior o inferior", TurnaroundDays: 8},
		{Name: "Implante + Corona", Category: "Implantología", BasePrice: 650000, Description: "Corona sobre implante", TurnaroundDays: 10},
		{Name: "Carillas de Porcelana", Category: "Estética", BasePrice: 280000, Description: "Carillas estéticas de porcelana", TurnaroundDays: 4},
		{Name: "Incrustación", Category: "Restaurativa", BasePrice: 150000, Description: "Incrustación de porcelana o resina", TurnaroundDays: 3},
		{Name: "Blanqueamiento", Category: "Estética", BasePrice: 120000, Description: "Férulas para blanqueamiento", TurnaroundDays: 2},
		{Name: "Ortodoncia (mensual)", Category: "Ortodoncia", BasePrice: 180000, Description: "Aparatos ortodónticos", TurnaroundDays: 15},
	}
}

func (s *Seeder) seedServices() error {
	for _, svc := range DefaultServices() {
		svc := svc
		svc.IsActive = true
		var existing models.Service
		err := s.db.Where("name = ?", svc.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := s.db.Create(&svc).Error; err != nil {
			return err
		}
		log.Printf("   Created service: %s", svc.Name)
	}
	return nil
}

func (s *Seeder) seedDoctors() error {
	var count int64
	s.db.Model(&models.Doctor{}).Count(&count)
	if count > 0 {
		return nil
	}

	doctors := []struct {
		handle, name, clinic, specialty, phone, email string
		category                                      domain.Category
	}{
		{"dr.juan", "Dr. Juan Guillermo", "Clínica Dental Sonrisa", "Odontología General", "310-123-4567", "dr.juan@email.com", domain.CategoryVIP},
		{"dr.edwin", "Dr. Edwin Garzón", "Centro Odontológico Garzón", "Ortodoncia", "311-234-5678", "dr.edwin@email.com", domain.CategoryVIP},
		{"dr.fabian", "Dr. Fabián", "Clínica Dental Fabián", "Cirugía Oral", "313-456-7890", "dr.fabian@email.com", domain.CategoryRegular},
		{"dra.luzmary", "Dra. Luz Mary", "Centro Dental Luz Mary", "Estética Dental", "314-567-8901", "dra.luzmary@email.com", domain.CategoryPremium},
	}

	hashed, err := password.Hash(getEnv("SEED_DOCTOR_PASSWORD", "doctor123456"))
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, d := range doctors {
			rate, err := domain.DiscountFor(d.category)
			if err != nil {
				return err
			}
			user := &models.User{
				Handle: d.handle, Name: d.name, Email: d.email, Phone: d.phone,
				Password: hashed, Role: domain.RoleDoctor, IsActive: true,
			}
			if err := tx.Create(user).Error; err != nil {
				return err
			}
			doctor := &models.Doctor{
				UserID: &user.ID, Name: d.name, Clinic: d.clinic, Specialty: d.specialty,
				Phone: d.phone, Email: d.email, Category: d.category, DiscountRate: rate, IsActive: true,
			}
			if err := tx.Create(doctor).Error; err != nil {
				return err
			}
			log.Printf("   Created doctor: %s (%s)", d.name, d.category)
		}
		return nil
	})
}

func (s *Seeder) seedInventory() error {
	var count int64
	s.db.Model(&models.InventoryItem{}).Count(&count)
	if count > 0 {
		return nil
	}

	expiry := func(year int, month time.Month, day int) *time.Time {
		t := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
		return &t
	}

	items := []models.InventoryItem{
		{Name: "Porcelana Feldespática", Category: "Materiales Cerámicos", Quantity: 50, UnitPrice: 25000, MinQuantity: 10, Supplier: "Vita Zahnfabrik", Expiry: expiry(2026, 12, 31)},
		{Name: "Aleación Ni-Cr", Category: "Metales", Quantity: 30, UnitPrice: 45000, MinQuantity: 5, Supplier: "Bego", Expiry: expiry(2027, 6, 30)},
		{Name: "Zirconio Blocks", Category: "Materiales Cerámicos", Quantity: 10, UnitPrice: 85000, MinQuantity: 8, Supplier: "Ivoclar Vivadent", Expiry: expiry(2026, 10, 15)},
		{Name: "Resina Acrílica", Category: "Polímeros", Quantity: 12, UnitPrice: 15000, MinQuantity: 15, Supplier: "Kulzer", Expiry: expiry(2026, 8, 20)},
		{Name: "Cera para Modelar", Category: "Ceras", Quantity: 60, UnitPrice: 8000, MinQuantity: 20, Supplier: "Renfert", Expiry: expiry(2027, 3, 10)},
		{Name: "Yeso Tipo IV", Category: "Yesos", Quantity: 35, UnitPrice: 12000, MinQuantity: 12, Supplier: "Whip Mix", Expiry: expiry(2026, 11, 25)},
	}
	return s.db.Create(&items).Error
}
