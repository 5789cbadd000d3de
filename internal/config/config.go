package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	AppMode    string
	Port       string
	Database   DatabaseConfig
	JWT        JWTConfig
	Cookie     CookieConfig
	LabProfile string
	Lab        LabConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// CookieConfig holds auth cookie attributes
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// LabConfig is the lab profile read from config/lab.toml
type LabConfig struct {
	Lab       LabInfo         `mapstructure:"lab"`
	Slip      SlipConfig      `mapstructure:"slip"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
	Assistant AssistantConfig `mapstructure:"assistant"`
}

// LabInfo is printed on order slips and quoted by the assistant
type LabInfo struct {
	Name      string `mapstructure:"name"`
	LegalName string `mapstructure:"legal_name"`
	Phone     string `mapstructure:"phone"`
	Email     string `mapstructure:"email"`
	Address   string `mapstructure:"address"`
}

// SlipConfig controls order slip export
type SlipConfig struct {
	NotesBudget int `mapstructure:"notes_budget"`
}

// AlertsConfig controls the scheduled stock scan
type AlertsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// AssistantConfig toggles the rule-based assistant
type AssistantConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:    appMode,
		Port:       getEnv("PORT", "3000"),
		Database:   loadDatabaseConfig(appMode),
		JWT:        loadJWTConfig(appMode),
		Cookie:     loadCookieConfig(appMode),
		LabProfile: getEnv("LAB_PROFILE", "config/lab.toml"),
	}

	lab, err := LoadLab(config.LabProfile)
	if err != nil {
		log.Printf("⚠️ Lab profile not loaded (%v), using defaults", err)
	}
	config.Lab = lab

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s, LAB: %s]", appMode, lab.Lab.Name)
	return config, nil
}

// DefaultLab returns the lab profile used when no profile file is present
func DefaultLab() LabConfig {
	return LabConfig{
		Lab:       LabInfo{Name: "Dental Lab"},
		Slip:      SlipConfig{NotesBudget: 280},
		Alerts:    AlertsConfig{Enabled: true, Schedule: "30 8 * * *"},
		Assistant: AssistantConfig{Enabled: true},
	}
}

// LoadLab reads a TOML lab profile. Keys missing from the file keep
// their defaults; a missing file returns the defaults and an error.
func LoadLab(path string) (LabConfig, error) {
	def := DefaultLab()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetDefault("lab.name", def.Lab.Name)
	v.SetDefault("slip.notes_budget", def.Slip.NotesBudget)
	v.SetDefault("alerts.enabled", def.Alerts.Enabled)
	v.SetDefault("alerts.schedule", def.Alerts.Schedule)
	v.SetDefault("assistant.enabled", def.Assistant.Enabled)

	if err := v.ReadInConfig(); err != nil {
		return def, fmt.Errorf("read lab profile %s: %w", path, err)
	}

	var lab LabConfig
	if err := v.Unmarshal(&lab); err != nil {
		return def, fmt.Errorf("decode lab profile %s: %w", path, err)
	}
	if lab.Slip.NotesBudget <= 0 {
		lab.Slip.NotesBudget = def.Slip.NotesBudget
	}
	return lab, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "dentlab"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := modePrefix(mode)

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "15"))
	refreshDays, _ := strconv.Atoi(getEnv("REFRESH_TOKEN_DAYS", "7"))

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", "default_secret"),
		RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", "default_refresh_secret"),
		AccessTokenMins:  accessMins,
		RefreshTokenDays: refreshDays,
	}
}

// loadCookieConfig loads cookie attributes; production cookies are always secure
func loadCookieConfig(mode string) CookieConfig {
	return CookieConfig{
		Secure:   mode == "prod" || getEnv("COOKIE_SECURE", "false") == "true",
		SameSite: getEnv("COOKIE_SAMESITE", "Lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://backoffice.dentlab.local"
	}
	return origins
}
