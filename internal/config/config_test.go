package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadLab(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lab.toml")
	profile := `
[lab]
name = "Sonrisa Dental Lab"
phone = "+57 300 000 0000"

[slip]
notes_budget = 120

[alerts]
enabled = false
`
	if err := os.WriteFile(path, []byte(profile), 0o600); err != nil {
		t.Fatal(err)
	}

	lab, err := LoadLab(path)
	if err != nil {
		t.Fatalf("LoadLab: %v", err)
	}
	if lab.Lab.Name != "Sonrisa Dental Lab" || lab.Slip.NotesBudget != 120 {
		t.Errorf("unexpected profile: %+v", lab)
	}
	if lab.Alerts.Enabled {
		t.Error("expected alerts to be disabled by the profile")
	}
	if lab.Alerts.Schedule != DefaultLab().Alerts.Schedule {
		t.Errorf("schedule default not applied: %q", lab.Alerts.Schedule)
	}
	if !lab.Assistant.Enabled {
		t.Error("assistant default not applied")
	}
}

func TestLoadLabMissingFile(t *testing.T) {
	lab, err := LoadLab(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("expected an error for a missing profile")
	}
	if lab != DefaultLab() {
		t.Errorf("expected defaults, got %+v", lab)
	}
}

func TestModePrefix(t *testing.T) {
	t.Setenv("PROD_DB_NAME", "dentlab_prod")
	if got := loadDatabaseConfig("prod").DBName; got != "dentlab_prod" {
		t.Errorf("prod DB name = %q", got)
	}
	if got := loadDatabaseConfig("dev").DBName; got != "dentlab" {
		t.Errorf("dev DB name = %q", got)
	}
}

func TestCookieConfig(t *testing.T) {
	t.Setenv("COOKIE_SECURE", "false")
	if !loadCookieConfig("prod").Secure {
		t.Error("prod cookies must always be secure")
	}
	if loadCookieConfig("dev").Secure {
		t.Error("dev cookies follow COOKIE_SECURE")
	}
	if got := loadCookieConfig("dev").SameSite; got != "Lax" {
		t.Errorf("SameSite default = %q", got)
	}
}

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(DatabaseConfig{Host: "db", Port: "3306", User: "lab", Password: "secret", DBName: "dentlab"})
	want := "lab:secret@tcp(db:3306)/dentlab?charset=utf8mb4&parseTime=True&loc=Local"
	if dsn != want {
		t.Errorf("buildDSN = %q, want %q", dsn, want)
	}
}
