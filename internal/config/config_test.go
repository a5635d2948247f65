package config

import (
	"testing"
	"time"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("PORT", "9090")
	t.Setenv("LOGIN_RATE_LIMIT", "3")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if c.Port != "9090" {
		t.Errorf("Port = %q; want 9090", c.Port)
	}
	if c.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q; want sqlite", c.Database.Driver)
	}
	if c.JWT.TTL != 2*time.Hour {
		t.Errorf("JWT.TTL = %v; want 2h", c.JWT.TTL)
	}
	if c.RateLimit.LoginAttempts != 3 {
		t.Errorf("LoginAttempts = %d; want 3", c.RateLimit.LoginAttempts)
	}
	if c.RateLimit.LoginWindow != 15*time.Minute {
		t.Errorf("LoginWindow = %v; want default 15m", c.RateLimit.LoginWindow)
	}
	if !c.GoogleEnabled() {
		t.Error("GoogleEnabled = false with both credentials set")
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/taskhive")

	if _, err := Load(); err == nil {
		t.Fatal("Load succeeded without JWT_SECRET")
	}
}
