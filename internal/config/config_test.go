package config_test

import (
	"strings"
	"testing"

	"github.com/pjansen/microblog/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.BcryptCost != 12 {
		t.Fatalf("expected default bcrypt cost 12, got %d", cfg.BcryptCost)
	}
	if cfg.ResetTokenTTL.Minutes() != 10 {
		t.Fatalf("expected default reset TTL 10m, got %s", cfg.ResetTokenTTL)
	}
	if !cfg.CookieSecure {
		t.Fatal("expected cookies to default to secure")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for missing JWT_SECRET")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")

	_, err := config.Load()
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected short-secret error, got %v", err)
	}
}

func TestLoad_BcryptCostBounds(t *testing.T) {
	setRequiredEnv(t)

	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{"minimum", "4", true},
		{"maximum", "14", true},
		{"too low", "3", false},
		{"too high", "15", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("BCRYPT_COST", tc.value)
			_, err := config.Load()
			if tc.ok && err != nil {
				t.Fatalf("expected cost %s to be accepted: %v", tc.value, err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected cost %s to be rejected", tc.value)
			}
		})
	}
}

func TestLoad_InvalidResetTTL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RESET_TOKEN_TTL", "-5m")

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for negative RESET_TOKEN_TTL")
	}
}
