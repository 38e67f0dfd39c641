package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func lookupFrom(env map[string]string) envLookup {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URI":    "postgres://localhost/poruchai",
		"PAYMENT_API_URL": "https://gw.example/v2",
		"ADMIN_EMAIL":     "admin@example.com",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(nil, lookupFrom(baseEnv()))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.RunAddress != defaultRunAddress {
		t.Fatalf("unexpected run address %q", cfg.RunAddress)
	}
	if cfg.RedisAddr != defaultRedisAddr {
		t.Fatalf("unexpected redis address %q", cfg.RedisAddr)
	}
	if cfg.RateLimitMax != defaultRateLimitMax || cfg.RateLimitWindow != defaultRateLimitWindow {
		t.Fatalf("unexpected rate limit defaults: %d / %v", cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	if cfg.PaymentFallbackAmount != defaultFallbackAmount {
		t.Fatalf("unexpected fallback amount %d", cfg.PaymentFallbackAmount)
	}
	if cfg.PaymentTimeout != defaultPaymentTimeout {
		t.Fatalf("unexpected payment timeout %v", cfg.PaymentTimeout)
	}
	if cfg.NotifierWorkers != defaultNotifierWorkers {
		t.Fatalf("unexpected notifier workers %d", cfg.NotifierWorkers)
	}
	if cfg.ShutdownTimeout != defaultShutdownTimeout {
		t.Fatalf("unexpected shutdown timeout %v", cfg.ShutdownTimeout)
	}
}

func TestLoadFromEnv(t *testing.T) {
	env := baseEnv()
	env["RUN_ADDRESS"] = ":9090"
	env["REDIS_ADDR"] = "cache:6379"
	env["BASE_URL"] = "https://poruchai.example"
	env["RATE_LIMIT_MAX"] = "3"
	env["RATE_LIMIT_WINDOW"] = "5m"
	env["PAYMENT_FALLBACK_AMOUNT"] = "50000"
	env["NOTIFIER_WORKERS"] = "4"

	cfg, err := load(nil, lookupFrom(env))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.RunAddress != ":9090" || cfg.RedisAddr != "cache:6379" || cfg.BaseURL != "https://poruchai.example" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.RateLimitMax != 3 || cfg.RateLimitWindow != 5*time.Minute {
		t.Fatalf("rate limit env not applied: %d / %v", cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	if cfg.PaymentFallbackAmount != 50000 {
		t.Fatalf("fallback amount env not applied: %d", cfg.PaymentFallbackAmount)
	}
	if cfg.NotifierWorkers != 4 {
		t.Fatalf("notifier workers env not applied: %d", cfg.NotifierWorkers)
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	env := baseEnv()
	env["RUN_ADDRESS"] = ":9090"
	env["RATE_LIMIT_WINDOW"] = "5m"

	args := []string{
		"-a", ":7070",
		"-admin-email", "root@example.com",
		"-rate-max", "9",
		"-rate-window", "30s",
		"-shutdown-timeout", "3s",
	}
	cfg, err := load(args, lookupFrom(env))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.RunAddress != ":7070" {
		t.Fatalf("flag must override env, got %q", cfg.RunAddress)
	}
	if cfg.AdminEmail != "root@example.com" {
		t.Fatalf("admin email flag not applied: %q", cfg.AdminEmail)
	}
	if cfg.RateLimitMax != 9 || cfg.RateLimitWindow != 30*time.Second {
		t.Fatalf("rate limit flags not applied: %d / %v", cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("shutdown timeout flag not applied: %v", cfg.ShutdownTimeout)
	}
}

func TestLoadRequiredValues(t *testing.T) {
	cases := []struct {
		name string
		drop string
	}{
		{"database uri", "DATABASE_URI"},
		{"payment url", "PAYMENT_API_URL"},
		{"admin email", "ADMIN_EMAIL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := baseEnv()
			delete(env, tc.drop)
			if _, err := load(nil, lookupFrom(env)); err == nil {
				t.Fatalf("expected error without %s", tc.drop)
			}
		})
	}
}

func TestLoadTokenSecretFile(t *testing.T) {
	secretFile := filepath.Join(t.TempDir(), "secret")
	if err := os.WriteFile(secretFile, []byte("file-secret"), 0o600); err != nil {
		t.Fatalf("write secret file: %v", err)
	}

	env := baseEnv()
	env["TOKEN_SECRET"] = "env-secret"
	env["TOKEN_SECRET_FILE"] = secretFile

	cfg, err := load(nil, lookupFrom(env))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.TokenSecret != "file-secret" {
		t.Fatalf("secret file must win, got %q", cfg.TokenSecret)
	}

	env["TOKEN_SECRET_FILE"] = filepath.Join(t.TempDir(), "missing")
	if _, err := load(nil, lookupFrom(env)); err == nil {
		t.Fatal("expected error for unreadable secret file")
	}
}

func TestLoadSanitizesNonPositiveValues(t *testing.T) {
	env := baseEnv()
	env["RATE_LIMIT_MAX"] = "-1"
	env["NOTIFIER_WORKERS"] = "0"
	env["PAYMENT_FALLBACK_AMOUNT"] = "-500"
	env["RATE_LIMIT_WINDOW"] = "0s"

	cfg, err := load(nil, lookupFrom(env))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.RateLimitMax != defaultRateLimitMax {
		t.Fatalf("non-positive rate max must fall back, got %d", cfg.RateLimitMax)
	}
	if cfg.NotifierWorkers != defaultNotifierWorkers {
		t.Fatalf("non-positive workers must fall back, got %d", cfg.NotifierWorkers)
	}
	if cfg.PaymentFallbackAmount != defaultFallbackAmount {
		t.Fatalf("non-positive amount must fall back, got %d", cfg.PaymentFallbackAmount)
	}
	if cfg.RateLimitWindow != defaultRateLimitWindow {
		t.Fatalf("zero window must fall back, got %v", cfg.RateLimitWindow)
	}
}

func TestLoadRejectsBadDurations(t *testing.T) {
	if _, err := load([]string{"-rate-window", "soon"}, lookupFrom(baseEnv())); err == nil {
		t.Fatal("expected error for malformed rate window")
	}
	if _, err := load([]string{"-shutdown-timeout", "whenever"}, lookupFrom(baseEnv())); err == nil {
		t.Fatal("expected error for malformed shutdown timeout")
	}
}
