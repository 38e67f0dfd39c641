package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	RedisAddr       string
	BaseURL         string
	TokenSecret     string
	AdminEmail      string
	ShutdownTimeout time.Duration

	PaymentAPIURL         string
	PaymentTerminalKey    string
	PaymentSecret         string
	PaymentFallbackAmount int64
	PaymentTimeout        time.Duration

	SMTPAddr string
	SMTPFrom string

	RateLimitMax    int
	RateLimitWindow time.Duration
	NotifierWorkers int
}

const (
	defaultRunAddress      = ":8080"
	defaultRedisAddr       = "localhost:6379"
	defaultBaseURL         = "http://localhost:8080"
	defaultTokenSecret     = "change-me-in-production"
	defaultShutdownTimeout = 10 * time.Second
	defaultPaymentTimeout  = 15 * time.Second
	defaultFallbackAmount  = 10000
	defaultRateLimitMax    = 5
	defaultRateLimitWindow = 10 * time.Minute
	defaultNotifierWorkers = 2
)

// Load parses configuration from .env file, environment variables and flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:            getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:           getString(lookup, "DATABASE_URI", ""),
		RedisAddr:             getString(lookup, "REDIS_ADDR", defaultRedisAddr),
		BaseURL:               getString(lookup, "BASE_URL", defaultBaseURL),
		TokenSecret:           getString(lookup, "TOKEN_SECRET", defaultTokenSecret),
		AdminEmail:            getString(lookup, "ADMIN_EMAIL", ""),
		ShutdownTimeout:       getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		PaymentAPIURL:         getString(lookup, "PAYMENT_API_URL", ""),
		PaymentTerminalKey:    getString(lookup, "PAYMENT_TERMINAL_KEY", ""),
		PaymentSecret:         getString(lookup, "PAYMENT_SECRET", ""),
		PaymentFallbackAmount: getInt64(lookup, "PAYMENT_FALLBACK_AMOUNT", defaultFallbackAmount),
		PaymentTimeout:        getDuration(lookup, "PAYMENT_TIMEOUT", defaultPaymentTimeout),
		SMTPAddr:              getString(lookup, "SMTP_ADDR", ""),
		SMTPFrom:              getString(lookup, "SMTP_FROM", ""),
		RateLimitMax:          getInt(lookup, "RATE_LIMIT_MAX", defaultRateLimitMax),
		RateLimitWindow:       getDuration(lookup, "RATE_LIMIT_WINDOW", defaultRateLimitWindow),
		NotifierWorkers:       getInt(lookup, "NOTIFIER_WORKERS", defaultNotifierWorkers),
	}

	fs := flag.NewFlagSet("poruchai", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		rateWindowStr      = cfg.RateLimitWindow.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for listing cache")
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Public base URL for confirmation links")
	fs.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.AdminEmail, "admin-email", cfg.AdminEmail, "Email granted the admin role at registration")
	fs.StringVar(&cfg.PaymentAPIURL, "payment-url", cfg.PaymentAPIURL, "Payment gateway base URL")
	fs.IntVar(&cfg.RateLimitMax, "rate-max", cfg.RateLimitMax, "Maximum order creations per window")
	fs.StringVar(&rateWindowStr, "rate-window", rateWindowStr, "Rate limit trailing window")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.NotifierWorkers, "notifier-workers", cfg.NotifierWorkers, "Number of concurrent notification senders")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.RateLimitWindow, err = time.ParseDuration(rateWindowStr); err != nil {
		return nil, fmt.Errorf("invalid rate limit window: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("TOKEN_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read token secret file: %w", err)
		}
		cfg.TokenSecret = string(content)
	}

	if cfg.RateLimitMax <= 0 {
		cfg.RateLimitMax = defaultRateLimitMax
	}

	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = defaultRateLimitWindow
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.PaymentTimeout <= 0 {
		cfg.PaymentTimeout = defaultPaymentTimeout
	}

	if cfg.PaymentFallbackAmount <= 0 {
		cfg.PaymentFallbackAmount = defaultFallbackAmount
	}

	if cfg.NotifierWorkers <= 0 {
		cfg.NotifierWorkers = defaultNotifierWorkers
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.PaymentAPIURL == "" {
		return nil, fmt.Errorf("payment gateway URL must be provided")
	}

	if cfg.AdminEmail == "" {
		return nil, fmt.Errorf("admin email must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getInt64(lookup envLookup, key string, def int64) int64 {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
