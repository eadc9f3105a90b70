package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Server Server
	Log    Log

	// Database
	DatabaseURL   string `env:"DATABASE_URL"`
	CatalogSource string `env:"CATALOG_SOURCE" envDefault:"database"` // "database" or "postgrest"

	Supabase  Supabase  `envPrefix:"SUPABASE_"`
	SMTP      SMTP      `envPrefix:"SMTP_"`
	Payments  Payments  `envPrefix:"PAYMENT_"`
	Notify    Notify    `envPrefix:"NOTIFY_"`
	Admin     Admin     `envPrefix:"ADMIN_"`
	App       App       `envPrefix:"APP_"`
	RateLimit RateLimit `envPrefix:"RATE_LIMIT_"`
	Sweeper   Sweeper   `envPrefix:"SWEEP_"`
}

type Server struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type Supabase struct {
	URL            string `env:"URL"`
	PublishableKey string `env:"PUBLISHABLE_KEY"`
	StorageBucket  string `env:"STORAGE_BUCKET" envDefault:"submission-photos"`
}

type SMTP struct {
	Host     string        `env:"HOST"`
	Port     int           `env:"PORT" envDefault:"587"`
	Username string        `env:"USERNAME"`
	Password string        `env:"PASSWORD"`
	From     string        `env:"FROM"`
	SSL      bool          `env:"SSL" envDefault:"false"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

type Payments struct {
	SecretKey     string `env:"SECRET_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
	// AllowUnsigned must be set explicitly to accept webhook bodies when no secret is configured.
	AllowUnsigned bool   `env:"WEBHOOK_ALLOW_UNSIGNED" envDefault:"false"`
	Currency      string `env:"CURRENCY" envDefault:"usd"`
}

type Notify struct {
	AdminEmail string `env:"ADMIN_EMAIL"`
	StoreName  string `env:"STORE_NAME" envDefault:"The Watch Store"`
	Workers    int    `env:"WORKERS" envDefault:"8"`
}

type Admin struct {
	JWTSecret string `env:"JWT_SECRET"`
	Role      string `env:"ROLE" envDefault:"service_role"`
}

type App struct {
	Scheme      string `env:"SCHEME" envDefault:"watchstore"`
	StoreURL    string `env:"STORE_URL" envDefault:"https://apps.apple.com/app/id0000000000"`
	PlayURL     string `env:"PLAY_URL"`
	DefaultPage int    `env:"PAGE_SIZE" envDefault:"20"`
}

type RateLimit struct {
	PerMinute int `env:"PER_MINUTE" envDefault:"10"`
	Burst     int `env:"BURST" envDefault:"5"`
}

type Sweeper struct {
	Schedule string        `env:"SCHEDULE" envDefault:"@every 1h"`
	StaleAge time.Duration `env:"STALE_AGE" envDefault:"24h"`
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.CatalogSource != "database" && c.CatalogSource != "postgrest" {
		return fmt.Errorf("CATALOG_SOURCE must be database or postgrest, got %q", c.CatalogSource)
	}
	if c.CatalogSource == "postgrest" && (c.Supabase.URL == "" || c.Supabase.PublishableKey == "") {
		return fmt.Errorf("SUPABASE_URL and SUPABASE_PUBLISHABLE_KEY are required for the postgrest catalog source")
	}
	if c.SMTP.Host != "" && c.SMTP.From == "" {
		return fmt.Errorf("SMTP_FROM is required when SMTP_HOST is set")
	}
	if c.Notify.Workers <= 0 {
		return fmt.Errorf("NOTIFY_WORKERS must be positive")
	}
	if c.RateLimit.PerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.IsProduction() {
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required in production")
		}
		if c.SMTP.Host == "" {
			return fmt.Errorf("SMTP_HOST is required in production")
		}
		if c.Payments.SecretKey == "" {
			return fmt.Errorf("PAYMENT_SECRET_KEY is required in production")
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
