// Package app assembles the storefront's long-lived components from configuration.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	"watch-storefront-backend/internal/catalog"
	"watch-storefront-backend/internal/config"
	"watch-storefront-backend/internal/database"
	"watch-storefront-backend/internal/docstore"
	"watch-storefront-backend/internal/logging"
	"watch-storefront-backend/internal/mailer"
	"watch-storefront-backend/internal/notify"
	"watch-storefront-backend/internal/payments"
	"watch-storefront-backend/internal/services"
	"watch-storefront-backend/internal/supabase"
)

// App holds the shared components used by both the HTTP server and the CLI.
type App struct {
	Config *config.Config
	Logger *logrus.Logger

	DB       *sql.DB // nil when running on the in-memory store
	Store    docstore.Store
	Feed     notify.ChangeFeed
	Catalog  catalog.Source
	Mailer   mailer.Mailer
	Notifier *notify.Router
	Payments *payments.Service
	Gateway  *payments.StripeGateway // nil without PAYMENT_SECRET_KEY
	Uploads  *services.UploadService // nil without Supabase storage
}

func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}
	log := logging.Component(logger, "app")

	if cfg.DatabaseURL != "" {
		db, err := database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.DB = db
		a.Store = supabase.NewDatabaseClient(db)
		a.Feed = supabase.NewChangeFeed(cfg.DatabaseURL, logging.Component(logger, "changefeed"))
	} else {
		log.Warn("DATABASE_URL not set, using the in-memory document store")
		mem := docstore.NewMemory()
		a.Store = mem
		a.Feed = mem
	}

	a.Catalog = catalog.StoreSource{Store: a.Store}
	if cfg.Supabase.URL != "" && cfg.Supabase.PublishableKey != "" {
		client, err := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.PublishableKey)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize Supabase client: %w", err)
		}
		if cfg.CatalogSource == "postgrest" {
			a.Catalog = supabase.NewCatalogSource(client)
		}
		storage := supabase.NewStorageClient(cfg.Supabase.URL, cfg.Supabase.PublishableKey, cfg.Supabase.StorageBucket)
		a.Uploads = services.NewUploadService(storage, services.DefaultMaxPhotoBytes)
	} else {
		log.Warn("Supabase not configured, photo uploads are disabled")
	}

	if cfg.SMTP.Host != "" {
		a.Mailer = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			SSL:      cfg.SMTP.SSL,
			Timeout:  cfg.SMTP.Timeout,
		})
	} else {
		log.Warn("SMTP_HOST not set, notification emails are logged instead of sent")
		a.Mailer = mailer.NewLogMailer(logging.Component(logger, "mailer"))
	}

	adminEmail := cfg.Notify.AdminEmail
	if adminEmail == "" {
		adminEmail = cfg.SMTP.From
	}
	a.Notifier = notify.NewRouter(a.Store, a.Mailer, notify.Config{
		AdminEmail: adminEmail,
		StoreName:  cfg.Notify.StoreName,
	}, logging.Component(logger, "notify"))

	// A nil *StripeGateway must not reach the service as a non-nil interface.
	var gateway payments.IntentCreator
	if cfg.Payments.SecretKey != "" {
		a.Gateway = payments.NewStripeGateway(cfg.Payments.SecretKey)
		gateway = a.Gateway
	} else {
		log.Warn("PAYMENT_SECRET_KEY not set, payment intents are disabled")
	}
	a.Payments = payments.NewService(a.Store, gateway, cfg.Payments.Currency, logging.Component(logger, "payments"))

	return a, nil
}

// Migrate applies pending schema migrations. It is a no-op on the in-memory store.
func (a *App) Migrate(ctx context.Context) ([]string, error) {
	if a.DB == nil {
		return nil, nil
	}
	return database.NewMigrator(a.DB, logging.Component(a.Logger, "migrator")).Run(ctx)
}

func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
