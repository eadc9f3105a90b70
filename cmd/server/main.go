// @title           Watch Storefront API
// @version         1.0.0
// @description     Backend for the watch storefront: catalog browsing, customer submissions, checkout payments and the email notification pipeline.

// @contact.name   API Support
// @contact.email  support@example.com

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and an admin JWT.

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"watch-storefront-backend/internal/app"
	"watch-storefront-backend/internal/config"
	"watch-storefront-backend/internal/handlers"
	"watch-storefront-backend/internal/logging"
	"watch-storefront-backend/internal/middleware"
	"watch-storefront-backend/internal/notify"
	"watch-storefront-backend/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info", "json").WithError(err).Fatal("Failed to load configuration")
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	log := logging.Component(logger, "server")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize application")
	}
	defer a.Close()

	applied, err := a.Migrate(ctx)
	if err != nil {
		log.WithError(err).Fatal("Migration failed")
	}
	if len(applied) > 0 {
		log.WithField("migrations", applied).Info("Migrations applied")
	}

	// Notification pipeline
	consumer := notify.NewConsumer(a.Feed, a.Notifier, cfg.Notify.Workers, logging.Component(logger, "notify"))
	consumerDone := make(chan error, 1)
	go func() { consumerDone <- consumer.Run(ctx) }()

	// Background jobs
	sweeper := services.NewSweeper(a.Store, cfg.Sweeper.StaleAge, logging.Component(logger, "sweeper"))
	jobs, err := sweeper.Start(cfg.Sweeper.Schedule)
	if err != nil {
		log.WithError(err).Fatal("Failed to schedule payment sweeper")
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst, logging.Component(logger, "ratelimit"))
	if _, err := jobs.AddFunc("@every 10m", func() { limiter.Cleanup(30 * time.Minute) }); err != nil {
		log.WithError(err).Fatal("Failed to schedule rate limiter cleanup")
	}

	httpLog := logging.Component(logger, "http")
	if cfg.Admin.JWTSecret == "" {
		log.Warn("ADMIN_JWT_SECRET not set, admin endpoints reject every request")
	}
	router := handlers.NewRouter(handlers.Dependencies{
		Health:      handlers.NewHealthHandler(pinger(a)),
		Watches:     handlers.NewWatchHandler(a.Catalog, a.Store, cfg.App.DefaultPage, httpLog),
		Submissions: handlers.NewSubmissionHandler(services.NewSubmissionService(a.Store), httpLog),
		Uploads:     handlers.NewUploadHandler(a.Uploads, httpLog),
		Payments:    handlers.NewPaymentHandler(a.Payments, cfg.Payments.WebhookSecret, cfg.Payments.AllowUnsigned, httpLog),
		Admin:       handlers.NewAdminHandler(a.Store, a.Notifier, httpLog),
		DeepLinks:   handlers.NewDeepLinkHandler(a.Store, cfg.App.Scheme, cfg.App.StoreURL, cfg.App.PlayURL),
		RateLimiter: limiter,
		AdminAuth:   middleware.AdminAuth(cfg.Admin.JWTSecret, cfg.Admin.Role),
		Log:         httpLog,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server error")
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Signal received, starting graceful shutdown")
		<-consumerDone
	case err := <-consumerDone:
		log.WithError(err).Error("Notification consumer stopped")
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown error")
	}
	<-jobs.Stop().Done()
}

// pinger keeps a nil *sql.DB from becoming a non-nil handlers.Pinger.
func pinger(a *app.App) handlers.Pinger {
	if a.DB == nil {
		return nil
	}
	return a.DB
}
