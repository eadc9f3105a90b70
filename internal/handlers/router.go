package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"watch-storefront-backend/internal/metrics"
	"watch-storefront-backend/internal/middleware"
)

type Dependencies struct {
	Health      *HealthHandler
	Watches     *WatchHandler
	Submissions *SubmissionHandler
	Uploads     *UploadHandler
	Payments    *PaymentHandler
	Admin       *AdminHandler
	DeepLinks   *DeepLinkHandler

	RateLimiter *middleware.RateLimiter
	AdminAuth   gin.HandlerFunc
	Log         *logrus.Entry
}

// NewRouter wires every route onto a fresh engine.
func NewRouter(d Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(d.Log))

	router.GET("/health", d.Health.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/watch/:id", d.DeepLinks.Open)

	api := router.Group("/api/v1")

	// Catalog
	api.GET("/watches", d.Watches.List)
	api.GET("/watches/:id", d.Watches.Get)
	api.POST("/watches/:id/like", d.Watches.Like)

	// Customer submissions share one per-IP limit
	submissions := api.Group("", d.RateLimiter.Handler())
	submissions.POST("/trade-requests", d.Submissions.CreateTradeRequest)
	submissions.POST("/sell-requests", d.Submissions.CreateSellRequest)
	submissions.POST("/requests", d.Submissions.CreateRequest)
	submissions.POST("/messages", d.Submissions.CreateMessage)
	submissions.POST("/shipping-info", d.Submissions.CreateShippingInfo)
	submissions.POST("/uploads", d.Uploads.Upload)

	// Payments
	api.POST("/payments/intent", d.Payments.CreateIntent)
	api.POST("/webhooks/payments", d.Payments.Webhook)

	// Operators
	admin := api.Group("/admin", d.AdminAuth)
	admin.GET("/notifications/failed", d.Admin.FailedNotifications)
	admin.POST("/notifications/:collection/:id/replay", d.Admin.Replay)

	return router
}
