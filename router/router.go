package router

import (
	"net/http"

	"github.com/austcse/carnival-backend/config"
	_ "github.com/austcse/carnival-backend/docs"
	"github.com/austcse/carnival-backend/handlers"
	"github.com/austcse/carnival-backend/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config         *config.Config
	SegmentHandler *handlers.SegmentHandler
	ContactHandler *handlers.ContactHandler
	HealthHandler  *handlers.HealthHandler
	// Gatherer backs /metrics. Defaults to the prometheus default registry.
	Gatherer prometheus.Gatherer
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) (*gin.Engine, error) {
	r := gin.New()

	// Client identity for rate limiting comes from c.ClientIP, which only
	// honours X-Forwarded-For from these proxies.
	if err := r.SetTrustedProxies(deps.Config.Server.TrustedProxies); err != nil {
		return nil, err
	}

	// Global Middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeadersMiddleware(&deps.Config.Server))
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))
	r.Use(middleware.ErrorHandler())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "API is running")
	})

	// Health and Metrics Routes
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Swagger documentation
	if !deps.Config.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api")
	{
		segments := api.Group("/segments")
		{
			segments.GET("", deps.SegmentHandler.ListSegments)
			segments.GET("/upcoming", deps.SegmentHandler.ListUpcoming)
			segments.GET("/:id", deps.SegmentHandler.GetSegment)
			segments.GET("/:id/related", deps.SegmentHandler.ListRelated)
		}
		api.GET("/categories", deps.SegmentHandler.ListCategories)

		api.POST("/contact", deps.ContactHandler.SubmitContact)
		api.GET("/contact/rules", deps.ContactHandler.GetRules)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Route not found"})
	})

	return r, nil
}
