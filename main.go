package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/austcse/carnival-backend/config"
	"github.com/austcse/carnival-backend/handlers"
	"github.com/austcse/carnival-backend/logger"
	"github.com/austcse/carnival-backend/models/contact/validation"
	"github.com/austcse/carnival-backend/models/segment"
	"github.com/austcse/carnival-backend/router"
	"github.com/austcse/carnival-backend/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// @title AUST CSE Carnival API
// @version 1.0
// @description Segment catalog and contact form backend for the AUST CSE Carnival website.
// @BasePath /
func main() {
	// A .env file is optional; real deployments set the environment directly.
	// It is read first so LOG_LEVEL and ENVIRONMENT reach the logger.
	envErr := godotenv.Load()

	// Initialize logger
	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.Warnw("Failed to read .env file", "error", envErr)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	loc, err := cfg.Contact.Location()
	if err != nil {
		log.Fatalf("Failed to load time zone %q: %v", cfg.Contact.TimeZone, err)
	}

	catalog, err := segment.LoadDefault(segment.WithLocation(loc))
	if err != nil {
		log.Fatalf("Failed to load segment catalog: %v", err)
	}
	log.Infow("Segment catalog loaded",
		"segments", catalog.Len(),
		"unscheduled", catalog.Unscheduled())

	// Redis backs the rate limiter when it is reachable. Otherwise counters
	// live in process memory, which is fine for a single instance.
	var (
		limiter     services.RateLimiterInterface
		redisHealth redis.Cmdable
	)
	redisClient := connectRedis(cfg)
	if redisClient != nil {
		defer redisClient.Close()
		limiter = services.NewRateLimitService(redisClient)
		redisHealth = redisClient
	} else {
		memoryLimiter := services.NewMemoryRateLimiter()
		memoryLimiter.StartJanitor(time.Minute)
		defer memoryLimiter.Close()
		limiter = memoryLimiter
	}

	mailer, err := services.NewEmailService(&cfg.Email)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	contactService := services.NewContactService(
		validation.MustNewValidator(validation.DefaultRules),
		limiter,
		mailer,
		cfg.Contact,
		cfg.RateLimit,
		prometheus.DefaultRegisterer,
	)
	healthService := services.NewHealthService(catalog, redisHealth, mailer, cfg.Server.Version)

	r, err := router.SetupRouter(router.Dependencies{
		Config:         cfg,
		SegmentHandler: handlers.NewSegmentHandler(catalog),
		ContactHandler: handlers.NewContactHandler(contactService),
		HealthHandler:  handlers.NewHealthHandler(healthService),
	})
	if err != nil {
		log.Fatalf("Failed to set up router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Starting server",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
			"emailProvider", mailer.Provider())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}
	log.Info("Server exited")
}

// connectRedis returns nil when Redis is disabled or unreachable.
func connectRedis(cfg *config.Config) *redis.Client {
	log := logger.GetLogger()
	if !cfg.Redis.Enabled {
		return nil
	}

	redisOptions := &redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	if cfg.Redis.UseTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(redisOptions)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warnw("Redis unavailable, using in-memory rate limiter",
			"address", cfg.Redis.Address, "error", err)
		_ = client.Close()
		return nil
	}
	log.Infow("Connected to Redis", "address", cfg.Redis.Address)
	return client
}
