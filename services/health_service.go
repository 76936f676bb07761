package services

import (
	"context"
	"fmt"
	"time"

	"github.com/austcse/carnival-backend/config"
	"github.com/austcse/carnival-backend/logger"
	"github.com/austcse/carnival-backend/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CatalogStats is the part of the segment catalog the health check reads.
type CatalogStats interface {
	Len() int
	Unscheduled() []string
}

type HealthService struct {
	catalog     CatalogStats
	redisClient redis.Cmdable
	mailer      types.Mailer
	version     string
	startTime   time.Time
	log         *zap.SugaredLogger
}

// NewHealthService builds the health checker. redisClient may be nil when the
// in-memory rate limiter is in use.
func NewHealthService(catalog CatalogStats, redisClient redis.Cmdable, mailer types.Mailer, version string) *HealthService {
	return &HealthService{
		catalog:     catalog,
		redisClient: redisClient,
		mailer:      mailer,
		version:     version,
		startTime:   time.Now(),
		log:         logger.GetLogger(),
	}
}

func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := map[string]types.HealthComponent{
		"catalog": h.checkCatalog(),
		"mailer":  h.checkMailer(),
	}
	if h.redisClient != nil {
		components["redis"] = h.checkRedis(ctx)
	}

	overallStatus := types.HealthStatusUp
	for _, c := range components {
		if c.Status == types.HealthStatusDown {
			overallStatus = types.HealthStatusDown
			break
		}
		if c.Status == types.HealthStatusDegraded {
			overallStatus = types.HealthStatusDegraded
		}
	}

	return types.HealthCheck{
		Status:     overallStatus,
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
	}
}

// IsReady reports whether the service can take traffic. The catalog must be
// loaded; a failing Redis only degrades rate limiting.
func (h *HealthService) IsReady() bool {
	return h.checkCatalog().Status != types.HealthStatusDown
}

func (h *HealthService) checkCatalog() types.HealthComponent {
	if h.catalog == nil || h.catalog.Len() == 0 {
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Segment catalog is empty",
		}
	}
	if unscheduled := h.catalog.Unscheduled(); len(unscheduled) > 0 {
		return types.HealthComponent{
			Status:  types.HealthStatusDegraded,
			Details: fmt.Sprintf("%d segments have unparseable dates", len(unscheduled)),
		}
	}
	return types.HealthComponent{
		Status:  types.HealthStatusUp,
		Details: fmt.Sprintf("%d segments", h.catalog.Len()),
	}
}

func (h *HealthService) checkMailer() types.HealthComponent {
	if h.mailer == nil {
		return types.HealthComponent{Status: types.HealthStatusDown, Details: "No mailer configured"}
	}
	if h.mailer.Provider() == config.EmailProviderNoop {
		return types.HealthComponent{
			Status:  types.HealthStatusDegraded,
			Details: "Noop provider, messages are not delivered",
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp, Details: h.mailer.Provider()}
}

func (h *HealthService) checkRedis(ctx context.Context) types.HealthComponent {
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		h.log.Errorw("Redis health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDegraded,
			Details: "Redis connection failed, rate limiting fails open",
		}
	}

	return types.HealthComponent{
		Status: types.HealthStatusUp,
	}
}
