package handlers

import (
	"net/http"

	"github.com/austcse/carnival-backend/types"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthService HealthServiceInterface
}

func NewHealthHandler(healthService HealthServiceInterface) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
	}
}

// LivenessCheck handles the liveness probe
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

// ReadinessCheck handles the readiness probe. Only a missing catalog makes
// the service unready; Redis or relay trouble degrades it.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	if !h.healthService.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": types.HealthStatusDown})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": types.HealthStatusUp})
}

// DetailedHealth godoc
// @Summary      Service health
// @Description  Reports catalog, mailer and Redis status
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthCheck
// @Failure      503  {object}  types.HealthCheck
// @Router       /health [get]
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	health := h.healthService.CheckHealth(c.Request.Context())

	if health.Status == types.HealthStatusDown {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	c.JSON(http.StatusOK, health)
}
