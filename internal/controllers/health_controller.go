package controllers

import (
	"net/http"
	"time"

	"taskly-be/internal/models"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	startedAt time.Time
	now       func() time.Time
}

func NewHealthController(startedAt time.Time) *HealthController {
	return &HealthController{startedAt: startedAt, now: time.Now}
}

// Check handles GET /api/v1/health
func (hc *HealthController) Check(c *gin.Context) {
	now := hc.now()
	c.JSON(http.StatusOK, models.HealthResponse{
		Success:   true,
		Status:    "OK",
		Uptime:    now.Sub(hc.startedAt).Seconds(),
		Timestamp: now.UTC(),
	})
}
