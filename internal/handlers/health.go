package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/internal/monitors"
)

func (h *Handler) HealthCheck(ctx *gin.Context) {
	results := monitors.Run(ctx.Request.Context(), monitors.DefaultTimeout, monitors.Dependencies(h.DB, h.Redis))

	status := http.StatusOK
	checks := make(map[string]string, len(results))

	for name, result := range results {
		checks[name] = result.Status
		if !result.Healthy() {
			status = http.StatusServiceUnavailable
		}
	}

	message := "ok"
	if status != http.StatusOK {
		message = "degraded"
	}

	ctx.JSON(status, gin.H{
		"status":    message,
		"message":   "Taskhive is running",
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
