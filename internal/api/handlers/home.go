package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HomeHandler struct {
	version     string
	environment string
}

func NewHomeHandler(version, environment string) *HomeHandler {
	return &HomeHandler{version: version, environment: environment}
}

// Root describes the service and its endpoint map
func (h *HomeHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     "muse-api",
		"version":     h.version,
		"environment": h.environment,
		"endpoints": gin.H{
			"health":    "/health",
			"readiness": "/ready",
			"liveness":  "/alive",
			"prompt":    "/prompt",
			"plan":      "/plan",
			"render":    "/render",
			"download":  "/render/download/{filename}",
			"stream":    "/render/stream/{filename}",
			"metrics":   "/api/metrics",
		},
		"request_id": c.GetString("request_id"),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}
