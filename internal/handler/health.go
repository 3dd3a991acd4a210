package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "KitabiBuddy API"
	serviceVersion = "1.0.0"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string `json:"status"`
	Timestamp  string `json:"timestamp"`
	Recognizer string `json:"recognizer"`
}

// Health returns the health status of the service
// Used for Cloud Run liveness probe
func (h *Handler) Health(c *gin.Context) {
	status, recognizer := "healthy", "ready"
	if h.recognizer == nil {
		status, recognizer = "degraded", "unavailable"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:     status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Recognizer: recognizer,
	})
}

// Readiness returns whether the service is ready to accept traffic
// Used for Cloud Run startup probe - stricter than health
func (h *Handler) Readiness(c *gin.Context) {
	if h.recognizer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": "recognizer_not_initialized",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Root returns service metadata
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": serviceName,
		"status":  "running",
		"version": serviceVersion,
	})
}
