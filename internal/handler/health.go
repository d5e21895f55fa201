package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse reports service and engine status.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Engine    string `json:"engine"`
}

// HandleHealth is the liveness probe. The process is healthy even when the
// recommendation engine failed to initialize; the engine field says which.
func (h *ChatHandler) HandleHealth(c *gin.Context) {
	engineStatus := "unavailable"
	status := "degraded"
	if h.recommender != nil {
		engineStatus = "ready"
		status = "healthy"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Engine:    engineStatus,
	})
}

// HandleReadiness is the startup probe, stricter than liveness.
func (h *ChatHandler) HandleReadiness(c *gin.Context) {
	if h.recommender == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": "engine_not_initialized",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// HandleHelloWorld is a static liveness response kept for compatibility.
func HandleHelloWorld(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<h1>Hello, World!</h1>"))
}
