package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hareeshnagaraj/poiseed/internal/collector"
)

// StatusHandler exposes the in-progress run over HTTP while the collector
// works.
type StatusHandler struct {
	collector *collector.Collector
}

// NewStatusHandler creates the handler.
func NewStatusHandler(c *collector.Collector) *StatusHandler {
	return &StatusHandler{collector: c}
}

// Health GET /api/health - liveness probe.
func (h *StatusHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "poiseed",
	})
}

// Stats GET /api/stats - snapshot of the current run.
func (h *StatusHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.collector.Snapshot())
}

// Router builds the status server router.
func Router(h *StatusHandler) *gin.Engine {
	r := gin.Default()
	r.GET("/api/health", h.Health)
	r.GET("/api/stats", h.Stats)
	return r
}
