package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/storefront_api/internal/utils"
)

var startTime = time.Now()

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping calls f(ctx).
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler provides health endpoint.
type HealthHandler struct {
	deps map[string]Pinger
}

// NewHealthHandler creates a new HealthHandler checking the named dependencies.
func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// GetHealth responds with service and dependency status. Any unreachable
// dependency turns the response into a 503.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	deps := make(gin.H, len(h.deps))
	for name, p := range h.deps {
		if err := p.Ping(ctx); err != nil {
			deps[name] = "disconnected"
			status = "degraded"
			continue
		}
		deps[name] = "connected"
	}

	code := 200
	if status != "healthy" {
		code = 503
	}
	utils.Success(c, code, "Service is "+status, gin.H{
		"status":       status,
		"version":      "1.0.0",
		"uptime":       int(time.Since(startTime).Seconds()),
		"dependencies": deps,
	})
}
