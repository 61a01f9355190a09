package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a backing service is reachable.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Pinger
	online func() []string
}

func NewHealthHandler(checks map[string]Pinger, online func() []string) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		online: online,
	}
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	services := make(map[string]string, len(h.checks))
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			services[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		services[name] = "ok"
	}

	body := map[string]interface{}{
		"status":   "ok",
		"time":     time.Now().Format(time.RFC3339),
		"services": services,
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	if h.online != nil {
		body["connections"] = len(h.online())
	}
	return c.JSON(status, body)
}
