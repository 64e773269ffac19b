package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sony/gobreaker/v2"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	// Backend is the state of the circuit breaker in front of the backend.
	Backend string `json:"backend"`
}

// BreakerReporter exposes the backend circuit breaker state.
type BreakerReporter interface {
	BreakerState() gobreaker.State
}

// HealthHandler reports liveness. The page server stays healthy while the
// backend breaker is open; the state is informational.
type HealthHandler struct {
	backend BreakerReporter
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(backend BreakerReporter) *HealthHandler {
	return &HealthHandler{backend: backend}
}

// HealthGet handles GET /health.
func (h *HealthHandler) HealthGet(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Backend: h.backend.BreakerState().String(),
	})
}
