package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"groovesync/config"
	"groovesync/internal/delivery/api/response"
)

// HealthHandler answers liveness probes.
type HealthHandler struct {
	service string
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{service: cfg.Env.ServiceName}
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
}

// Health is a public endpoint that needs no authentication.
func (h *HealthHandler) Health(c echo.Context) error {
	return response.Success(c, http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: h.service,
	})
}
