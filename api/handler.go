// Package api provides the HTTP handlers for the backend.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/TripCu/ai-hotkey/config"
	"github.com/TripCu/ai-hotkey/service"
	"github.com/TripCu/ai-hotkey/telemetry"
)

// Handler handles HTTP requests.
type Handler struct {
	svc      *service.Service
	cfg      *config.Config
	recorder *telemetry.Recorder
}

// NewHandler creates a new handler.
func NewHandler(svc *service.Service, cfg *config.Config, recorder *telemetry.Recorder) *Handler {
	return &Handler{svc: svc, cfg: cfg, recorder: recorder}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/generate", h.Generate, h.requireAPIKey)
	e.POST("/generate-with-image", h.GenerateWithImage, h.requireAPIKey)

	e.GET("/status", h.Status)
	e.GET("/telemetry", h.Telemetry)
	e.GET("/health", h.Health)
}

// requireAPIKey rejects calls whose x-api-key header does not match the
// configured secret. A bad key is an authorization failure, not a
// validation failure.
func (h *Handler) requireAPIKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := c.Request().Header.Get("x-api-key")
		if key == "" || key != h.cfg.APIKey {
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Invalid API key."})
		}
		return next(c)
	}
}

// Status returns the active backend and model identity.
// GET /status
func (h *Handler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"ok":      true,
		"backend": h.svc.Backend(),
		"model":   h.svc.Model(),
	})
}

// Telemetry returns the current telemetry snapshot.
// GET /telemetry
func (h *Handler) Telemetry(c echo.Context) error {
	return c.JSON(http.StatusOK, h.recorder.Snapshot())
}

// Health returns liveness status.
// GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "1.2.0",
	})
}
