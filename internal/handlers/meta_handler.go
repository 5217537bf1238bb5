package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"game-upload-api/internal/models"
	"game-upload-api/internal/providers"
)

// MetaHandler serves API metadata and health.
type MetaHandler struct {
	gateway providers.StorageGateway
	version string
}

// NewMetaHandler creates a metadata handler.
func NewMetaHandler(gateway providers.StorageGateway, version string) *MetaHandler {
	return &MetaHandler{gateway: gateway, version: version}
}

// Info godoc
// @Summary API information
// @Description Returns the service name, version and available endpoints.
// @Tags Meta
// @Produce json
// @Success 200 {object} models.APIInfoResponse
// @Router /api [get]
func (h *MetaHandler) Info(c fiber.Ctx) error {
	return c.JSON(models.APIInfoResponse{
		Name:    "Game Upload API",
		Version: h.version,
		Endpoints: map[string]string{
			"storage":     "POST /v1/storage",
			"sessions":    "POST /v1/sessions",
			"concatenate": "POST /v1/concatenate",
			"health":      "GET /health",
		},
	})
}

// Health godoc
// @Summary Health check
// @Description Reports service health including storage reachability.
// @Tags Meta
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /health [get]
func (h *MetaHandler) Health(c fiber.Ctx) error {
	resp := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Unix(),
		Storage:   "reachable",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.gateway.HealthCheck(ctx); err != nil {
		resp.Status = "degraded"
		resp.Storage = err.Error()
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
