package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/sfb/internal/models"
)

// HealthPath is the health endpoint advertised by Root
const HealthPath = "/v1/health"

// Health handles health check requests
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(models.HealthResponse{
		Status:      "healthy",
		Service:     h.serviceCfg.Name,
		Version:     h.serviceCfg.Version,
		Environment: h.serviceCfg.Environment,
		Timestamp:   time.Now().UTC(),
	})
}

// Root describes the running service
func (h *Handler) Root(c *fiber.Ctx) error {
	return c.JSON(models.RootResponse{
		Service: h.serviceCfg.Name,
		Version: h.serviceCfg.Version,
		Status:  "running",
		Health:  HealthPath,
	})
}

// NotFound handles 404 errors
func (h *Handler) NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "NOT_FOUND",
			Message: "Route not found",
			Path:    c.Path(),
		},
	})
}

