package handlers

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/sfb/internal/logging"
	"github.com/soltixdb/sfb/internal/middleware"
	"github.com/soltixdb/sfb/internal/models"
	"github.com/soltixdb/sfb/internal/services"
)

// Generate handles single-dataset requests
// POST /v1/generate
func (h *Handler) Generate(c *fiber.Ctx) error {
	start := time.Now()
	requestID := logging.RequestID(c)
	user := caller(c)

	var req models.GenerateRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return middleware.WriteError(c, services.NewServiceErrorWithDetails(services.CodeDataError,
			"Malformed JSON body", map[string]interface{}{"error": err.Error()}))
	}
	if se := h.validator.Struct(&req); se != nil {
		return middleware.WriteError(c, se)
	}

	log := h.logger.WithContext(c.UserContext())
	log.Info("Processing statistical package request",
		"dataset", req.Dataset,
		"period", req.Period,
		"data_points", len(req.Data),
		"user", user,
	)

	result, err := h.service.Generate(c.UserContext(), &services.GenerateRequest{
		Dataset:   req.Dataset,
		Period:    req.Period,
		Records:   req.Data,
		RequestID: requestID,
		User:      user,
	})
	if err != nil {
		return h.fail(c, err, map[string]interface{}{"dataset": req.Dataset})
	}

	elapsed := time.Since(start)
	log.Info("Statistical package generated",
		"dataset", req.Dataset,
		"processing_time_ms", millis(elapsed),
		"exec_status", "success",
	)

	return c.JSON(models.GenerateResponse{
		Dataset:            req.Dataset,
		Period:             req.Period,
		GeneratedAt:        result.GeneratedAt,
		ProcessingTimeMs:   millis(elapsed),
		StatisticalPackage: result.Package,
		Metadata: models.Metadata{
			RequestID:           requestID,
			DataPointsProcessed: len(req.Data),
			RecordsDropped:      result.Report.RecordsDropped,
			OutliersDetected:    len(result.Package.Outliers),
			User:                user,
			Filters:             req.Filters,
		},
	})
}
