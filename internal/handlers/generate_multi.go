package handlers

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/tidwall/gjson"

	"github.com/soltixdb/sfb/internal/logging"
	"github.com/soltixdb/sfb/internal/middleware"
	"github.com/soltixdb/sfb/internal/models"
	"github.com/soltixdb/sfb/internal/processing"
	"github.com/soltixdb/sfb/internal/services"
)

// parseMultiRequest reads the body with gjson so that datasets keep the order
// in which they appear in the JSON object
func parseMultiRequest(body []byte) (*models.MultiGenerateRequest, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("body is not valid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("body must be a JSON object")
	}

	req := &models.MultiGenerateRequest{}
	if period := root.Get("period"); period.Type == gjson.String {
		req.Period = period.String()
	}

	if filters := root.Get("filters"); filters.IsObject() {
		if err := json.Unmarshal([]byte(filters.Raw), &req.Filters); err != nil {
			return nil, fmt.Errorf("filters: %w", err)
		}
	}

	datasets := root.Get("datasets")
	if datasets.Exists() && !datasets.IsObject() {
		return nil, fmt.Errorf("datasets must be an object of name to data array")
	}

	var parseErr error
	datasets.ForEach(func(key, value gjson.Result) bool {
		if !value.IsArray() {
			parseErr = fmt.Errorf("dataset %q: data must be an array", key.String())
			return false
		}
		var records []processing.RawRecord
		if err := json.Unmarshal([]byte(value.Raw), &records); err != nil {
			parseErr = fmt.Errorf("dataset %q: %w", key.String(), err)
			return false
		}
		req.Datasets = append(req.Datasets, processing.NamedRecords{Name: key.String(), Records: records})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return req, nil
}

// GenerateMulti handles multi-dataset requests with cross-dataset correlations
// POST /v1/generate/multi
func (h *Handler) GenerateMulti(c *fiber.Ctx) error {
	start := time.Now()
	requestID := logging.RequestID(c)
	user := caller(c)

	req, err := parseMultiRequest(c.Body())
	if err != nil {
		return middleware.WriteError(c, services.NewServiceErrorWithDetails(services.CodeDataError,
			"Malformed JSON body", map[string]interface{}{"error": err.Error()}))
	}
	if se := h.validator.Struct(req); se != nil {
		return middleware.WriteError(c, se)
	}

	result, err := h.service.GenerateMulti(c.UserContext(), &services.MultiGenerateRequest{
		Period:    req.Period,
		Datasets:  req.Datasets,
		RequestID: requestID,
		User:      user,
	})
	if err != nil {
		return h.fail(c, err, nil)
	}

	meta := models.MultiMetadata{
		RequestID: requestID,
		Datasets:  result.Result.Names(),
		User:      user,
		Filters:   req.Filters,
	}
	for i, dp := range result.Result.Packages {
		meta.DataPointsProcessed += len(req.Datasets[i].Records)
		meta.RecordsDropped += dp.Report.RecordsDropped
		meta.OutliersDetected += len(dp.Package.Outliers)
	}

	elapsed := time.Since(start)
	h.logger.WithContext(c.UserContext()).Info("Multi-dataset packages generated",
		"datasets", len(req.Datasets),
		"processing_time_ms", millis(elapsed),
		"exec_status", "success",
	)

	return c.JSON(models.MultiGenerateResponse{
		Period:              req.Period,
		GeneratedAt:         result.GeneratedAt,
		ProcessingTimeMs:    millis(elapsed),
		StatisticalPackages: processing.OrderedPackages(result.Result.Packages),
		Correlations:        result.Result.CrossCorrelations,
		Metadata:            meta,
	})
}
