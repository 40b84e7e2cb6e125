// Package handlers implements the HTTP endpoints of the statistics service.
package handlers

import (
	"math"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/sfb/internal/config"
	"github.com/soltixdb/sfb/internal/logging"
	"github.com/soltixdb/sfb/internal/middleware"
	"github.com/soltixdb/sfb/internal/services"
)

// Handler contains all HTTP handlers
type Handler struct {
	logger     *logging.Logger
	service    *services.StatisticsService
	serviceCfg config.ServiceConfig
	timeout    time.Duration
	validator  *Validator
}

// New creates a new handler instance
func New(logger *logging.Logger, service *services.StatisticsService, serviceCfg config.ServiceConfig, timeout time.Duration) *Handler {
	if logger == nil {
		logger = logging.Global()
	}
	return &Handler{
		logger:     logger,
		service:    service,
		serviceCfg: serviceCfg,
		timeout:    timeout,
		validator:  NewValidator(),
	}
}

// caller returns the authenticated subject, "system" when auth is disabled
func caller(c *fiber.Ctx) string {
	if p := middleware.PrincipalFrom(c); p != nil {
		return p.Subject
	}
	return middleware.SystemSubject
}

// fail renders a service error, adding request context to E001/E002/E004 details
func (h *Handler) fail(c *fiber.Ctx, err error, details map[string]interface{}) error {
	se := services.FromError(err)

	switch se.Code {
	case services.CodeInvalidDataset, services.CodeDataError:
	case services.CodeTimeout:
		details = map[string]interface{}{"timeout_ms": h.timeout.Milliseconds()}
	default:
		details = nil
	}

	if len(details) > 0 {
		merged := make(map[string]interface{}, len(se.Details)+len(details))
		for k, v := range se.Details {
			merged[k] = v
		}
		for k, v := range details {
			merged[k] = v
		}
		se = &services.ServiceError{Code: se.Code, Message: se.Message, Details: merged}
	}

	return middleware.WriteError(c, se)
}

func millis(d time.Duration) float64 {
	return math.Round(float64(d.Microseconds())/10) / 100
}
