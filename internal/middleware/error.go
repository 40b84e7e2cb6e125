package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/soltixdb/sfb/internal/logging"
	"github.com/soltixdb/sfb/internal/models"
	"github.com/soltixdb/sfb/internal/services"
)

// WriteError renders se as an ErrorResponse with its HTTP status
func WriteError(c *fiber.Ctx, se *services.ServiceError) error {
	return c.Status(se.HTTPStatus()).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    se.Code,
			Message: se.Message,
			Path:    c.Path(),
			Details: se.Details,
		},
	})
}

// ErrorHandler returns the app-level handler for errors no handler rendered.
// In development the underlying error text is included in details.
func ErrorHandler(logger *logging.Logger, development bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var se *services.ServiceError
		if errors.As(err, &se) {
			return WriteError(c, se)
		}

		code := fiber.StatusInternalServerError
		errCode := services.CodeComputation
		message := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
			switch {
			case code == fiber.StatusRequestEntityTooLarge || code == fiber.StatusUnprocessableEntity || code == fiber.StatusBadRequest:
				errCode = services.CodeDataError
			case code == fiber.StatusRequestTimeout:
				errCode = services.CodeTimeout
			case code < 500:
				errCode = strings.ToUpper(strings.ReplaceAll(utils.StatusMessage(code), " ", "_"))
			}
		}

		fields := []interface{}{
			"path", c.Path(),
			"method", c.Method(),
			"status", code,
			"error", err,
		}
		log := logger.WithContext(c.UserContext())
		if code >= 500 {
			log.Error("Request error", fields...)
		} else {
			log.Warn("Request error", fields...)
		}

		detail := models.ErrorDetail{
			Code:    errCode,
			Message: message,
			Path:    c.Path(),
		}
		if development {
			detail.Details = map[string]interface{}{"error": err.Error()}
		}

		return c.Status(code).JSON(models.ErrorResponse{Error: detail})
	}
}
