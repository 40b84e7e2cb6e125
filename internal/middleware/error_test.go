package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/sfb/internal/logging"
	"github.com/soltixdb/sfb/internal/services"
)

func newErrorApp(development bool, handler fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logging.NewNop(), development)})
	app.Get("/fail", handler)
	return app
}

func TestErrorHandler_ServiceError(t *testing.T) {
	app := newErrorApp(false, func(c *fiber.Ctx) error {
		return services.NewServiceError(services.CodeTimeout, "too slow")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusGatewayTimeout, resp.StatusCode)

	body := decodeError(t, resp.Body)
	assert.Equal(t, "E004", body.Error.Code)
	assert.Equal(t, "too slow", body.Error.Message)
}

func TestErrorHandler_PlainError(t *testing.T) {
	tests := []struct {
		name        string
		development bool
		wantDetails bool
	}{
		{"production hides error", false, false},
		{"development shows error", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newErrorApp(tt.development, func(c *fiber.Ctx) error {
				return errors.New("disk on fire")
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

			body := decodeError(t, resp.Body)
			assert.Equal(t, "E003", body.Error.Code)
			assert.Equal(t, "Internal Server Error", body.Error.Message)
			if tt.wantDetails {
				assert.Equal(t, "disk on fire", body.Error.Details["error"])
			} else {
				assert.Nil(t, body.Error.Details)
			}
		})
	}
}

func TestErrorHandler_FiberErrors(t *testing.T) {
	tests := []struct {
		err    *fiber.Error
		status int
		code   string
	}{
		{fiber.ErrBadRequest, 400, "E002"},
		{fiber.ErrRequestEntityTooLarge, 413, "E002"},
		{fiber.ErrNotFound, 404, "NOT_FOUND"},
		{fiber.ErrMethodNotAllowed, 405, "METHOD_NOT_ALLOWED"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			app := newErrorApp(false, func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, decodeError(t, resp.Body).Error.Code)
		})
	}
}
