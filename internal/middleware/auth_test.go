package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/sfb/internal/config"
	"github.com/soltixdb/sfb/internal/logging"
	"github.com/soltixdb/sfb/internal/models"
)

const testSecret = "test-secret-key-with-enough-length"

func authConfig() config.AuthConfig {
	return config.AuthConfig{
		Enabled:   true,
		SecretKey: testSecret,
		Algorithm: "HS256",
		Scopes:    []string{ScopeRead, ScopeWrite},
	}
}

func signToken(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newAuthApp(cfg config.AuthConfig) *fiber.App {
	app := fiber.New()
	app.Post("/v1/generate", JWTAuth(cfg, logging.NewNop(), ScopeWrite), func(c *fiber.Ctx) error {
		p := PrincipalFrom(c)
		return c.JSON(fiber.Map{
			"subject": p.Subject,
			"user":    c.Locals(logging.LocalUser),
			"ctxUser": logging.UserIDFromContext(c.UserContext()),
		})
	})
	return app
}

func decodeError(t *testing.T, body io.Reader) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestJWTAuth_Disabled(t *testing.T) {
	cfg := authConfig()
	cfg.Enabled = false
	app := newAuthApp(cfg)

	resp, err := app.Test(httptest.NewRequest("POST", "/v1/generate", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, SystemSubject, body["subject"])
	assert.Equal(t, SystemSubject, body["user"])
	assert.Equal(t, SystemSubject, body["ctxUser"])
}

func TestJWTAuth_ValidToken(t *testing.T) {
	app := newAuthApp(authConfig())

	tests := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"scopes list", jwt.MapClaims{"sub": "alice", "scopes": []string{"sfb.read", "sfb.write"}}},
		{"scopes string", jwt.MapClaims{"sub": "alice", "scopes": "sfb.read sfb.write"}},
		{"oauth2 scope claim", jwt.MapClaims{"sub": "alice", "scope": "sfb.write"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/v1/generate", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, tt.claims))

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, "alice", body["subject"])
			assert.Equal(t, "alice", body["ctxUser"])
		})
	}
}

func TestJWTAuth_Rejections(t *testing.T) {
	app := newAuthApp(authConfig())

	expired := jwt.MapClaims{
		"sub":    "alice",
		"scopes": []string{"sfb.write"},
		"exp":    time.Now().Add(-time.Hour).Unix(),
	}
	otherKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x", "scopes": "sfb.write"}).
		SignedString([]byte("another-secret"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"missing header", "", "Authorization header missing"},
		{"wrong scheme", "Basic abc", "Authorization header must use the Bearer scheme"},
		{"garbage token", "Bearer not-a-jwt", "Invalid token"},
		{"wrong key", "Bearer " + otherKey, "Invalid token"},
		{"expired", "Bearer " + signToken(t, jwt.SigningMethodHS256, expired), "Invalid token"},
		{"wrong algorithm", "Bearer " + signToken(t, jwt.SigningMethodHS512, jwt.MapClaims{"sub": "a", "scopes": "sfb.write"}), "Invalid token"},
		{"read only", "Bearer " + signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "a", "scopes": "sfb.read"}), "Insufficient permissions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/v1/generate", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))

			body := decodeError(t, resp.Body)
			assert.Equal(t, "E005", body.Error.Code)
			assert.Equal(t, tt.message, body.Error.Message)
			assert.Equal(t, "/v1/generate", body.Error.Path)
		})
	}
}

func TestJWTAuth_Issuer(t *testing.T) {
	cfg := authConfig()
	cfg.Issuer = "https://auth.example.com"
	app := newAuthApp(cfg)

	good := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "a", "scopes": "sfb.write", "iss": cfg.Issuer})
	bad := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "a", "scopes": "sfb.write", "iss": "other"})

	req := httptest.NewRequest("POST", "/v1/generate", nil)
	req.Header.Set("Authorization", "Bearer "+good)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("POST", "/v1/generate", nil)
	req.Header.Set("Authorization", "Bearer "+bad)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestScopeList_Unmarshal(t *testing.T) {
	var s ScopeList
	require.NoError(t, json.Unmarshal([]byte(`"a  b c"`), &s))
	assert.Equal(t, ScopeList{"a", "b", "c"}, s)

	require.NoError(t, json.Unmarshal([]byte(`["x","y"]`), &s))
	assert.Equal(t, ScopeList{"x", "y"}, s)

	assert.Error(t, json.Unmarshal([]byte(`42`), &s))
}

func TestPrincipal_HasScopes(t *testing.T) {
	p := &Principal{Subject: "a", Scopes: []string{ScopeRead, ScopeWrite}}
	assert.True(t, p.HasScopes())
	assert.True(t, p.HasScopes(ScopeWrite))
	assert.True(t, p.HasScopes(ScopeRead, ScopeWrite))
	assert.False(t, p.HasScopes("sfb.admin"))
}
