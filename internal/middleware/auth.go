package middleware

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/lo"

	"github.com/soltixdb/sfb/internal/config"
	"github.com/soltixdb/sfb/internal/logging"
	"github.com/soltixdb/sfb/internal/services"
)

// OAuth2 scopes
const (
	ScopeRead  = "sfb.read"
	ScopeWrite = "sfb.write"
)

// LocalPrincipal is the fiber local holding the authenticated *Principal
const LocalPrincipal = "principal"

// SystemSubject identifies callers when authentication is disabled
const SystemSubject = "system"

// Principal is the authenticated caller
type Principal struct {
	Subject string
	Scopes  []string
}

// HasScopes reports whether p holds every scope in required
func (p *Principal) HasScopes(required ...string) bool {
	return lo.Every(p.Scopes, required)
}

// PrincipalFrom returns the caller stored by JWTAuth, or nil
func PrincipalFrom(c *fiber.Ctx) *Principal {
	p, _ := c.Locals(LocalPrincipal).(*Principal)
	return p
}

// ScopeList accepts either a JSON array of scopes or a space-separated string
type ScopeList []string

// UnmarshalJSON implements json.Unmarshaler
func (s *ScopeList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("scopes must be a string or a list of strings")
	}
	*s = strings.Fields(str)
	return nil
}

// Claims are the JWT claims read by JWTAuth. Both "scopes" and the OAuth2
// "scope" claim are honored.
type Claims struct {
	Scopes ScopeList `json:"scopes,omitempty"`
	Scope  ScopeList `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// AllScopes merges both scope claims
func (c *Claims) AllScopes() []string {
	return lo.Uniq(append(append([]string{}, c.Scopes...), c.Scope...))
}

// JWTAuth verifies the bearer token and requires the given scopes.
// With authentication disabled every request runs as SystemSubject with cfg.Scopes.
func JWTAuth(cfg config.AuthConfig, logger *logging.Logger, required ...string) fiber.Handler {
	if !cfg.Enabled {
		system := &Principal{Subject: SystemSubject, Scopes: cfg.Scopes}
		return func(c *fiber.Ctx) error {
			setPrincipal(c, system)
			return c.Next()
		}
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{cfg.Algorithm})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	parser := jwt.NewParser(opts...)
	key := []byte(cfg.SecretKey)

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return unauthorized(c, logger, "Authorization header missing", nil)
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			return unauthorized(c, logger, "Authorization header must use the Bearer scheme", nil)
		}

		claims := &Claims{}
		if _, err := parser.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (interface{}, error) {
			return key, nil
		}); err != nil {
			return unauthorized(c, logger, "Invalid token", err)
		}

		p := &Principal{Subject: claims.Subject, Scopes: claims.AllScopes()}
		if p.Subject == "" {
			p.Subject = "unknown"
		}
		if !p.HasScopes(required...) {
			return unauthorized(c, logger, "Insufficient permissions", nil,
				"required_scopes", required, "subject", p.Subject)
		}

		setPrincipal(c, p)
		return c.Next()
	}
}

func setPrincipal(c *fiber.Ctx, p *Principal) {
	c.Locals(LocalPrincipal, p)
	c.Locals(logging.LocalUser, p.Subject)
	c.SetUserContext(logging.WithUserID(c.UserContext(), p.Subject))
}

func unauthorized(c *fiber.Ctx, logger *logging.Logger, message string, err error, fields ...interface{}) error {
	fields = append(fields,
		"path", c.Path(),
		"method", c.Method(),
		"ip", c.IP(),
		"reason", message,
	)
	if err != nil {
		fields = append(fields, "error", err)
	}
	logger.Warn("Authentication failed", fields...)

	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return WriteError(c, services.NewServiceError(services.CodeUnauthorized, message))
}
