package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"autix_backend/internal/apperr"
	"autix_backend/models"
	"autix_backend/utils"
)

const claimsKey = "claims"

// Auth builds the token middlewares around one TokenManager.
type Auth struct {
	tokens *utils.TokenManager
}

func NewAuth(tokens *utils.TokenManager) *Auth {
	return &Auth{tokens: tokens}
}

func bearerToken(c *fiber.Ctx) (token string, present bool) {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if header == "" {
		return "", false
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// RequireAuth rejects requests without a valid bearer token: 401 when no
// token is sent, 403 when the token is bad or expired.
func (a *Auth) RequireAuth(c *fiber.Ctx) error {
	token, ok := bearerToken(c)
	if !ok {
		return apperr.Unauthorized("Access token required")
	}
	claims, err := a.tokens.Parse(token)
	if err != nil {
		return apperr.Forbidden("Invalid or expired token")
	}
	c.Locals(claimsKey, claims)
	return c.Next()
}

// OptionalAuth lets anonymous requests through but never downgrades a bad
// token to anonymous.
func (a *Auth) OptionalAuth(c *fiber.Ctx) error {
	if strings.TrimSpace(c.Get(fiber.HeaderAuthorization)) == "" {
		return c.Next()
	}
	return a.RequireAuth(c)
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...models.UserType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := CurrentUser(c)
		if !ok {
			return apperr.Unauthorized("Access token required")
		}
		for _, r := range roles {
			if claims.UserType == r {
				return c.Next()
			}
		}
		return apperr.Forbidden("Insufficient permissions")
	}
}

// CurrentUser returns the claims stored by RequireAuth or OptionalAuth.
func CurrentUser(c *fiber.Ctx) (*utils.Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*utils.Claims)
	return claims, ok && claims != nil
}

// MustCurrentUser is for handlers mounted behind RequireAuth.
func MustCurrentUser(c *fiber.Ctx) *utils.Claims {
	claims, ok := CurrentUser(c)
	if !ok {
		panic("middleware: no authenticated user in context")
	}
	return claims
}
