package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Kenyi45/seventec-reto/internal/apperr"
	"github.com/Kenyi45/seventec-reto/internal/httpx"
	"github.com/Kenyi45/seventec-reto/model"
	"github.com/Kenyi45/seventec-reto/services"
)

const actorKey = "actor"

// RequireAuth verifies the bearer token once per request and stores the
// resulting claims in Locals. Every route behind it can assume an
// authenticated actor.
func RequireAuth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return httpx.Error(c, apperr.Unauthorized("missing bearer token"))
		}
		claims, err := auth.VerifyToken(strings.TrimSpace(authz[7:]))
		if err != nil {
			return httpx.Error(c, err)
		}
		c.Locals(actorKey, claims)
		return c.Next()
	}
}

// RequireRole is the single reusable guard for role-gated routes. It must
// run after RequireAuth.
func RequireRole(role model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if Actor(c).Role != role {
			return httpx.Error(c, apperr.Forbidden("requires "+string(role)+" role"))
		}
		return c.Next()
	}
}

// Actor returns the claims RequireAuth stored for this request.
func Actor(c *fiber.Ctx) services.Claims {
	if v := c.Locals(actorKey); v != nil {
		if claims, ok := v.(services.Claims); ok {
			return claims
		}
	}
	return services.Claims{}
}
