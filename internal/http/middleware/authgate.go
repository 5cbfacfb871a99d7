package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"campusdocs/internal/auth"
)

// PrincipalLocalKey stores the authenticated principal in Fiber's context
// locals.
const PrincipalLocalKey = "principal"

// AuthGate verifies the bearer token against the identity provider and
// attaches the resolved principal to the request. Any valid token passes;
// there is no role check beyond that.
func AuthGate(verifier auth.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "expected Bearer token")
		}

		principal, err := verifier.Verify(c.UserContext(), parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(PrincipalLocalKey, principal)
		return c.Next()
	}
}

// PrincipalFromCtx extracts the principal stored by AuthGate, or nil.
func PrincipalFromCtx(c *fiber.Ctx) *auth.Principal {
	if p, ok := c.Locals(PrincipalLocalKey).(*auth.Principal); ok {
		return p
	}
	return nil
}
