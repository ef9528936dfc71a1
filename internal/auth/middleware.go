package auth

import (
	"strings"

	"github.com/Nogthings/befosa-software/internal/audit"
	"github.com/Nogthings/befosa-software/internal/config"
	"github.com/Nogthings/befosa-software/internal/models"

	"github.com/gofiber/fiber/v2"
)

const CtxClaimsKey = "claims"

// JWTMiddleware rejects the request with 401 unless it carries a valid,
// unrevoked bearer token.
func JWTMiddleware(cfg *config.Config, sessions SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header must be 'Bearer <token>'")
		}

		claims, err := ParseToken(cfg.JWTSecret, strings.TrimSpace(parts[1]))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		revoked, err := sessions.IsRevoked(c.UserContext(), claims.ID)
		if err != nil {
			return err
		}
		if revoked {
			return fiber.NewError(fiber.StatusUnauthorized, "Session has ended")
		}

		c.Locals(CtxClaimsKey, claims)
		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := CurrentClaims(c)
		if claims == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}
		for _, r := range allowedRoles {
			if r == claims.Role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "You are not allowed to perform this action")
	}
}

// CurrentClaims returns the claims stored by JWTMiddleware, or nil.
func CurrentClaims(c *fiber.Ctx) *Claims {
	claims, _ := c.Locals(CtxClaimsKey).(*Claims)
	return claims
}

// CurrentActor identifies the caller for audit records.
func CurrentActor(c *fiber.Ctx) audit.Actor {
	claims := CurrentClaims(c)
	if claims == nil {
		return audit.Actor{}
	}
	return audit.Actor{UserID: claims.UserID, UserName: claims.Name}
}
