// Package middleware provides shared request processing: session auth, role
// gating, rate limiting and response caching.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/maelc/combat-notation/internal/repository"
	"github.com/maelc/combat-notation/internal/utils"
)

// Context keys set by SessionAuth for downstream handlers.
const (
	CtxUserID     = "user_id"
	CtxUserRole   = "role"
	CtxForceReset = "force_reset"
	CtxTokenHash  = "token_hash"
)

// SessionAuth validates the Bearer token on every request of a protected
// group. The token envelope is checked first (rejects garbage without a DB
// round trip), then the session row is looked up — the row is authoritative
// and expired rows are evicted by the repository during lookup. The user row
// is loaded so role changes take effect immediately, not at next login.
func SessionAuth(secret string, sessions *repository.SessionRepo, users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			hash, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "invalid token"})
			}

			ctx := c.Request().Context()
			userID, err := sessions.Lookup(ctx, hash)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "session expired"})
			}
			u, err := users.GetByID(ctx, userID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "unknown user"})
			}

			c.Set(CtxUserID, u.ID)
			c.Set(CtxUserRole, u.Role)
			c.Set(CtxForceReset, u.ForceReset)
			c.Set(CtxTokenHash, hash)
			return next(c)
		}
	}
}
