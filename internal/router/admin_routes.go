package router

import (
	"github.com/labstack/echo/v4"

	"github.com/maelc/combat-notation/internal/authz"
	"github.com/maelc/combat-notation/internal/handler"
	"github.com/maelc/combat-notation/internal/middleware"
)

// RegisterAdmin registers the administration surface behind a role gate.
// Role changes are further restricted to the superadmin inside the handler.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, auth echo.MiddlewareFunc) {
	g := e.Group("/api/admin", auth, middleware.RequireRole(authz.RoleAdmin, authz.RoleSuperadmin))
	g.GET("/users", h.ListUsers)
	g.POST("/users/:id/role", h.ChangeRole)
	g.POST("/users/:id/reset-password", h.ResetPassword)
	g.GET("/audit", h.AuditLog)
}
