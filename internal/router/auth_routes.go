package router

import (
	"github.com/labstack/echo/v4"

	"github.com/maelc/combat-notation/internal/handler"
)

// RegisterAuth registers account routes. Register and login are open; the
// rest runs behind the session middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, auth echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	p := e.Group("/api/auth", auth)
	p.POST("/logout", a.Logout)
	p.GET("/me", a.Me)
	p.POST("/profile", a.UpdateProfile)
	p.POST("/change-password", a.ChangePassword)
}
