// Package router wires handlers to routes. Each API surface has its own
// register function; main builds the middleware once and passes it in.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/maelc/combat-notation/internal/handler"
)

// RegisterPublic registers routes that require no authentication.
func RegisterPublic(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}
