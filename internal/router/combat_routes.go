package router

import (
	"github.com/labstack/echo/v4"

	"github.com/maelc/combat-notation/internal/handler"
)

// RegisterCombats registers the combat CRUD, sharing and legacy state
// routes. All of them require a session.
func RegisterCombats(e *echo.Echo, h *handler.CombatHandler, st *handler.StateHandler, auth echo.MiddlewareFunc) {
	// legacy whole-document endpoints, kept for pre-combat clients
	s := e.Group("/api/state", auth)
	s.GET("", st.Get)
	s.POST("", st.Save)

	g := e.Group("/api/combats", auth)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.POST("/:id", h.Save)
	g.POST("/:id/archive", h.Archive)
	g.POST("/:id/delete", h.Delete)

	g.GET("/:id/shares", h.ListShares)
	g.POST("/:id/shares", h.AddShare)
	g.DELETE("/:id/shares/:userId", h.RemoveShare)
}
