package router

import (
	"github.com/labstack/echo/v4"

	"github.com/maelc/combat-notation/internal/handler"
)

// RegisterLexicon registers the vocabulary routes. cache may be nil; it is
// applied only to the global reads, whose payload is the same for everyone.
func RegisterLexicon(e *echo.Echo, h *handler.LexiconHandler, auth, cache echo.MiddlewareFunc) {
	g := e.Group("/api/lexicon", auth)

	g.GET("/favorites", h.ListFavorites)
	g.POST("/favorites", h.ToggleFavorite)

	if cache != nil {
		g.GET("/global/:type", h.ListGlobal, cache)
	} else {
		g.GET("/global/:type", h.ListGlobal)
	}
	g.POST("/global/:type", h.AddGlobal)
	g.DELETE("/global/:type", h.RemoveGlobal)

	g.GET("/personal/:type", h.ListPersonal)
	g.POST("/personal/:type", h.AddPersonal)
	g.DELETE("/personal/:type", h.RemovePersonal)

	// merged view; /favorites, /global and /personal are static segments and
	// take priority over the :type param. Mutation on the bare category path
	// targets the global scope, matching what older clients send.
	g.GET("/:type", h.List)
	g.POST("/:type", h.AddGlobal)
	g.DELETE("/:type", h.RemoveGlobal)
}
