// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/moviehub/movie-catalog/internal/handler"
)

// RegisterRoutes wires the health check and the movie resource onto the
// provided Echo instance. cacheMW wraps only the search endpoint; pass
// nil-cache middleware (a pass-through) when Redis is unavailable.
func RegisterRoutes(e *echo.Echo, h *handler.MovieHandler, cacheMW echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	g := e.Group("/movie")
	if cacheMW != nil {
		g.GET("", h.SearchMovies, cacheMW)
	} else {
		g.GET("", h.SearchMovies)
	}
	g.POST("", h.CreateMovie)
	g.PUT("/:id", h.UpdateMovie)
	g.DELETE("/:id", h.DeleteMovie)

	// Import/Export keep their original capitalized path segments.
	g.POST("/Import", h.ImportMovies)
	g.POST("/Export", h.ExportMovies)
}
