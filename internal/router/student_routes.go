package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-reservations/internal/handler"
)

// StudentHandlers groups the handlers mounted behind SessionAuth.
type StudentHandlers struct {
	Cafeteria  *handler.CafeteriaHandler
	Sports     *handler.SportsHandler
	Facilities *handler.FacilityHandler
	Reference  *handler.ReferenceHandler
}

// RegisterStudent registers every student-scoped endpoint under /v1.  The
// group authenticates first, then rate limits per student.  cache wraps
// only the reference-data reads; reservation and availability responses
// change with every booking and are never cached.
func RegisterStudent(e *echo.Echo, h StudentHandlers, auth, limit, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", auth, limit)

	g.GET("/cafeteria-meal-types", h.Reference.ListMealTypes, cache)
	g.GET("/cafeteria-reservations", h.Cafeteria.List)
	g.POST("/cafeteria-reservations", h.Cafeteria.Create)
	g.PATCH("/cafeteria-reservations/:id", h.Cafeteria.Cancel)
	g.GET("/cafeteria-balance", h.Reference.CafeteriaBalance)

	g.GET("/sports-facilities", h.Facilities.List, cache)
	g.GET("/sports-facilities/:id/availability", h.Facilities.Availability)
	g.GET("/sports-reservations", h.Sports.List)
	g.POST("/sports-reservations", h.Sports.Create)
	g.PATCH("/sports-reservations/:id", h.Sports.Cancel)
	g.GET("/sports-balance", h.Reference.SportsBalance)
}
