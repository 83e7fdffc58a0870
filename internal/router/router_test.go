package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/campus-reservations/internal/config"
	"github.com/iliyamo/campus-reservations/internal/handler"
	"github.com/iliyamo/campus-reservations/internal/middleware"
)

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

func newTestServer() *echo.Echo {
	log := zerolog.Nop()
	e := echo.New()
	RegisterRoutes(e, okPinger{}, false)
	RegisterAuth(e, handler.NewAuthHandler(config.Config{JWTSecret: "s", CookieName: "authToken"}, nil, log))
	RegisterStudent(e, StudentHandlers{
		Cafeteria:  handler.NewCafeteriaHandler(nil, nil, log),
		Sports:     handler.NewSportsHandler(nil, nil, log),
		Facilities: handler.NewFacilityHandler(nil, nil, nil, log),
		Reference:  handler.NewReferenceHandler(nil, nil, log),
	}, middleware.SessionAuth("s", "authToken"), passThrough, passThrough)
	return e
}

func TestRouteTable(t *testing.T) {
	e := newTestServer()
	got := map[string]bool{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /healthz",
		"POST /v1/auth/login",
		"POST /v1/auth/logout",
		"GET /v1/cafeteria-meal-types",
		"GET /v1/cafeteria-reservations",
		"POST /v1/cafeteria-reservations",
		"PATCH /v1/cafeteria-reservations/:id",
		"GET /v1/cafeteria-balance",
		"GET /v1/sports-facilities",
		"GET /v1/sports-facilities/:id/availability",
		"GET /v1/sports-reservations",
		"POST /v1/sports-reservations",
		"PATCH /v1/sports-reservations/:id",
		"GET /v1/sports-balance",
	} {
		assert.True(t, got[want], want)
	}
	assert.False(t, got["GET /metrics"])
}

func TestStudentRoutesRequireSession(t *testing.T) {
	e := newTestServer()
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/v1/cafeteria-reservations"},
		{http.MethodPost, "/v1/sports-reservations"},
		{http.MethodPatch, "/v1/cafeteria-reservations/1"},
		{http.MethodGet, "/v1/sports-facilities/3/availability?date=2025-03-10"},
		{http.MethodGet, "/v1/sports-balance"},
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.path)
	}
}

func TestPublicRoutes(t *testing.T) {
	e := newTestServer()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsRoute(t *testing.T) {
	e := echo.New()
	RegisterRoutes(e, okPinger{}, true)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
