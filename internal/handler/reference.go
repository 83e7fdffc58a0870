package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog"

    "github.com/iliyamo/campus-reservations/internal/middleware"
    "github.com/iliyamo/campus-reservations/internal/repository"
)

// ReferenceHandler serves read-only data the reservation forms need:
// meal types and the student's prepaid balances.
type ReferenceHandler struct {
    base
    MealTypes MealTypeStore
    Balances  BalanceStore
}

func NewReferenceHandler(meals MealTypeStore, balances BalanceStore, log zerolog.Logger) *ReferenceHandler {
    return &ReferenceHandler{base: newBase(log, nil), MealTypes: meals, Balances: balances}
}

// ListMealTypes handles GET /v1/cafeteria-meal-types.
func (h *ReferenceHandler) ListMealTypes(c echo.Context) error {
    rows, err := h.MealTypes.List(c.Request().Context())
    if err != nil {
        return h.fail(c, err, "")
    }
    return okList(c, "meal types", rows)
}

// CafeteriaBalance handles GET /v1/cafeteria-balance.
func (h *ReferenceHandler) CafeteriaBalance(c echo.Context) error {
    return h.balance(c, repository.CafeteriaBalance)
}

// SportsBalance handles GET /v1/sports-balance.
func (h *ReferenceHandler) SportsBalance(c echo.Context) error {
    return h.balance(c, repository.SportsBalance)
}

// balance answers data:null for a student who has never been credited.
func (h *ReferenceHandler) balance(c echo.Context, kind repository.BalanceKind) error {
    b, err := h.Balances.GetByStudent(c.Request().Context(), kind, middleware.StudentID(c))
    if err != nil {
        return h.fail(c, err, "")
    }
    return ok(c, http.StatusOK, string(kind)+" balance", b)
}
