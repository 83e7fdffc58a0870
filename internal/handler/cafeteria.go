package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog"

    "github.com/iliyamo/campus-reservations/internal/metrics"
    "github.com/iliyamo/campus-reservations/internal/middleware"
    "github.com/iliyamo/campus-reservations/internal/queue"
)

// CafeteriaHandler serves /v1/cafeteria-reservations for the authenticated
// student.
type CafeteriaHandler struct {
    base
    Store CafeteriaStore
}

func NewCafeteriaHandler(store CafeteriaStore, events queue.Publisher, log zerolog.Logger) *CafeteriaHandler {
    return &CafeteriaHandler{base: newBase(log, events), Store: store}
}

type createCafeteriaReq struct {
    Date       string `json:"reservation_date" validate:"required,datetime=2006-01-02"`
    MealTypeID uint64 `json:"meal_type_id" validate:"required,gt=0"`
}

// List handles GET /v1/cafeteria-reservations, most recent date first.
func (h *CafeteriaHandler) List(c echo.Context) error {
    rows, err := h.Store.ListByStudent(c.Request().Context(), middleware.StudentID(c))
    if err != nil {
        return h.fail(c, err, "")
    }
    return okList(c, "cafeteria reservations", rows)
}

// Create handles POST /v1/cafeteria-reservations.
func (h *CafeteriaHandler) Create(c echo.Context) error {
    var req createCafeteriaReq
    if err := bindValid(c, &req); err != nil {
        return h.rejected(c, queue.DomainCafeteria, err)
    }
    date, err := parseDate("reservation_date", req.Date)
    if err != nil {
        return h.rejected(c, queue.DomainCafeteria, err)
    }

    ctx := c.Request().Context()
    res, err := h.Store.Create(ctx, middleware.StudentID(c), date, req.MealTypeID)
    if err != nil {
        return h.rejected(c, queue.DomainCafeteria, err)
    }
    metrics.IncCreated(queue.DomainCafeteria)
    _ = h.events.Publish(ctx, queue.CafeteriaEvent(queue.EventCreated, res, time.Now()))
    return ok(c, http.StatusCreated, "cafeteria reservation created", res)
}

// Cancel handles PATCH /v1/cafeteria-reservations/:id.
func (h *CafeteriaHandler) Cancel(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return h.rejected(c, queue.DomainCafeteria, err)
    }
    ctx := c.Request().Context()
    res, err := h.Store.Cancel(ctx, id, middleware.StudentID(c))
    if err != nil {
        return h.rejected(c, queue.DomainCafeteria, err)
    }
    metrics.IncCancelled(queue.DomainCafeteria)
    _ = h.events.Publish(ctx, queue.CafeteriaEvent(queue.EventCancelled, res, time.Now()))
    return ok(c, http.StatusOK, "cafeteria reservation cancelled", res)
}
