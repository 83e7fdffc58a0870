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

// SportsHandler serves /v1/sports-reservations.
type SportsHandler struct {
    base
    Store SportsStore
}

func NewSportsHandler(store SportsStore, events queue.Publisher, log zerolog.Logger) *SportsHandler {
    return &SportsHandler{base: newBase(log, events), Store: store}
}

// Timestamps must carry an explicit offset ("Z" or "+03:00").
type createSportsReq struct {
    FacilityID uint64 `json:"facility_id" validate:"required,gt=0"`
    Start      string `json:"reservation_start_time" validate:"required"`
    End        string `json:"reservation_end_time" validate:"required"`
}

// List handles GET /v1/sports-reservations, latest start first.
func (h *SportsHandler) List(c echo.Context) error {
    rows, err := h.Store.ListByStudent(c.Request().Context(), middleware.StudentID(c))
    if err != nil {
        return h.fail(c, err, "")
    }
    return okList(c, "sports reservations", rows)
}

// Create handles POST /v1/sports-reservations.  An interval whose start is
// not before its end is rejected by the store before any SQL runs.
func (h *SportsHandler) Create(c echo.Context) error {
    var req createSportsReq
    if err := bindValid(c, &req); err != nil {
        return h.rejected(c, queue.DomainSports, err)
    }
    start, err := parseInstant("reservation_start_time", req.Start)
    if err != nil {
        return h.rejected(c, queue.DomainSports, err)
    }
    end, err := parseInstant("reservation_end_time", req.End)
    if err != nil {
        return h.rejected(c, queue.DomainSports, err)
    }

    ctx := c.Request().Context()
    res, err := h.Store.Create(ctx, middleware.StudentID(c), req.FacilityID, start, end)
    if err != nil {
        return h.rejected(c, queue.DomainSports, err)
    }
    metrics.IncCreated(queue.DomainSports)
    _ = h.events.Publish(ctx, queue.SportsEvent(queue.EventCreated, res, time.Now()))
    return ok(c, http.StatusCreated, "sports reservation created", res)
}

// Cancel handles PATCH /v1/sports-reservations/:id.
func (h *SportsHandler) Cancel(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return h.rejected(c, queue.DomainSports, err)
    }
    ctx := c.Request().Context()
    res, err := h.Store.Cancel(ctx, id, middleware.StudentID(c))
    if err != nil {
        return h.rejected(c, queue.DomainSports, err)
    }
    metrics.IncCancelled(queue.DomainSports)
    _ = h.events.Publish(ctx, queue.SportsEvent(queue.EventCancelled, res, time.Now()))
    return ok(c, http.StatusOK, "sports reservation cancelled", res)
}
