package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog"

    "github.com/iliyamo/campus-reservations/internal/model"
    "github.com/iliyamo/campus-reservations/internal/slots"
)

// FacilityHandler serves the sports facility catalogue and per-day
// availability.  Zone is the time zone facility opening hours refer to.
type FacilityHandler struct {
    base
    Facilities FacilityStore
    Bookings   SportsStore
    Zone       *time.Location
}

func NewFacilityHandler(facilities FacilityStore, bookings SportsStore, zone *time.Location, log zerolog.Logger) *FacilityHandler {
    if zone == nil {
        zone = time.UTC
    }
    return &FacilityHandler{base: newBase(log, nil), Facilities: facilities, Bookings: bookings, Zone: zone}
}

// Availability is the body of GET /v1/sports-facilities/:id/availability.
type Availability struct {
    FacilityID     uint64          `json:"facility_id"`
    Date           model.CivilDate `json:"date"`
    AvailableSlots []slots.Slot    `json:"available_slots"`
}

// List handles GET /v1/sports-facilities.
func (h *FacilityHandler) List(c echo.Context) error {
    rows, err := h.Facilities.ListAvailable(c.Request().Context())
    if err != nil {
        return h.fail(c, err, "")
    }
    return okList(c, "sports facilities", rows)
}

// Availability handles GET /v1/sports-facilities/:id/availability?date=.
// An unknown facility is 404; a day without free slots is 200 with an
// empty list.
func (h *FacilityHandler) Availability(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return h.fail(c, err, "")
    }
    date, err := parseDate("date", c.QueryParam("date"))
    if err != nil {
        return h.fail(c, err, "")
    }

    ctx := c.Request().Context()
    fr, err := h.Facilities.Rules(ctx, id)
    if err != nil {
        return h.fail(c, err, "facility not found")
    }
    rule, err := slots.RuleFrom(fr)
    if err != nil {
        return h.fail(c, err, "")
    }
    from, to := slots.DayBounds(date, h.Zone)
    booked, err := h.Bookings.BookedStartTimes(ctx, id, from, to)
    if err != nil {
        return h.fail(c, err, "")
    }
    free, err := slots.Available(rule, date, h.Zone, booked)
    if err != nil {
        return h.fail(c, err, "")
    }
    return ok(c, http.StatusOK, "facility availability", Availability{FacilityID: id, Date: date, AvailableSlots: free})
}
