package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog"

    "github.com/iliyamo/campus-reservations/internal/metrics"
    "github.com/iliyamo/campus-reservations/internal/queue"
    "github.com/iliyamo/campus-reservations/internal/repository"
)

// successBody is the envelope of every 2xx response.  Data is always
// present, null when there is nothing to return.
type successBody struct {
    Success bool   `json:"success"`
    Message string `json:"message,omitempty"`
    Data    any    `json:"data"`
    Count   *int   `json:"count,omitempty"`
}

// errorBody is the envelope of every 4xx/5xx response.  Field names the
// offending input; Constraint the storage rule that rejected a write.
type errorBody struct {
    Success       bool   `json:"success"`
    Error         string `json:"error"`
    Field         string `json:"field,omitempty"`
    Constraint    string `json:"constraint,omitempty"`
    CurrentStatus string `json:"current_status,omitempty"`
}

func ok(c echo.Context, status int, msg string, data any) error {
    return c.JSON(status, successBody{Success: true, Message: msg, Data: data})
}

func okList[T any](c echo.Context, msg string, items []T) error {
    n := len(items)
    return c.JSON(http.StatusOK, successBody{Success: true, Message: msg, Data: items, Count: &n})
}

// ValidationError is malformed or missing input, detected before any
// storage call.
type ValidationError struct {
    Field   string
    Message string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }

func invalid(field, msg string) *ValidationError { return &ValidationError{Field: field, Message: msg} }

// base carries what every handler needs to answer and to report.
type base struct {
    log    zerolog.Logger
    events queue.Publisher
}

func newBase(log zerolog.Logger, events queue.Publisher) base {
    if events == nil {
        events = queue.NopPublisher{}
    }
    return base{log: log, events: events}
}

// fail answers err with its status and envelope.  notFound is the message
// used for ErrNotFound.  Internal and unavailable errors are logged in full
// and answered with a generic message.
func (b base) fail(c echo.Context, err error, notFound string) error {
    status, body := classifyHTTP(err, notFound)
    if status >= http.StatusInternalServerError {
        b.log.Error().Err(err).
            Str("method", c.Request().Method).
            Str("route", c.Path()).
            Int("status", status).
            Msg("request failed")
    }
    return c.JSON(status, body)
}

// rejected is fail for reservation writes; 4xx outcomes are also counted.
func (b base) rejected(c echo.Context, domain string, err error) error {
    if status, _ := classifyHTTP(err, ""); status < http.StatusInternalServerError {
        metrics.IncRejected(domain, reason(status))
    }
    return b.fail(c, err, "reservation not found")
}

func classifyHTTP(err error, notFound string) (int, errorBody) {
    body := errorBody{Success: false}
    var (
        ve *ValidationError
        ce *repository.ConstraintError
        sc *repository.StatusConflictError
    )
    switch {
    case errors.As(err, &ve):
        body.Error, body.Field = ve.Message, ve.Field
        return http.StatusBadRequest, body
    case errors.Is(err, repository.ErrInvalidInterval):
        body.Error, body.Field = err.Error(), "reservation_end_time"
        return http.StatusBadRequest, body
    case errors.Is(err, repository.ErrInvalidReference):
        body.Error = "referenced record does not exist"
        if errors.As(err, &ce) {
            body.Constraint = ce.Constraint
        }
        return http.StatusBadRequest, body
    case errors.Is(err, repository.ErrNotFound):
        body.Error = notFound
        if body.Error == "" {
            body.Error = "not found"
        }
        return http.StatusNotFound, body
    case errors.Is(err, repository.ErrForbidden):
        body.Error = "reservation belongs to another student"
        return http.StatusForbidden, body
    case errors.Is(err, repository.ErrDuplicateBooking):
        body.Error = "an active reservation already exists for this slot"
        if errors.As(err, &ce) {
            body.Constraint = ce.Constraint
        }
        return http.StatusConflict, body
    case errors.As(err, &sc):
        body.Error, body.CurrentStatus = sc.Error(), sc.Status
        return http.StatusConflict, body
    case errors.Is(err, repository.ErrConflict):
        body.Error = "reservation was modified concurrently"
        return http.StatusConflict, body
    case errors.Is(err, repository.ErrUnavailable):
        body.Error = "service temporarily unavailable"
        return http.StatusServiceUnavailable, body
    }
    body.Error = "internal server error"
    return http.StatusInternalServerError, body
}

func reason(status int) string {
    switch status {
    case http.StatusBadRequest:
        return "invalid"
    case http.StatusForbidden:
        return "forbidden"
    case http.StatusNotFound:
        return "not_found"
    case http.StatusConflict:
        return "conflict"
    }
    return "other"
}
