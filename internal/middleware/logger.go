package middleware

import (
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog"

    "github.com/iliyamo/campus-reservations/internal/metrics"
)

// RequestLogger writes one structured line per request.  Handler errors
// are passed to the echo error handler first so the logged status is the
// one returned to the client.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            if err != nil {
                c.Error(err)
            }
            res := c.Response()
            ev := log.Info()
            if res.Status >= 500 {
                ev = log.Error().Err(err)
            }
            ev.Str("method", c.Request().Method).
                Str("route", c.Path()).
                Int("status", res.Status).
                Dur("latency", time.Since(start)).
                Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
                Str("student_id", StudentID(c)).
                Msg("request")
            return nil
        }
    }
}

// RequestMetrics records http_request_duration_seconds by route template.
func RequestMetrics() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            if err != nil {
                c.Error(err)
            }
            metrics.ObserveRequest(c.Request().Method, c.Path(), strconv.Itoa(c.Response().Status), time.Since(start).Seconds())
            return nil
        }
    }
}
