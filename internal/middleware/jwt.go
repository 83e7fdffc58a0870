package middleware

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/campus-reservations/internal/utils"
)

// SessionAuth resolves the principal of every protected request.  The
// session token is read from the cookieName cookie, falling back to an
// "Authorization: Bearer" header for non-browser clients.  A missing or
// invalid token ends the request with 401 before any handler runs; on
// success the student UUID is stored under StudentIDKey.
func SessionAuth(secret, cookieName string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw := sessionToken(c, cookieName)
            if raw == "" {
                return unauthorized(c, "authentication required")
            }
            claims, err := utils.ParseSessionToken(secret, raw)
            if err != nil {
                return unauthorized(c, "invalid or expired session")
            }
            c.Set(StudentIDKey, claims.Subject)
            return next(c)
        }
    }
}

func sessionToken(c echo.Context, cookieName string) string {
    if ck, err := c.Cookie(cookieName); err == nil && ck.Value != "" {
        return ck.Value
    }
    if auth := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
        return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
    }
    return ""
}

func unauthorized(c echo.Context, msg string) error {
    return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": msg})
}
