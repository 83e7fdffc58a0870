package middleware

// identity.go holds the context key under which SessionAuth stores the
// authenticated principal, and the accessors handlers and the rate
// limiter read it through.

import "github.com/labstack/echo/v4"

// StudentIDKey is the echo.Context key of the authenticated student UUID.
const StudentIDKey = "student_id"

// StudentID returns the authenticated student UUID, or "" when the request
// did not pass SessionAuth.
func StudentID(c echo.Context) string {
    if s, ok := c.Get(StudentIDKey).(string); ok {
        return s
    }
    return ""
}

// principalOrAnon is StudentID with "anon" for unauthenticated requests.
func principalOrAnon(c echo.Context) string {
    if s := StudentID(c); s != "" {
        return s
    }
    return "anon"
}
