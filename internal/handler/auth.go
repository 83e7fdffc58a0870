package handler

import (
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog"

    "github.com/iliyamo/campus-reservations/internal/config"
    "github.com/iliyamo/campus-reservations/internal/repository"
    "github.com/iliyamo/campus-reservations/internal/utils"
)

// AuthHandler issues and clears the session token every other endpoint
// consumes.
type AuthHandler struct {
    base
    Cfg      config.Config
    Students StudentStore
}

func NewAuthHandler(cfg config.Config, students StudentStore, log zerolog.Logger) *AuthHandler {
    return &AuthHandler{base: newBase(log, nil), Cfg: cfg, Students: students}
}

type loginReq struct {
    Email    string `json:"email" validate:"required,email"`
    Password string `json:"password" validate:"required"`
}

type loginResp struct {
    StudentID string    `json:"student_id"`
    StudentNo string    `json:"student_no"`
    Email     string    `json:"email"`
    Token     string    `json:"token"`
    ExpiresAt time.Time `json:"expires_at"`
}

// Login handles POST /v1/auth/login.  Unknown email and wrong password are
// indistinguishable to the caller.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := bindValid(c, &req); err != nil {
        return h.fail(c, err, "")
    }

    s, err := h.Students.GetByEmail(c.Request().Context(), req.Email)
    switch {
    case errors.Is(err, repository.ErrNotFound):
        utils.VerifyMissing(req.Password)
        return badCredentials(c)
    case err != nil:
        return h.fail(c, err, "")
    case !utils.VerifyPassword(s.PasswordHash, req.Password):
        return badCredentials(c)
    }

    tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, s.ID, s.Email, s.StudentIDNo, h.Cfg.SessionTTL)
    if err != nil {
        return h.fail(c, err, "")
    }
    c.SetCookie(h.cookie(tok.Token, tok.Exp))
    return ok(c, http.StatusOK, "login successful", loginResp{
        StudentID: s.ID,
        StudentNo: s.StudentIDNo,
        Email:     s.Email,
        Token:     tok.Token,
        ExpiresAt: tok.Exp,
    })
}

// Logout handles POST /v1/auth/logout by expiring the session cookie.
// Tokens are stateless; a copied token stays valid until it expires.
func (h *AuthHandler) Logout(c echo.Context) error {
    ck := h.cookie("", time.Unix(0, 0))
    ck.MaxAge = -1
    c.SetCookie(ck)
    return ok(c, http.StatusOK, "logged out", nil)
}

func (h *AuthHandler) cookie(value string, exp time.Time) *http.Cookie {
    return &http.Cookie{
        Name:     h.Cfg.CookieName,
        Value:    value,
        Path:     "/",
        Expires:  exp,
        HttpOnly: true,
        Secure:   h.Cfg.CookieSecure,
        SameSite: http.SameSiteLaxMode,
    }
}

func badCredentials(c echo.Context) error {
    return c.JSON(http.StatusUnauthorized, errorBody{Error: "invalid credentials"})
}
