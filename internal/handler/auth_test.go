package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/campus-reservations/internal/config"
	"github.com/iliyamo/campus-reservations/internal/model"
	"github.com/iliyamo/campus-reservations/internal/repository"
	"github.com/iliyamo/campus-reservations/internal/utils"
)

func authServer(t *testing.T) *echo.Echo {
	hash, err := utils.HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)
	students := &fakeStudents{getFn: func(_ context.Context, email string) (model.Student, error) {
		if email != "alice@uni.edu" {
			return model.Student{}, repository.ErrNotFound
		}
		return model.Student{ID: alice, StudentIDNo: "2021001", Email: email, PasswordHash: hash}, nil
	}}
	cfg := config.Config{JWTSecret: "secret", SessionTTL: time.Hour, CookieName: "authToken", CookieSecure: true}
	h := NewAuthHandler(cfg, students, zerolog.Nop())
	e := echo.New()
	e.POST("/v1/auth/login", h.Login)
	e.POST("/v1/auth/logout", h.Logout)
	return e
}

func TestLogin(t *testing.T) {
	e := authServer(t)
	rec := do(e, http.MethodPost, "/v1/auth/login", `{"email":"alice@uni.edu","password":"correct horse"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var data loginResp
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &data))
	assert.Equal(t, alice, data.StudentID)

	claims, err := utils.ParseSessionToken("secret", data.Token)
	require.NoError(t, err)
	assert.Equal(t, alice, claims.Subject)

	res := rec.Result()
	require.Len(t, res.Cookies(), 1)
	ck := res.Cookies()[0]
	assert.Equal(t, "authToken", ck.Name)
	assert.Equal(t, data.Token, ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
}

func TestLoginRejects(t *testing.T) {
	e := authServer(t)
	cases := map[string]struct {
		body   string
		status int
	}{
		"wrong password": {`{"email":"alice@uni.edu","password":"battery staple"}`, http.StatusUnauthorized},
		"unknown email":  {`{"email":"mallory@uni.edu","password":"correct horse"}`, http.StatusUnauthorized},
		"bad email":      {`{"email":"alice","password":"x"}`, http.StatusBadRequest},
		"no password":    {`{"email":"alice@uni.edu"}`, http.StatusBadRequest},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/v1/auth/login", tc.body)
			assert.Equal(t, tc.status, rec.Code)
			assert.Empty(t, rec.Result().Cookies())
			if tc.status == http.StatusUnauthorized {
				assert.Equal(t, "invalid credentials", decode(t, rec).Error)
			}
		})
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	rec := do(authServer(t), http.MethodPost, "/v1/auth/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	ck := rec.Result().Cookies()
	require.Len(t, ck, 1)
	assert.Equal(t, "", ck[0].Value)
	assert.Equal(t, -1, ck[0].MaxAge)
}
