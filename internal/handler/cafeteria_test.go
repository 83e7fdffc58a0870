package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/campus-reservations/internal/model"
	"github.com/iliyamo/campus-reservations/internal/queue"
	"github.com/iliyamo/campus-reservations/internal/repository"
)

func cafeteriaServer(store *fakeCafeteria, pub queue.Publisher, student string) *echo.Echo {
	h := NewCafeteriaHandler(store, pub, zerolog.Nop())
	e := echo.New()
	g := e.Group("/v1", as(student))
	g.GET("/cafeteria-reservations", h.List)
	g.POST("/cafeteria-reservations", h.Create)
	g.PATCH("/cafeteria-reservations/:id", h.Cancel)
	return e
}

func TestCafeteriaCreate(t *testing.T) {
	pub := &recordingPublisher{}
	store := &fakeCafeteria{
		createFn: func(_ context.Context, s string, d model.CivilDate, m uint64) (*model.CafeteriaReservation, error) {
			assert.Equal(t, alice, s)
			assert.Equal(t, "2025-03-10", d.String())
			return &model.CafeteriaReservation{ID: 7, StudentID: s, Date: d, MealTypeID: m, Status: model.StatusActive}, nil
		},
	}
	e := cafeteriaServer(store, pub, alice)

	rec := do(e, http.MethodPost, "/v1/cafeteria-reservations", `{"reservation_date":"2025-03-10","meal_type_id":2}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	env := decode(t, rec)
	assert.True(t, env.Success)

	var got model.CafeteriaReservation
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, uint64(7), got.ID)
	assert.Equal(t, model.StatusActive, got.Status)
	assert.JSONEq(t, `{"id":7,"student_id":"`+alice+`","reservation_date":"2025-03-10","meal_type_id":2,"status":"active"}`, string(env.Data))

	events := pub.all()
	require.Len(t, events, 1)
	assert.Equal(t, queue.EventCreated, events[0].Type)
	assert.Equal(t, queue.DomainCafeteria, events[0].Domain)
}

func TestCafeteriaCreateValidation(t *testing.T) {
	called := false
	store := &fakeCafeteria{createFn: func(context.Context, string, model.CivilDate, uint64) (*model.CafeteriaReservation, error) {
		called = true
		return nil, nil
	}}
	e := cafeteriaServer(store, nil, alice)

	cases := map[string]struct{ body, field string }{
		"missing date":    {`{"meal_type_id":1}`, "reservation_date"},
		"loose date":      {`{"reservation_date":"2025-3-1","meal_type_id":1}`, "reservation_date"},
		"impossible date": {`{"reservation_date":"2025-02-30","meal_type_id":1}`, "reservation_date"},
		"with time":       {`{"reservation_date":"2025-03-10T12:00:00Z","meal_type_id":1}`, "reservation_date"},
		"no meal type":    {`{"reservation_date":"2025-03-10"}`, "meal_type_id"},
		"malformed body":  {`{"reservation_date":`, "body"},
		"wrong type":      {`{"reservation_date":"2025-03-10","meal_type_id":"lunch"}`, "body"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/v1/cafeteria-reservations", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			env := decode(t, rec)
			assert.False(t, env.Success)
			assert.Equal(t, tc.field, env.Field)
		})
	}
	assert.False(t, called, "validation failures never reach the store")
}

func TestCafeteriaCreateStorageErrors(t *testing.T) {
	dup := &repository.ConstraintError{Kind: repository.ErrDuplicateBooking, Constraint: "uq_cafeteria_active"}
	fk := &repository.ConstraintError{Kind: repository.ErrInvalidReference, Constraint: "fk_cafeteria_meal_type"}
	cases := []struct {
		name       string
		err        error
		status     int
		constraint string
	}{
		{"duplicate", dup, http.StatusConflict, "uq_cafeteria_active"},
		{"unknown meal type", fk, http.StatusBadRequest, "fk_cafeteria_meal_type"},
		{"unavailable", fmt.Errorf("%w: %w", repository.ErrUnavailable, mysql.ErrInvalidConn), http.StatusServiceUnavailable, ""},
		{"internal", errors.New("SELECT secret FROM students"), http.StatusInternalServerError, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pub := &recordingPublisher{}
			store := &fakeCafeteria{createFn: func(context.Context, string, model.CivilDate, uint64) (*model.CafeteriaReservation, error) {
				return nil, tc.err
			}}
			rec := do(cafeteriaServer(store, pub, alice), http.MethodPost, "/v1/cafeteria-reservations",
				`{"reservation_date":"2025-03-10","meal_type_id":2}`)
			assert.Equal(t, tc.status, rec.Code)
			env := decode(t, rec)
			assert.Equal(t, tc.constraint, env.Constraint)
			assert.NotContains(t, rec.Body.String(), "SELECT", "no internal detail crosses the boundary")
			assert.Empty(t, pub.all())
		})
	}
}

func TestCafeteriaList(t *testing.T) {
	store := &fakeCafeteria{listFn: func(_ context.Context, s string) ([]model.CafeteriaReservationView, error) {
		assert.Equal(t, bob, s)
		return []model.CafeteriaReservationView{}, nil
	}}
	rec := do(cafeteriaServer(store, nil, bob), http.MethodGet, "/v1/cafeteria-reservations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.JSONEq(t, `[]`, string(env.Data))
	require.NotNil(t, env.Count)
	assert.Zero(t, *env.Count)
}

func TestCafeteriaCancel(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		current string
	}{
		{"ok", nil, http.StatusOK, ""},
		{"not found", repository.ErrNotFound, http.StatusNotFound, ""},
		{"not owner", repository.ErrForbidden, http.StatusForbidden, ""},
		{"already cancelled", &repository.StatusConflictError{ID: 7, Status: "cancelled"}, http.StatusConflict, "cancelled"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pub := &recordingPublisher{}
			store := &fakeCafeteria{cancelFn: func(_ context.Context, id uint64, s string) (*model.CafeteriaReservation, error) {
				assert.Equal(t, uint64(7), id)
				if tc.err != nil {
					return nil, tc.err
				}
				return &model.CafeteriaReservation{ID: id, StudentID: s, Status: model.StatusCancelled}, nil
			}}
			rec := do(cafeteriaServer(store, pub, alice), http.MethodPatch, "/v1/cafeteria-reservations/7", "")
			assert.Equal(t, tc.status, rec.Code)
			env := decode(t, rec)
			assert.Equal(t, tc.current, env.CurrentStatus)
			if tc.err == nil {
				require.Len(t, pub.all(), 1)
				assert.Equal(t, queue.EventCancelled, pub.all()[0].Type)
			} else {
				assert.Empty(t, pub.all())
			}
		})
	}
}

func TestCafeteriaCancelBadID(t *testing.T) {
	store := &fakeCafeteria{}
	for _, id := range []string{"0", "abc", "-3"} {
		rec := do(cafeteriaServer(store, nil, alice), http.MethodPatch, "/v1/cafeteria-reservations/"+id, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, id)
		assert.Equal(t, "id", decode(t, rec).Field)
	}
}

func TestPublishFailureDoesNotChangeOutcome(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	store := &fakeCafeteria{createFn: func(_ context.Context, s string, d model.CivilDate, m uint64) (*model.CafeteriaReservation, error) {
		return &model.CafeteriaReservation{ID: 1, StudentID: s, Date: d, MealTypeID: m, Status: model.StatusActive}, nil
	}}
	rec := do(cafeteriaServer(store, pub, alice), http.MethodPost, "/v1/cafeteria-reservations",
		`{"reservation_date":"2025-03-10","meal_type_id":2}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, pub.all(), 1)
}
