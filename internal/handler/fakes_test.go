package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/campus-reservations/internal/middleware"
	"github.com/iliyamo/campus-reservations/internal/model"
	"github.com/iliyamo/campus-reservations/internal/queue"
	"github.com/iliyamo/campus-reservations/internal/repository"
)

const (
	alice = "6f1c2a8e-0a43-4c55-9d1e-3b1f0a7e2c11"
	bob   = "9b2d7c1f-5e6a-4f0b-8c3d-2a1e4b5c6d77"
)

// --- function-field fakes ---

type fakeCafeteria struct {
	createFn func(ctx context.Context, studentID string, date model.CivilDate, mealTypeID uint64) (*model.CafeteriaReservation, error)
	listFn   func(ctx context.Context, studentID string) ([]model.CafeteriaReservationView, error)
	cancelFn func(ctx context.Context, id uint64, studentID string) (*model.CafeteriaReservation, error)
}

func (f *fakeCafeteria) Create(ctx context.Context, s string, d model.CivilDate, m uint64) (*model.CafeteriaReservation, error) {
	return f.createFn(ctx, s, d, m)
}
func (f *fakeCafeteria) ListByStudent(ctx context.Context, s string) ([]model.CafeteriaReservationView, error) {
	return f.listFn(ctx, s)
}
func (f *fakeCafeteria) Cancel(ctx context.Context, id uint64, s string) (*model.CafeteriaReservation, error) {
	return f.cancelFn(ctx, id, s)
}

type fakeSports struct {
	createFn func(ctx context.Context, studentID string, facilityID uint64, start, end time.Time) (*model.SportsReservation, error)
	listFn   func(ctx context.Context, studentID string) ([]model.SportsReservationView, error)
	cancelFn func(ctx context.Context, id uint64, studentID string) (*model.SportsReservation, error)
	bookedFn func(ctx context.Context, facilityID uint64, from, to time.Time) ([]time.Time, error)
}

func (f *fakeSports) Create(ctx context.Context, s string, fid uint64, start, end time.Time) (*model.SportsReservation, error) {
	return f.createFn(ctx, s, fid, start, end)
}
func (f *fakeSports) ListByStudent(ctx context.Context, s string) ([]model.SportsReservationView, error) {
	return f.listFn(ctx, s)
}
func (f *fakeSports) Cancel(ctx context.Context, id uint64, s string) (*model.SportsReservation, error) {
	return f.cancelFn(ctx, id, s)
}
func (f *fakeSports) BookedStartTimes(ctx context.Context, fid uint64, from, to time.Time) ([]time.Time, error) {
	return f.bookedFn(ctx, fid, from, to)
}

type fakeFacilities struct {
	listFn  func(ctx context.Context) ([]model.Facility, error)
	rulesFn func(ctx context.Context, id uint64) (model.FacilityRules, error)
}

func (f *fakeFacilities) ListAvailable(ctx context.Context) ([]model.Facility, error) {
	return f.listFn(ctx)
}
func (f *fakeFacilities) Rules(ctx context.Context, id uint64) (model.FacilityRules, error) {
	return f.rulesFn(ctx, id)
}

type fakeMealTypes struct {
	listFn func(ctx context.Context) ([]model.MealType, error)
}

func (f *fakeMealTypes) List(ctx context.Context) ([]model.MealType, error) { return f.listFn(ctx) }

type fakeBalances struct {
	getFn func(ctx context.Context, kind repository.BalanceKind, studentID string) (*model.Balance, error)
}

func (f *fakeBalances) GetByStudent(ctx context.Context, k repository.BalanceKind, s string) (*model.Balance, error) {
	return f.getFn(ctx, k, s)
}

type fakeStudents struct {
	getFn func(ctx context.Context, email string) (model.Student, error)
}

func (f *fakeStudents) GetByEmail(ctx context.Context, email string) (model.Student, error) {
	return f.getFn(ctx, email)
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ReservationEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.ReservationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}
func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) all() []queue.ReservationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.ReservationEvent(nil), p.events...)
}

// --- request helpers ---

// as authenticates requests as student, standing in for SessionAuth.
func as(student string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.StudentIDKey, student)
			return next(c)
		}
	}
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success       bool            `json:"success"`
	Message       string          `json:"message"`
	Data          json.RawMessage `json:"data"`
	Count         *int            `json:"count"`
	Error         string          `json:"error"`
	Field         string          `json:"field"`
	Constraint    string          `json:"constraint"`
	CurrentStatus string          `json:"current_status"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func mustDate(t *testing.T, s string) model.CivilDate {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

