package handler

import (
    "context"
    "time"

    "github.com/iliyamo/campus-reservations/internal/model"
    "github.com/iliyamo/campus-reservations/internal/repository"
)

// The handlers depend on these narrow views of the repositories so tests
// can substitute function-field fakes.

type CafeteriaStore interface {
    Create(ctx context.Context, studentID string, date model.CivilDate, mealTypeID uint64) (*model.CafeteriaReservation, error)
    ListByStudent(ctx context.Context, studentID string) ([]model.CafeteriaReservationView, error)
    Cancel(ctx context.Context, id uint64, studentID string) (*model.CafeteriaReservation, error)
}

type SportsStore interface {
    Create(ctx context.Context, studentID string, facilityID uint64, start, end time.Time) (*model.SportsReservation, error)
    ListByStudent(ctx context.Context, studentID string) ([]model.SportsReservationView, error)
    Cancel(ctx context.Context, id uint64, studentID string) (*model.SportsReservation, error)
    BookedStartTimes(ctx context.Context, facilityID uint64, from, to time.Time) ([]time.Time, error)
}

type FacilityStore interface {
    ListAvailable(ctx context.Context) ([]model.Facility, error)
    Rules(ctx context.Context, id uint64) (model.FacilityRules, error)
}

type MealTypeStore interface {
    List(ctx context.Context) ([]model.MealType, error)
}

type BalanceStore interface {
    GetByStudent(ctx context.Context, kind repository.BalanceKind, studentID string) (*model.Balance, error)
}

type StudentStore interface {
    GetByEmail(ctx context.Context, email string) (model.Student, error)
}

var (
    _ CafeteriaStore = (*repository.CafeteriaRepo)(nil)
    _ SportsStore    = (*repository.SportsRepo)(nil)
    _ FacilityStore  = (*repository.FacilityRepo)(nil)
    _ MealTypeStore  = (*repository.MealTypeRepo)(nil)
    _ BalanceStore   = (*repository.BalanceRepo)(nil)
    _ StudentStore   = (*repository.StudentRepo)(nil)
)
