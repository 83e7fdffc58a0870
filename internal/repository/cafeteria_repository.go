package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/campus-reservations/internal/model"
)

// CafeteriaRepo stores meal reservations in cafeteria_reservations.  The
// unique key uq_cafeteria_active allows one non-cancelled row per
// (student, date, meal type).
type CafeteriaRepo struct {
    *ReservationStore[model.CafeteriaReservation, model.CafeteriaReservationView]
}

const cafeteriaColumns = `id, student_id, reservation_date, meal_type_id, status`

// Most recent date first; meal type breaks ties within a day.
const cafeteriaListQuery = `SELECT r.id, r.reservation_date, r.status, r.meal_type_id, m.name
    FROM cafeteria_reservations r
    JOIN meal_types m ON m.id = r.meal_type_id
    WHERE r.student_id = ?
    ORDER BY r.reservation_date DESC, r.meal_type_id ASC`

// NewCafeteriaRepo returns a CafeteriaRepo bound to db.
func NewCafeteriaRepo(db *sql.DB) *CafeteriaRepo {
    return &CafeteriaRepo{newReservationStore(db, Schema[model.CafeteriaReservation, model.CafeteriaReservationView]{
        Table:     "cafeteria_reservations",
        Lifecycle: model.CafeteriaLifecycle,
        Columns:   cafeteriaColumns,
        ScanRow:   scanCafeteria,
        ListQuery: cafeteriaListQuery,
        ScanView:  scanCafeteriaView,
    })}
}

// Create books mealTypeID on date for studentID with status active.  A
// second active booking of the same triple fails with ErrDuplicateBooking;
// an unknown meal type fails with ErrInvalidReference.
func (r *CafeteriaRepo) Create(ctx context.Context, studentID string, date model.CivilDate, mealTypeID uint64) (*model.CafeteriaReservation, error) {
    const q = `INSERT INTO cafeteria_reservations (student_id, reservation_date, meal_type_id, status) VALUES (?, ?, ?, ?)`
    return r.insert(ctx, q, studentID, date, mealTypeID, model.CafeteriaLifecycle.Initial)
}

func scanCafeteria(s rowScanner) (*model.CafeteriaReservation, error) {
    var res model.CafeteriaReservation
    if err := s.Scan(&res.ID, &res.StudentID, &res.Date, &res.MealTypeID, &res.Status); err != nil {
        return nil, err
    }
    return &res, nil
}

func scanCafeteriaView(s rowScanner) (model.CafeteriaReservationView, error) {
    var v model.CafeteriaReservationView
    err := s.Scan(&v.ID, &v.Date, &v.Status, &v.MealTypeID, &v.MealName)
    return v, err
}
