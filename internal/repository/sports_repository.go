package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/campus-reservations/internal/model"
)

// SportsRepo stores facility bookings in sports_reservations.  The unique
// key uq_sports_active prevents two non-cancelled bookings of the same
// facility at the same start instant.  All timestamps are stored in UTC.
type SportsRepo struct {
    *ReservationStore[model.SportsReservation, model.SportsReservationView]
}

const sportsColumns = `id, student_id, facility_id, reservation_start_time, reservation_end_time, status`

const sportsListQuery = `SELECT r.id, r.facility_id, f.name, f.location_details, t.name,
           r.reservation_start_time, r.reservation_end_time, r.status
    FROM sports_reservations r
    JOIN sports_facilities f ON f.id = r.facility_id
    JOIN sports_facility_types t ON t.id = f.facility_type_id
    WHERE r.student_id = ?
    ORDER BY r.reservation_start_time DESC`

// NewSportsRepo returns a SportsRepo bound to db.
func NewSportsRepo(db *sql.DB) *SportsRepo {
    return &SportsRepo{newReservationStore(db, Schema[model.SportsReservation, model.SportsReservationView]{
        Table:     "sports_reservations",
        Lifecycle: model.SportsLifecycle,
        Columns:   sportsColumns,
        ScanRow:   scanSports,
        ListQuery: sportsListQuery,
        ScanView:  scanSportsView,
    })}
}

// Create books facilityID for [start, end) with status confirmed.  It
// returns ErrInvalidInterval without touching the database when start is
// not before end, ErrDuplicateBooking when the start is already taken and
// ErrInvalidReference for an unknown facility.
func (r *SportsRepo) Create(ctx context.Context, studentID string, facilityID uint64, start, end time.Time) (*model.SportsReservation, error) {
    if !start.Before(end) {
        return nil, ErrInvalidInterval
    }
    const q = `INSERT INTO sports_reservations (student_id, facility_id, reservation_start_time, reservation_end_time, status) VALUES (?, ?, ?, ?, ?)`
    return r.insert(ctx, q, studentID, facilityID, start.UTC(), end.UTC(), model.SportsLifecycle.Initial)
}

// BookedStartTimes returns the start instants of non-cancelled bookings of
// facilityID that start in [from, to).
func (r *SportsRepo) BookedStartTimes(ctx context.Context, facilityID uint64, from, to time.Time) ([]time.Time, error) {
    const q = `SELECT reservation_start_time FROM sports_reservations
        WHERE facility_id = ? AND status <> ? AND reservation_start_time >= ? AND reservation_start_time < ?`
    rows, err := r.DB().QueryContext(ctx, q, facilityID, model.StatusCancelled, from.UTC(), to.UTC())
    if err != nil {
        return nil, classify(err)
    }
    defer rows.Close()

    var out []time.Time
    for rows.Next() {
        var t time.Time
        if err := rows.Scan(&t); err != nil {
            return nil, classify(err)
        }
        out = append(out, t)
    }
    if err := rows.Err(); err != nil {
        return nil, classify(err)
    }
    return out, nil
}

func scanSports(s rowScanner) (*model.SportsReservation, error) {
    var res model.SportsReservation
    if err := s.Scan(&res.ID, &res.StudentID, &res.FacilityID, &res.StartTime, &res.EndTime, &res.Status); err != nil {
        return nil, err
    }
    res.StartTime, res.EndTime = res.StartTime.UTC(), res.EndTime.UTC()
    return &res, nil
}

func scanSportsView(s rowScanner) (model.SportsReservationView, error) {
    var v model.SportsReservationView
    err := s.Scan(&v.ID, &v.FacilityID, &v.FacilityName, &v.LocationDetails, &v.FacilityType,
        &v.StartTime, &v.EndTime, &v.Status)
    v.StartTime, v.EndTime = v.StartTime.UTC(), v.EndTime.UTC()
    return v, err
}
