package model

import "time"

// CafeteriaReservation is a student's booking of one meal type on one
// calendar date.  At most one non-cancelled row may exist per
// (student, date, meal type); the storage layer enforces this.
//
// Fields:
//  ID         – primary key identifier.
//  StudentID  – owning principal (UUID).
//  Date       – reservation date; only the calendar part is meaningful.
//  MealTypeID – reference to meal_types.id.
//  Status     – active or cancelled.
type CafeteriaReservation struct {
    ID         uint64    `json:"id"`
    StudentID  string    `json:"student_id"`
    Date       CivilDate `json:"reservation_date"`
    MealTypeID uint64    `json:"meal_type_id"`
    Status     Status    `json:"status"`
}

// CafeteriaReservationView is a cafeteria reservation joined with the
// name of its meal type, as listed to the owning student.
type CafeteriaReservationView struct {
    ID         uint64    `json:"id"`
    Date       CivilDate `json:"reservation_date"`
    Status     Status    `json:"status"`
    MealTypeID uint64    `json:"meal_type_id"`
    MealName   string    `json:"meal_name"`
}

// SportsReservation books a facility for the absolute interval
// [StartTime, EndTime).  StartTime is strictly before EndTime and no two
// non-cancelled rows share (facility, start).
//
// Fields:
//  ID         – primary key identifier.
//  StudentID  – owning principal (UUID).
//  FacilityID – reference to sports_facilities.id.
//  StartTime  – reservation start, UTC.
//  EndTime    – reservation end, UTC.
//  Status     – confirmed or cancelled.
type SportsReservation struct {
    ID         uint64    `json:"id"`
    StudentID  string    `json:"student_id"`
    FacilityID uint64    `json:"facility_id"`
    StartTime  time.Time `json:"reservation_start_time"`
    EndTime    time.Time `json:"reservation_end_time"`
    Status     Status    `json:"status"`
}

// SportsReservationView enriches a sports reservation with the facility
// name, location and type for listing.
type SportsReservationView struct {
    ID              uint64    `json:"id"`
    FacilityID      uint64    `json:"facility_id"`
    FacilityName    string    `json:"facility_name"`
    LocationDetails string    `json:"location_details"`
    FacilityType    string    `json:"facility_type"`
    StartTime       time.Time `json:"reservation_start_time"`
    EndTime         time.Time `json:"reservation_end_time"`
    Status          Status    `json:"status"`
}
