// Package queue carries reservation events over RabbitMQ: the payload, the
// publisher used by the HTTP handlers and the audit-log consumer.
package queue

import (
    "time"

    "github.com/iliyamo/campus-reservations/internal/model"
)

// QueueName is the durable queue every reservation event is routed to.
const QueueName = "reservations.events"

const (
    EventCreated   = "reservation.created"
    EventCancelled = "reservation.cancelled"

    DomainCafeteria = "cafeteria"
    DomainSports    = "sports"
)

// ReservationEvent is published after a reservation row has been created
// or cancelled.  Domain-specific fields are omitted when they do not apply.
type ReservationEvent struct {
    Type          string `json:"type"`
    Domain        string `json:"domain"`
    ReservationID uint64 `json:"reservation_id"`
    StudentID     string `json:"student_id"`
    Status        string `json:"status"`

    Date       string `json:"reservation_date,omitempty"`
    MealTypeID uint64 `json:"meal_type_id,omitempty"`

    FacilityID uint64 `json:"facility_id,omitempty"`
    StartTime  string `json:"reservation_start_time,omitempty"`
    EndTime    string `json:"reservation_end_time,omitempty"`

    OccurredAt string `json:"occurred_at"`
}

func CafeteriaEvent(typ string, r *model.CafeteriaReservation, at time.Time) ReservationEvent {
    return ReservationEvent{
        Type:          typ,
        Domain:        DomainCafeteria,
        ReservationID: r.ID,
        StudentID:     r.StudentID,
        Status:        string(r.Status),
        Date:          r.Date.String(),
        MealTypeID:    r.MealTypeID,
        OccurredAt:    at.UTC().Format(time.RFC3339),
    }
}

func SportsEvent(typ string, r *model.SportsReservation, at time.Time) ReservationEvent {
    return ReservationEvent{
        Type:          typ,
        Domain:        DomainSports,
        ReservationID: r.ID,
        StudentID:     r.StudentID,
        Status:        string(r.Status),
        FacilityID:    r.FacilityID,
        StartTime:     r.StartTime.UTC().Format(time.RFC3339),
        EndTime:       r.EndTime.UTC().Format(time.RFC3339),
        OccurredAt:    at.UTC().Format(time.RFC3339),
    }
}
