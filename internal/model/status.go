package model

// Status is the lifecycle state of a reservation row.
type Status string

const (
    StatusActive    Status = "active"    // initial cafeteria state
    StatusConfirmed Status = "confirmed" // initial sports state
    StatusCancelled Status = "cancelled" // terminal for both domains
)

// Lifecycle describes the two-state machine shared by every reservation
// domain: rows are created in Initial and may move to StatusCancelled only
// from Cancellable.  Cancelled is terminal; there is no other transition.
type Lifecycle struct {
    Initial     Status
    Cancellable Status
}

var (
    CafeteriaLifecycle = Lifecycle{Initial: StatusActive, Cancellable: StatusActive}
    SportsLifecycle    = Lifecycle{Initial: StatusConfirmed, Cancellable: StatusConfirmed}
)

// CanCancel reports whether a row currently in from may be cancelled.
func (l Lifecycle) CanCancel(from Status) bool {
    return from == l.Cancellable
}
