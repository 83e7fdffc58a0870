package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/campus-reservations/internal/model"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
    Scan(dest ...any) error
}

// Schema describes one reservation table to the generic store.  R is the
// row type returned by writes and V the enriched type returned by lists.
// Table and the column lists are compile-time constants of this package,
// never user input.
type Schema[R any, V any] struct {
    Table     string
    Lifecycle model.Lifecycle
    // Columns is the select list matching ScanRow.
    Columns string
    ScanRow func(rowScanner) (*R, error)
    // ListQuery selects the owner's rows with a single student_id
    // placeholder, already ordered.
    ListQuery string
    ScanView  func(rowScanner) (V, error)
}

// ReservationStore implements the contract shared by every reservation
// domain: insert with read-back, owner listing and the atomic cancel.
type ReservationStore[R any, V any] struct {
    db     *sql.DB
    schema Schema[R, V]
}

func newReservationStore[R any, V any](db *sql.DB, schema Schema[R, V]) *ReservationStore[R, V] {
    return &ReservationStore[R, V]{db: db, schema: schema}
}

// DB returns the underlying pool.
func (s *ReservationStore[R, V]) DB() *sql.DB { return s.db }

// insert runs a single-statement INSERT and reads back the created row.
// Constraint violations surface as *ConstraintError.
func (s *ReservationStore[R, V]) insert(ctx context.Context, query string, args ...any) (*R, error) {
    res, err := s.db.ExecContext(ctx, query, args...)
    if err != nil {
        return nil, classify(err)
    }
    id, err := res.LastInsertId()
    if err != nil {
        return nil, classify(err)
    }
    return s.Get(ctx, uint64(id))
}

// Get loads a single row by id.
func (s *ReservationStore[R, V]) Get(ctx context.Context, id uint64) (*R, error) {
    q := `SELECT ` + s.schema.Columns + ` FROM ` + s.schema.Table + ` WHERE id = ?`
    row, err := s.schema.ScanRow(s.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, classify(err)
    }
    return row, nil
}

// ListByStudent returns every reservation of studentID in the schema's
// order.  An empty result is an empty, non-nil slice.
func (s *ReservationStore[R, V]) ListByStudent(ctx context.Context, studentID string) ([]V, error) {
    rows, err := s.db.QueryContext(ctx, s.schema.ListQuery, studentID)
    if err != nil {
        return nil, classify(err)
    }
    defer rows.Close()

    out := []V{}
    for rows.Next() {
        v, err := s.schema.ScanView(rows)
        if err != nil {
            return nil, classify(err)
        }
        out = append(out, v)
    }
    if err := rows.Err(); err != nil {
        return nil, classify(err)
    }
    return out, nil
}

// Cancel moves reservation id to cancelled on behalf of studentID.  Owner,
// current status and the new status are applied in one conditional
// UPDATE, so of two concurrent cancels exactly one affects the row.  On
// zero affected rows a diagnostic read tells the caller why:
// ErrNotFound, ErrForbidden or a *StatusConflictError.
func (s *ReservationStore[R, V]) Cancel(ctx context.Context, id uint64, studentID string) (*R, error) {
    lc := s.schema.Lifecycle
    upd := `UPDATE ` + s.schema.Table + ` SET status = ? WHERE id = ? AND student_id = ? AND status = ?`
    res, err := s.db.ExecContext(ctx, upd, model.StatusCancelled, id, studentID, lc.Cancellable)
    if err != nil {
        return nil, classify(err)
    }
    n, err := res.RowsAffected()
    if err != nil {
        return nil, classify(err)
    }
    if n == 0 {
        return nil, s.whyNotCancelled(ctx, id, studentID)
    }
    return s.Get(ctx, id)
}

// whyNotCancelled classifies a zero-row cancel.
func (s *ReservationStore[R, V]) whyNotCancelled(ctx context.Context, id uint64, studentID string) error {
    q := `SELECT student_id, status FROM ` + s.schema.Table + ` WHERE id = ?`
    var owner string
    var status model.Status
    err := s.db.QueryRowContext(ctx, q, id).Scan(&owner, &status)
    if errors.Is(err, sql.ErrNoRows) {
        return ErrNotFound
    }
    if err != nil {
        return classify(err)
    }
    return cancelRejection(s.schema.Lifecycle, id, owner, studentID, status)
}

// cancelRejection decides which rule a cancel of an existing row broke.
// The ownership check precedes the status check so a non-owner never
// learns the row's state.
func cancelRejection(lc model.Lifecycle, id uint64, owner, principal string, status model.Status) error {
    if owner != principal {
        return ErrForbidden
    }
    if !lc.CanCancel(status) {
        return &StatusConflictError{ID: id, Status: string(status)}
    }
    // The row matched on re-read: it changed between the two statements
    // and is cancellable again, which no transition in this service allows.
    return ErrConflict
}
