// Package repository holds the SQL data access layer.  Storage failures
// leave this package as the typed errors below; callers never inspect
// driver-specific codes.  ErrForbidden means the caller does not own the
// row, ErrConflict that the row's current state forbids the operation.
package repository

import (
    "context"
    "database/sql/driver"
    "errors"
    "fmt"
    "net"
    "regexp"

    "github.com/go-sql-driver/mysql"
)

var (
    ErrNotFound    = errors.New("not found")
    ErrForbidden   = errors.New("forbidden")
    ErrConflict    = errors.New("conflict")
    ErrUnavailable = errors.New("storage unavailable")

    // ErrDuplicateBooking is a Conflict raised by a unique key on create.
    ErrDuplicateBooking = fmt.Errorf("%w: duplicate booking", ErrConflict)
    // ErrInvalidReference is raised when a foreign key does not resolve.
    ErrInvalidReference = errors.New("invalid reference")
    // ErrInvalidInterval is raised before any SQL when start >= end.
    ErrInvalidInterval = errors.New("reservation start must be before end")
)

// ConstraintError names the storage constraint that rejected a write.
type ConstraintError struct {
    Kind       error // ErrDuplicateBooking or ErrInvalidReference
    Constraint string
    Err        error
}

func (e *ConstraintError) Error() string {
    if e.Constraint == "" {
        return e.Kind.Error()
    }
    return fmt.Sprintf("%s (%s)", e.Kind, e.Constraint)
}

func (e *ConstraintError) Unwrap() []error { return []error{e.Kind, e.Err} }

// StatusConflictError reports the current status of a row that could not
// be transitioned.
type StatusConflictError struct {
    ID     uint64
    Status string
}

func (e *StatusConflictError) Error() string {
    return fmt.Sprintf("reservation %d cannot be cancelled: current status is %s", e.ID, e.Status)
}

func (e *StatusConflictError) Unwrap() error { return ErrConflict }

// MySQL server error numbers this package translates.
const (
    erDupEntry         = 1062
    erNoReferencedRow  = 1452
    erNoReferencedRow1 = 1216
    erTooManyConns     = 1040
    erServerShutdown   = 1053
)

var (
    dupKeyRe = regexp.MustCompile(`for key '([^']+)'`)
    fkRe     = regexp.MustCompile("CONSTRAINT `([^`]+)`")
)

// classify maps a raw database/sql or driver error onto the package
// taxonomy.  Errors it does not recognise are returned unchanged and are
// treated as internal by callers.
func classify(err error) error {
    if err == nil {
        return nil
    }
    var me *mysql.MySQLError
    if errors.As(err, &me) {
        switch me.Number {
        case erDupEntry:
            return &ConstraintError{Kind: ErrDuplicateBooking, Constraint: match(dupKeyRe, me.Message), Err: err}
        case erNoReferencedRow, erNoReferencedRow1:
            return &ConstraintError{Kind: ErrInvalidReference, Constraint: match(fkRe, me.Message), Err: err}
        case erTooManyConns, erServerShutdown:
            return fmt.Errorf("%w: %w", ErrUnavailable, err)
        }
        return err
    }
    var ne net.Error
    if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) ||
        errors.Is(err, context.DeadlineExceeded) || errors.As(err, &ne) {
        return fmt.Errorf("%w: %w", ErrUnavailable, err)
    }
    return err
}

// match returns the first capture group of re in s, stripping any
// "table." prefix MySQL 8 adds to key names.
func match(re *regexp.Regexp, s string) string {
    m := re.FindStringSubmatch(s)
    if len(m) < 2 {
        return ""
    }
    name := m[1]
    for i := len(name) - 1; i >= 0; i-- {
        if name[i] == '.' {
            return name[i+1:]
        }
    }
    return name
}
