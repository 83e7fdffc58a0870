package model

import (
    "database/sql/driver"
    "fmt"
    "time"
)

// DateLayout is the strict calendar-date format accepted and emitted by
// the API.
const DateLayout = "2006-01-02"

// CivilDate is a calendar date without time of day or zone.
type CivilDate struct {
    Year  int
    Month time.Month
    Day   int
}

// ParseDate parses s in DateLayout and rejects impossible dates such as
// 2025-02-30.
func ParseDate(s string) (CivilDate, error) {
    t, err := time.Parse(DateLayout, s)
    if err != nil {
        return CivilDate{}, err
    }
    return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) CivilDate {
    y, m, d := t.Date()
    return CivilDate{Year: y, Month: m, Day: d}
}

// In returns midnight of d in loc.
func (d CivilDate) In(loc *time.Location) time.Time {
    return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d CivilDate) String() string {
    return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d CivilDate) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *CivilDate) UnmarshalText(b []byte) error {
    v, err := ParseDate(string(b))
    if err != nil {
        return err
    }
    *d = v
    return nil
}

// Value stores the date as a DATE literal so no zone conversion happens in
// the driver.
func (d CivilDate) Value() (driver.Value, error) { return d.String(), nil }

// Scan accepts time.Time (parseTime=true) as well as raw DATE text.
func (d *CivilDate) Scan(src any) error {
    switch v := src.(type) {
    case time.Time:
        *d = DateOf(v)
        return nil
    case []byte:
        return d.UnmarshalText(v)
    case string:
        return d.UnmarshalText([]byte(v))
    }
    return fmt.Errorf("model: cannot scan %T into CivilDate", src)
}
