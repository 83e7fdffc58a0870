// Package slots computes the bookable time slots of a sports facility for
// one calendar date.  Everything here is pure: no I/O, no clock reads.
package slots

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/campus-reservations/internal/model"
)

// MaxSlotMinutes is the longest slot a rule may declare: one day.
const MaxSlotMinutes = 24 * 60

// ErrInvalidRule is returned when a facility rule's slot duration is not
// in (0, MaxSlotMinutes].
var ErrInvalidRule = errors.New("slot duration must be between 1 and 1440 minutes")

// Clock is a time of day.
type Clock struct {
	Hour, Minute, Second int
}

// ParseClock parses "HH:MM" or "HH:MM:SS" as stored in MySQL TIME columns.
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Clock{}, fmt.Errorf("invalid time of day: %q", s)
	}
	var vals [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Clock{}, fmt.Errorf("invalid time of day %q: %w", s, err)
		}
		vals[i] = n
	}
	c := Clock{Hour: vals[0], Minute: vals[1], Second: vals[2]}
	if c.Hour < 0 || c.Hour > 24 || c.Minute < 0 || c.Minute > 59 || c.Second < 0 || c.Second > 59 {
		return Clock{}, fmt.Errorf("time of day out of range: %q", s)
	}
	// 24:00 is end of day, nothing past it.
	if c.Hour == 24 && (c.Minute != 0 || c.Second != 0) {
		return Clock{}, fmt.Errorf("time of day out of range: %q", s)
	}
	return c, nil
}

// On returns the instant of c on date d in loc.
func (c Clock) On(d model.CivilDate, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, c.Hour, c.Minute, c.Second, 0, loc)
}

// Rule is a facility's operating rule.
type Rule struct {
	Opening     Clock
	Closing     Clock
	SlotMinutes int
}

// RuleFrom converts stored facility rules into a Rule.
func RuleFrom(r model.FacilityRules) (Rule, error) {
	open, err := ParseClock(r.OpeningTime)
	if err != nil {
		return Rule{}, err
	}
	closing, err := ParseClock(r.ClosingTime)
	if err != nil {
		return Rule{}, err
	}
	return Rule{Opening: open, Closing: closing, SlotMinutes: r.SlotMinutes}, nil
}

// Slot is the half-open interval [Start, End).  Both ends are emitted in
// UTC so every client reads the same instant.
type Slot struct {
	Start time.Time `json:"start_time"`
	End   time.Time `json:"end_time"`
}

// Generate tiles [opening, closing) on date d (hours interpreted in loc)
// with back-to-back slots of the rule's duration.  A trailing remainder
// shorter than one slot is dropped.  Opening at or after closing yields no
// slots.
func Generate(rule Rule, d model.CivilDate, loc *time.Location) ([]Slot, error) {
	if rule.SlotMinutes <= 0 || rule.SlotMinutes > MaxSlotMinutes {
		return nil, ErrInvalidRule
	}
	if loc == nil {
		loc = time.UTC
	}
	step := time.Duration(rule.SlotMinutes) * time.Minute
	open := rule.Opening.On(d, loc)
	closing := rule.Closing.On(d, loc)

	out := []Slot{}
	for cursor := open; !cursor.Add(step).After(closing); cursor = cursor.Add(step) {
		out = append(out, Slot{Start: cursor.UTC(), End: cursor.Add(step).UTC()})
	}
	return out, nil
}

// Filter returns the slots whose start instant is not in booked.  Instants
// are compared by value, so the zone a booked time carries is irrelevant.
func Filter(all []Slot, booked []time.Time) []Slot {
	taken := make(map[int64]struct{}, len(booked))
	for _, b := range booked {
		taken[b.UnixNano()] = struct{}{}
	}
	out := make([]Slot, 0, len(all))
	for _, s := range all {
		if _, ok := taken[s.Start.UnixNano()]; ok {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Available generates the day's slots and drops the booked ones.
func Available(rule Rule, d model.CivilDate, loc *time.Location, booked []time.Time) ([]Slot, error) {
	all, err := Generate(rule, d, loc)
	if err != nil {
		return nil, err
	}
	return Filter(all, booked), nil
}

// DayBounds returns [midnight, next midnight) of d in loc, the window in
// which booked start times are looked up.
func DayBounds(d model.CivilDate, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	start := d.In(loc)
	return start, start.AddDate(0, 0, 1)
}
