/*
date.go - Day-granularity dates and wall-clock times

PURPOSE:
  The engine works with two time concepts and nothing else:
  - Date: a calendar day with no timezone (start dates, request ranges)
  - ClockTime: a wall-clock time of day (request start/end times)

  There is deliberately NO "now" inside the engine. Every calculation that
  depends on the current day takes an explicit reference Date so the pure
  calculators stay deterministic and testable. Today() exists only for the
  layers that sit at the edge (handlers, main).

KEY CONCEPTS:
  - Date normalizes to midnight UTC; comparisons are whole-day comparisons
  - DaysUntil counts whole days between two dates (the accrual currency)
  - ClockTime is minutes since midnight; parsing accepts "15:04" and bare
    hours like "8" (the forms the request layer actually receives)

SEE ALSO:
  - accrual.go: buckets DaysUntil into fixed-length accrual periods
  - duration.go: clamps ClockTimes to the workday window
*/
package leave

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// DATE - Calendar day, no timezone
// =============================================================================

type Date struct {
	t time.Time
}

// NewDate builds a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q is not a valid date", ErrInvalidDateRange, s)
	}
	return Date{t: t}, nil
}

// Today returns the current calendar day. Edge layers only; the engine
// itself always receives an explicit reference date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// DaysUntil returns the whole-day distance to other. Negative when other is
// in the past.
func (d Date) DaysUntil(other Date) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }

func (d Date) IsWeekend() bool {
	wd := d.t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) String() string {
	return d.t.Format("2006-01-02")
}

// =============================================================================
// CLOCK TIME - Wall-clock time of day
// =============================================================================

// ClockTime is a time of day expressed as minutes since midnight.
type ClockTime int

// ParseClock parses "HH:MM" or a bare hour like "8".
func ParseClock(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty clock time")
	}

	hourPart, minutePart := s, "0"
	if i := strings.Index(s, ":"); i >= 0 {
		hourPart, minutePart = s[:i], s[i+1:]
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}

	return ClockTime(hour*60 + minute), nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}
