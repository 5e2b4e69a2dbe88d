/*
duration.go - Requested-hours calculation

PURPOSE:
  Sizes a leave request: given a date range and optional wall-clock times,
  how many hours does it consume? Pure function with no side effects, used
  both when persisting a request and as a standalone preview query.

WORKDAY POLICY (fixed):
  - Workday is 08:00-16:00, worth 8 hours
  - Saturdays and Sundays contribute 0 regardless of any other input
  - Supplied start times earlier than 08:00 clamp up to 08:00
  - Supplied end times later than 16:00 clamp down to 16:00

LENIENCY:
  A malformed time never aborts the computation. The side that failed to
  parse falls back to a full 8-hour day. This is deliberate policy, not a
  shortcut.

SHAPE:
  Single day:  weekend -> 0; both times -> clamped span capped at [0, 8];
               otherwise a full 8-hour day.
  Multi day:   first day (start time to 16:00) + last day (08:00 to end
               time) + 8 hours per weekday strictly in between.
*/
package leave

import "github.com/shopspring/decimal"

// =============================================================================
// WORKDAY POLICY
// =============================================================================

const (
	WorkdayStart ClockTime = 8 * 60  // 08:00
	WorkdayEnd   ClockTime = 16 * 60 // 16:00
)

var (
	workdayHours   = decimal.NewFromInt(8)
	minutesPerHour = decimal.NewFromInt(60)
)

// =============================================================================
// REQUESTED HOURS
// =============================================================================

// RequestedHours computes the hours a request spanning [start, end]
// consumes. startTime and endTime are optional "HH:MM" strings; empty
// means the full workday on that side.
func RequestedHours(start, end Date, startTime, endTime string) decimal.Decimal {
	if start.Equal(end) {
		return singleDayHours(start, startTime, endTime)
	}

	total := firstDayHours(start, startTime)
	total = total.Add(lastDayHours(end, endTime))

	// Middle days: weekdays strictly between first and last, 8 hours each.
	weekdays := 0
	for d := start.AddDays(1); d.Before(end); d = d.AddDays(1) {
		if !d.IsWeekend() {
			weekdays++
		}
	}
	return total.Add(workdayHours.Mul(decimal.NewFromInt(int64(weekdays))))
}

func singleDayHours(day Date, startTime, endTime string) decimal.Decimal {
	if day.IsWeekend() {
		return decimal.Zero
	}
	if startTime == "" || endTime == "" {
		return workdayHours
	}

	st, errStart := ParseClock(startTime)
	et, errEnd := ParseClock(endTime)
	if errStart != nil || errEnd != nil {
		// Parse failure falls back to a full day.
		return workdayHours
	}

	return spanHours(clampStart(st), clampEnd(et))
}

func firstDayHours(day Date, startTime string) decimal.Decimal {
	if day.IsWeekend() {
		return decimal.Zero
	}
	if startTime == "" {
		return workdayHours
	}

	st, err := ParseClock(startTime)
	if err != nil {
		return workdayHours
	}
	return spanHours(clampStart(st), WorkdayEnd)
}

func lastDayHours(day Date, endTime string) decimal.Decimal {
	if day.IsWeekend() {
		return decimal.Zero
	}
	if endTime == "" {
		return workdayHours
	}

	et, err := ParseClock(endTime)
	if err != nil {
		return workdayHours
	}
	return spanHours(WorkdayStart, clampEnd(et))
}

// =============================================================================
// CLAMPING
// =============================================================================

func clampStart(t ClockTime) ClockTime {
	if t < WorkdayStart {
		return WorkdayStart
	}
	return t
}

func clampEnd(t ClockTime) ClockTime {
	if t > WorkdayEnd {
		return WorkdayEnd
	}
	return t
}

// spanHours converts a clock span into hours, floored at 0 and capped at
// a full workday.
func spanHours(from, to ClockTime) decimal.Decimal {
	minutes := int64(to - from)
	if minutes < 0 {
		minutes = 0
	}
	hours := decimal.NewFromInt(minutes).Div(minutesPerHour)
	if hours.GreaterThan(workdayHours) {
		return workdayHours
	}
	return hours
}
