package leave_test

import (
	"errors"
	"testing"
	"time"

	"github.com/warp/leave-engine/leave"
)

func TestParseDate_RoundtripsAndRejectsGarbage(t *testing.T) {
	// GIVEN: A well-formed date string
	// WHEN: Parsing and printing it
	// THEN: The same string comes back

	d, err := leave.ParseDate("2025-07-04")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2025-07-04" {
		t.Errorf("roundtrip produced %q", d.String())
	}

	for _, bad := range []string{"", "July 4th", "2025-13-01", "04/07/2025"} {
		if _, err := leave.ParseDate(bad); !errors.Is(err, leave.ErrInvalidDateRange) {
			t.Errorf("ParseDate(%q): expected ErrInvalidDateRange, got %v", bad, err)
		}
	}
}

func TestDate_DaysUntil(t *testing.T) {
	// GIVEN: Two dates four weeks apart
	// WHEN: Counting the days between them
	// THEN: 28 forward, -28 backward, 0 to itself

	a := date(2025, time.January, 1)
	b := date(2025, time.January, 29)

	if got := a.DaysUntil(b); got != 28 {
		t.Errorf("DaysUntil forward = %d, want 28", got)
	}
	if got := b.DaysUntil(a); got != -28 {
		t.Errorf("DaysUntil backward = %d, want -28", got)
	}
	if got := a.DaysUntil(a); got != 0 {
		t.Errorf("DaysUntil self = %d, want 0", got)
	}
}

func TestDate_WeekendDetection(t *testing.T) {
	// GIVEN: A Friday, a Saturday, a Sunday and a Monday
	// WHEN: Checking IsWeekend
	// THEN: Only Saturday and Sunday report true

	cases := map[leave.Date]bool{
		date(2025, time.July, 4): false, // Friday
		date(2025, time.July, 5): true,  // Saturday
		date(2025, time.July, 6): true,  // Sunday
		date(2025, time.July, 7): false, // Monday
	}
	for d, want := range cases {
		if d.IsWeekend() != want {
			t.Errorf("%s (%s): IsWeekend() = %v, want %v", d, d.Weekday(), d.IsWeekend(), want)
		}
	}
}

func TestParseClock_AcceptsBothForms(t *testing.T) {
	// GIVEN: "HH:MM" strings and bare hours
	// WHEN: Parsing
	// THEN: Both yield minutes since midnight; out-of-range input fails

	cases := map[string]leave.ClockTime{
		"08:00": 8 * 60,
		"15:30": 15*60 + 30,
		"8":     8 * 60,
		" 16 ":  16 * 60,
		"00:00": 0,
	}
	for input, want := range cases {
		got, err := leave.ParseClock(input)
		if err != nil {
			t.Errorf("ParseClock(%q): unexpected error %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParseClock(%q) = %d, want %d", input, got, want)
		}
	}

	for _, bad := range []string{"", "25:00", "12:60", "noon", "-1"} {
		if _, err := leave.ParseClock(bad); err == nil {
			t.Errorf("ParseClock(%q): expected an error", bad)
		}
	}
}
