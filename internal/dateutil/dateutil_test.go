package dateutil

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestStartOfWeekAlwaysMonday(t *testing.T) {
	t.Parallel()

	// Sweep a full year so every weekday and several month/year
	// boundaries are covered.
	d := date(2025, time.January, 1)
	for i := 0; i < 370; i++ {
		got := StartOfWeek(d)
		if got.Weekday() != time.Monday {
			t.Fatalf("StartOfWeek(%v).Weekday() = %v, want Monday", d, got.Weekday())
		}
		if got.After(d) {
			t.Fatalf("StartOfWeek(%v) = %v is after its input", d, got)
		}
		d = AddDays(d, 1)
	}
}

func TestStartOfWeekKnownDates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"sunday steps back six days", date(2025, time.March, 9), date(2025, time.March, 3)},
		{"monday is a fixed point", date(2025, time.March, 3), date(2025, time.March, 3)},
		{"saturday mid-week", date(2025, time.March, 1), date(2025, time.February, 24)},
		{"year boundary", date(2026, time.January, 1), date(2025, time.December, 29)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := StartOfWeek(tt.in); !got.Equal(tt.want) {
				t.Fatalf("StartOfWeek(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSameDayIgnoresTimeOfDay(t *testing.T) {
	t.Parallel()

	a := time.Date(2025, time.March, 3, 0, 0, 1, 0, time.Local)
	b := time.Date(2025, time.March, 3, 23, 59, 59, 0, time.Local)
	if !SameDay(a, b) {
		t.Fatalf("SameDay(%v, %v) = false, want true", a, b)
	}
	if SameDay(a, AddDays(b, 1)) {
		t.Fatal("SameDay across midnight reported true")
	}
}

func TestAddDaysRoundTrip(t *testing.T) {
	t.Parallel()

	d := date(2024, time.February, 29)
	for _, n := range []int{0, 1, 7, 30, 365, -1, -90, 1000} {
		if got := AddDays(AddDays(d, n), -n); !got.Equal(d) {
			t.Fatalf("AddDays round-trip failed for n=%d: got %v, want %v", n, got, d)
		}
	}
}

func TestAddMonthsRollover(t *testing.T) {
	t.Parallel()

	// Jan 31 + 1 month overflows into March; rollover is normalized,
	// never clamped.
	got := AddMonths(date(2025, time.January, 31), 1)
	if got.Month() != time.March || got.Day() != 3 {
		t.Fatalf("AddMonths(Jan 31, 1) = %v, want March 3", got)
	}
}

func TestMonthBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in        time.Time
		first     time.Time
		last      time.Time
		daysCount int
	}{
		{date(2025, time.March, 15), date(2025, time.March, 1), date(2025, time.March, 31), 31},
		{date(2024, time.February, 10), date(2024, time.February, 1), date(2024, time.February, 29), 29},
		{date(2025, time.February, 10), date(2025, time.February, 1), date(2025, time.February, 28), 28},
		{date(2025, time.December, 31), date(2025, time.December, 1), date(2025, time.December, 31), 31},
	}
	for _, tt := range tests {
		if got := StartOfMonth(tt.in); !got.Equal(tt.first) {
			t.Fatalf("StartOfMonth(%v) = %v, want %v", tt.in, got, tt.first)
		}
		if got := EndOfMonth(tt.in); !got.Equal(tt.last) {
			t.Fatalf("EndOfMonth(%v) = %v, want %v", tt.in, got, tt.last)
		}
		if got := DaysInMonth(tt.in); got != tt.daysCount {
			t.Fatalf("DaysInMonth(%v) = %d, want %d", tt.in, got, tt.daysCount)
		}
	}
}

func TestIsSaturday(t *testing.T) {
	t.Parallel()

	if !IsSaturday(date(2025, time.March, 1)) {
		t.Fatal("2025-03-01 is a Saturday")
	}
	if IsSaturday(date(2025, time.March, 2)) {
		t.Fatal("2025-03-02 is a Sunday, not a Saturday")
	}
}
