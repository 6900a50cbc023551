package period

import (
	"testing"
	"time"
)

func TestMonthRange(t *testing.T) {
	t.Run("mid-year month", func(t *testing.T) {
		start, end, err := MonthRange(6, 2025, time.UTC)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !start.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected start: %v", start)
		}
		if !end.Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected end: %v", end)
		}
	})

	t.Run("december rolls into next year", func(t *testing.T) {
		_, end, err := MonthRange(12, 2025, time.UTC)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !end.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected end: %v", end)
		}
	})

	t.Run("rejects invalid month", func(t *testing.T) {
		for _, m := range []int{0, 13, -1} {
			if _, _, err := MonthRange(m, 2025, time.UTC); err == nil {
				t.Errorf("expected error for month %d", m)
			}
		}
	})

	t.Run("rejects year before 2000", func(t *testing.T) {
		if _, _, err := MonthRange(6, 1999, time.UTC); err == nil {
			t.Error("expected error for year 1999")
		}
	})
}

func TestContains(t *testing.T) {
	cases := []struct {
		name  string
		t     time.Time
		month int
		year  int
		want  bool
	}{
		{"first instant is inside", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 6, 2025, true},
		{"last moment is inside", time.Date(2025, 6, 30, 23, 59, 59, 999999999, time.UTC), 6, 2025, true},
		{"next month first instant is outside", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 6, 2025, false},
		{"previous month is outside", time.Date(2025, 5, 31, 23, 59, 59, 0, time.UTC), 6, 2025, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Contains(tc.t, tc.month, tc.year); got != tc.want {
				t.Errorf("Contains(%v, %d, %d) = %v, want %v", tc.t, tc.month, tc.year, got, tc.want)
			}
		})
	}
}

func TestCurrent(t *testing.T) {
	month, year := Current(time.Date(2025, 11, 15, 12, 0, 0, 0, time.UTC))
	if month != 11 || year != 2025 {
		t.Errorf("expected (11, 2025), got (%d, %d)", month, year)
	}
}
