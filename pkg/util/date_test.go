package util

import (
	"testing"
	"time"
)

func TestFiscalYearStart(t *testing.T) {
	cases := []struct {
		at   time.Time
		want time.Time
	}{
		{time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 3, 31, 23, 59, 0, 0, time.UTC), time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		if got := FiscalYearStart(c.at); !got.Equal(c.want) {
			t.Fatalf("FiscalYearStart(%v) = %v, want %v", c.at, got, c.want)
		}
	}
}

func TestMonthsBetween(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	if got := MonthsBetween(from, from.AddDate(0, 0, 60)); got != 2 {
		t.Fatalf("60 days = %v months, want 2", got)
	}
	if got := MonthsBetween(from, from.AddDate(0, 0, 15)); got != 0.5 {
		t.Fatalf("15 days = %v months, want 0.5", got)
	}
	if got := MonthsBetween(from, from.AddDate(0, 0, -30)); got != -1 {
		t.Fatalf("past date = %v months, want -1", got)
	}
}
