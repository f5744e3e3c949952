package timeutil

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	t.Parallel()

	input := time.Date(2026, 3, 1, 14, 37, 9, 123, time.Local)
	got := StartOfDay(input)

	if got.Year() != 2026 || got.Month() != time.March || got.Day() != 1 {
		t.Fatalf("unexpected date: %v", got)
	}
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
}

func TestToday_UsesInjectedClock(t *testing.T) {
	t.Parallel()

	clock := FixedClock(time.Date(2025, 7, 28, 23, 59, 0, 0, time.FixedZone("KST", 9*3600)))
	if got := Today(clock); got != "2025-07-28" {
		t.Fatalf("expected 2025-07-28, got %q", got)
	}
}

func TestIsISODate(t *testing.T) {
	t.Parallel()

	valid := []string{"2025-07-28", "2024-02-29"}
	invalid := []string{"2025/07/28", "not-a-date", "2025-7-28", "2025-13-01", "2023-02-29", " 2025-07-28", ""}

	for _, value := range valid {
		if !IsISODate(value) {
			t.Fatalf("expected %q to be valid", value)
		}
	}
	for _, value := range invalid {
		if IsISODate(value) {
			t.Fatalf("expected %q to be invalid", value)
		}
	}
}
