package calendar

import (
	"testing"
	"time"
)

func TestCountBusinessDaysInclusive(t *testing.T) {
	holidays := NewStaticHolidays(nil)

	// Monday through Friday of one week.
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC)
	if got := CountBusinessDays(start, end, holidays); got != 5 {
		t.Fatalf("expected 5 business days, got %d", got)
	}

	// Same day counts once.
	if got := CountBusinessDays(start, start, holidays); got != 1 {
		t.Fatalf("expected 1 business day, got %d", got)
	}

	// Weekend only.
	sat := time.Date(2025, 9, 6, 0, 0, 0, 0, time.UTC)
	sun := time.Date(2025, 9, 7, 0, 0, 0, 0, time.UTC)
	if got := CountBusinessDays(sat, sun, holidays); got != 0 {
		t.Fatalf("expected 0 business days on a weekend, got %d", got)
	}
}

func TestCountBusinessDaysSkipsHolidays(t *testing.T) {
	holidays := SpainMadrid()

	// 2025-05-01 (Thursday) and 2025-05-02 (Friday) are holidays.
	start := time.Date(2025, 4, 28, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)
	if got := CountBusinessDays(start, end, holidays); got != 3 {
		t.Fatalf("expected 3 business days, got %d", got)
	}
}

func TestCountBusinessDaysIgnoresTimeOfDay(t *testing.T) {
	holidays := NewStaticHolidays(nil)

	start := time.Date(2025, 9, 1, 23, 45, 0, 0, time.UTC)
	end := time.Date(2025, 9, 3, 0, 5, 0, 0, time.UTC)
	if got := CountBusinessDays(start, end, holidays); got != 3 {
		t.Fatalf("expected 3 business days, got %d", got)
	}
}

func TestCountBusinessDaysMonotonic(t *testing.T) {
	holidays := SpainMadrid()
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	previous := 0
	for i := 0; i < 60; i++ {
		end := start.AddDate(0, 0, i)
		got := CountBusinessDays(start, end, holidays)
		if got < previous {
			t.Fatalf("count decreased from %d to %d at offset %d", previous, got, i)
		}
		previous = got
	}
}

func TestIsHoliday(t *testing.T) {
	holidays := SpainMadrid()
	if !holidays.IsHoliday(time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC)) {
		t.Fatal("expected 2025-01-01 to be a holiday")
	}
	if holidays.IsHoliday(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("expected 2025-01-02 to be a working day")
	}
}
