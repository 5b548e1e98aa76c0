package calendar

import "time"

// HolidayProvider answers whether a given date is a public holiday.
// Implementations are injected so jurisdictions and years are
// configuration rather than code.
type HolidayProvider interface {
	IsHoliday(t time.Time) bool
}

// StaticHolidays is a fixed table of dates keyed by YYYY-MM-DD. The table
// has to be extended per year; Easter-dependent dates are entered
// explicitly, not derived.
type StaticHolidays struct {
	dates map[string]struct{}
}

func NewStaticHolidays(dates []string) *StaticHolidays {
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return &StaticHolidays{dates: set}
}

func (s *StaticHolidays) IsHoliday(t time.Time) bool {
	_, ok := s.dates[t.Format("2006-01-02")]
	return ok
}

// SpainMadrid returns the national calendar plus the Madrid regional
// holidays for the years currently loaded.
func SpainMadrid() *StaticHolidays {
	return NewStaticHolidays([]string{
		// 2024
		"2024-01-01", "2024-01-06", "2024-03-28", "2024-03-29",
		"2024-05-01", "2024-05-02", "2024-07-25", "2024-08-15",
		"2024-10-12", "2024-11-01", "2024-12-06", "2024-12-25",
		// 2025
		"2025-01-01", "2025-01-06", "2025-04-17", "2025-04-18",
		"2025-05-01", "2025-05-02", "2025-07-25", "2025-08-15",
		"2025-11-01", "2025-12-06", "2025-12-08", "2025-12-25",
		// 2026
		"2026-01-01", "2026-01-06", "2026-04-02", "2026-04-03",
		"2026-05-01", "2026-05-02", "2026-07-25", "2026-08-15",
		"2026-10-12", "2026-12-08", "2026-12-25",
	})
}

// CountBusinessDays returns the number of working days between start and
// end, inclusive of both. A day counts when its weekday is Monday through
// Friday and it is not a holiday. Both ends are normalized to midnight so
// time-of-day never affects the count. An inverted range yields zero.
func CountBusinessDays(start, end time.Time, holidays HolidayProvider) int {
	day := midnight(start)
	last := midnight(end)

	count := 0
	for !day.After(last) {
		wd := day.Weekday()
		if wd != time.Saturday && wd != time.Sunday && !holidays.IsHoliday(day) {
			count++
		}
		day = day.AddDate(0, 0, 1)
	}
	return count
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
