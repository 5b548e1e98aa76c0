package attendance

import "time"

// DailySummary is one employee-day of already-resolved worked time, as
// produced by the attendance source. Shift boundaries are settled
// upstream; this engine only trusts the totals.
type DailySummary struct {
	EmployeeID string    `json:"employeeId"`
	Date       time.Time `json:"date"`
	TotalHours float64   `json:"totalHours"`
}

// SumHours adds up the worked hours across a set of daily summaries.
func SumHours(summaries []DailySummary) float64 {
	var total float64
	for _, s := range summaries {
		total += s.TotalHours
	}
	return total
}
