package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// WeeksPerMonth converts contracted weekly hours into a monthly
	// expectation.
	WeeksPerMonth = 4.33

	// DefaultMonthlyHours is the fallback expectation when an employee has
	// no configured weekly hours (or a configured value of zero).
	DefaultMonthlyHours = 160.0

	// ProportionCap bounds attendance-derived pay at 110% of the baseline
	// salary; overtime beyond that is settled outside this engine.
	ProportionCap = 1.10

	// LowAttendanceThreshold marks rows where the employee worked less
	// than 80% of the expected hours.
	LowAttendanceThreshold = 0.8
)

// Fixed-rate decomposition of gross pay. These are approximations, not a
// tax table.
var (
	RateEmployeeSS = decimal.RequireFromString("0.0635")
	RateIncomeTax  = decimal.RequireFromString("0.15")
	RateEmployerSS = decimal.RequireFromString("0.236")
)

// ExpectedMonthlyHours returns the hours an employee is expected to work
// in a month given their contracted weekly hours.
func ExpectedMonthlyHours(weeklyHours *float64) float64 {
	if weeklyHours == nil || *weeklyHours == 0 {
		return DefaultMonthlyHours
	}
	expected := *weeklyHours * WeeksPerMonth
	if expected == 0 {
		return DefaultMonthlyHours
	}
	return expected
}

// MonthlySalary resolves the baseline monthly gross: the configured
// monthly salary, else annual divided by twelve, else zero.
func MonthlySalary(baseline EmployeeBaseline) decimal.Decimal {
	if baseline.MonthlyGrossSalary != nil {
		return *baseline.MonthlyGrossSalary
	}
	if baseline.AnnualGrossSalary != nil {
		return baseline.AnnualGrossSalary.Div(decimal.NewFromInt(12)).Round(2)
	}
	return decimal.Zero
}

// WorkedProportion returns workedHours over expectedHours, zero when no
// hours were worked.
func WorkedProportion(workedHours, expectedHours float64) float64 {
	if workedHours == 0 || expectedHours == 0 {
		return 0
	}
	return workedHours / expectedHours
}

// DeriveRow computes one canonical payroll row from an employee's salary
// baseline and worked hours. The effective proportion is capped before
// multiplying, then gross is decomposed at the fixed rates.
func DeriveRow(baseline EmployeeBaseline, workedHours float64) Row {
	expected := ExpectedMonthlyHours(baseline.WeeklyHours)
	proportion := WorkedProportion(workedHours, expected)

	effective := proportion
	if effective > ProportionCap {
		effective = ProportionCap
	}

	gross := MonthlySalary(baseline).Mul(decimal.NewFromFloat(effective)).Round(2)
	employeeSS := gross.Mul(RateEmployeeSS).Round(2)
	incomeTax := gross.Mul(RateIncomeTax).Round(2)
	employerSS := gross.Mul(RateEmployerSS).Round(2)
	net := gross.Sub(employeeSS).Sub(incomeTax)

	employeeID := baseline.ID
	row := Row{
		EmployeeID:      &employeeID,
		RawEmployeeName: baseline.FullName,
		Gross:           gross,
		EmployerSS:      employerSS,
		EmployeeSS:      employeeSS,
		IncomeTax:       incomeTax,
		Net:             net,
		ExtraData: map[string]string{
			"workedHours":   fmt.Sprintf("%.2f", workedHours),
			"expectedHours": fmt.Sprintf("%.2f", expected),
			"proportion":    fmt.Sprintf("%.4f", proportion),
		},
		Status: RowStatusPending,
	}
	return row
}

// ApplyAttendanceVerdict runs the shared ledger validation on a derived
// row and additionally escalates to warning when the employee worked less
// than the attendance threshold, or logged more hours than the period's
// business days can physically hold. One ordered status per row; the
// attendance messages ride along with whatever the ledger rules found.
func ApplyAttendanceVerdict(row Row, workedHours, expectedHours float64, businessDays int) RowVerdict {
	verdict := ValidateRow(row)
	proportion := WorkedProportion(workedHours, expectedHours)
	if proportion < LowAttendanceThreshold {
		escalate(&verdict, RowStatusWarning,
			fmt.Sprintf("worked %.2f of %.2f expected hours", workedHours, expectedHours))
	}
	if capacity := float64(businessDays) * 24; businessDays > 0 && workedHours > capacity {
		escalate(&verdict, RowStatusWarning,
			fmt.Sprintf("worked %.2f hours in a period of %d business days", workedHours, businessDays))
	}
	return verdict
}
