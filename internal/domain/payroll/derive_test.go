package payroll

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func floatPtr(v float64) *float64 { return &v }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestExpectedMonthlyHours(t *testing.T) {
	if got, want := ExpectedMonthlyHours(floatPtr(40)), 40*WeeksPerMonth; got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := ExpectedMonthlyHours(nil); got != DefaultMonthlyHours {
		t.Fatalf("expected fallback %v, got %v", DefaultMonthlyHours, got)
	}
	// A configured zero falls back as well.
	if got := ExpectedMonthlyHours(floatPtr(0)); got != DefaultMonthlyHours {
		t.Fatalf("expected fallback %v for zero weekly hours, got %v", DefaultMonthlyHours, got)
	}
}

func TestMonthlySalaryFallbacks(t *testing.T) {
	baseline := EmployeeBaseline{MonthlyGrossSalary: decPtr("2000"), AnnualGrossSalary: decPtr("30000")}
	if got := MonthlySalary(baseline); !got.Equal(decimal.RequireFromString("2000")) {
		t.Fatalf("expected monthly salary to win, got %s", got)
	}

	baseline = EmployeeBaseline{AnnualGrossSalary: decPtr("30000")}
	if got := MonthlySalary(baseline); !got.Equal(decimal.RequireFromString("2500")) {
		t.Fatalf("expected annual/12, got %s", got)
	}

	baseline = EmployeeBaseline{}
	if got := MonthlySalary(baseline); !got.IsZero() {
		t.Fatalf("expected zero without any salary, got %s", got)
	}
}

func TestDeriveRowCapsProportion(t *testing.T) {
	baseline := EmployeeBaseline{
		ID:                 "emp-1",
		FullName:           "Ana García",
		WeeklyHours:        floatPtr(40),
		MonthlyGrossSalary: decPtr("2000"),
	}

	// 300 worked hours against 173.2 expected: raw proportion ~1.732,
	// capped at 1.10.
	row := DeriveRow(baseline, 300)
	if !row.Gross.Equal(decimal.RequireFromString("2200")) {
		t.Fatalf("expected capped gross 2200, got %s", row.Gross)
	}
	if row.EmployeeID == nil || *row.EmployeeID != "emp-1" {
		t.Fatal("expected resolved employee reference")
	}
}

func TestDeriveRowDecomposition(t *testing.T) {
	baseline := EmployeeBaseline{
		ID:                 "emp-1",
		WeeklyHours:        floatPtr(40),
		MonthlyGrossSalary: decPtr("2000"),
	}

	row := DeriveRow(baseline, 173.2)
	if !row.Gross.Equal(decimal.RequireFromString("2000")) {
		t.Fatalf("expected gross 2000 at full attendance, got %s", row.Gross)
	}
	if !row.EmployeeSS.Equal(decimal.RequireFromString("127")) {
		t.Fatalf("expected employee SS 127, got %s", row.EmployeeSS)
	}
	if !row.IncomeTax.Equal(decimal.RequireFromString("300")) {
		t.Fatalf("expected income tax 300, got %s", row.IncomeTax)
	}
	if !row.EmployerSS.Equal(decimal.RequireFromString("472")) {
		t.Fatalf("expected employer SS 472, got %s", row.EmployerSS)
	}
	if !row.Net.Equal(decimal.RequireFromString("1573")) {
		t.Fatalf("expected net 1573, got %s", row.Net)
	}

	// The decomposition keeps the accrual entry in balance.
	verdict := ValidateRow(row)
	if verdict.Status != RowStatusOK {
		t.Fatalf("expected derived row to validate ok, got %s (%v)", verdict.Status, verdict.Messages)
	}
}

func TestDeriveRowZeroHours(t *testing.T) {
	baseline := EmployeeBaseline{ID: "emp-1", MonthlyGrossSalary: decPtr("2000")}
	row := DeriveRow(baseline, 0)
	if !row.Gross.IsZero() {
		t.Fatalf("expected zero gross with no worked hours, got %s", row.Gross)
	}
	if !row.Net.IsZero() {
		t.Fatalf("expected zero net with no worked hours, got %s", row.Net)
	}
}

func TestApplyAttendanceVerdictLowAttendance(t *testing.T) {
	baseline := EmployeeBaseline{
		ID:                 "emp-1",
		WeeklyHours:        floatPtr(40),
		MonthlyGrossSalary: decPtr("2000"),
	}

	// 50 of 173.2 hours: proportion ~0.2887, below the 80% threshold.
	row := DeriveRow(baseline, 50)
	verdict := ApplyAttendanceVerdict(row, 50, ExpectedMonthlyHours(baseline.WeeklyHours), 21)
	if verdict.Status != RowStatusWarning {
		t.Fatalf("expected warning for low attendance, got %s (%v)", verdict.Status, verdict.Messages)
	}
	if len(verdict.Messages) == 0 {
		t.Fatal("expected a low-attendance message")
	}
}

func TestApplyAttendanceVerdictOverCapacity(t *testing.T) {
	baseline := EmployeeBaseline{
		ID:                 "emp-1",
		WeeklyHours:        floatPtr(40),
		MonthlyGrossSalary: decPtr("2000"),
	}

	// 600 logged hours cannot fit into 21 business days (504 hours even
	// around the clock). The books still balance, so this is a warning,
	// not an error.
	row := DeriveRow(baseline, 600)
	verdict := ApplyAttendanceVerdict(row, 600, ExpectedMonthlyHours(baseline.WeeklyHours), 21)
	if verdict.Status != RowStatusWarning {
		t.Fatalf("expected warning for impossible hours, got %s (%v)", verdict.Status, verdict.Messages)
	}
	found := false
	for _, msg := range verdict.Messages {
		if strings.Contains(msg, "business days") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a capacity message, got %v", verdict.Messages)
	}
}

func TestApplyAttendanceVerdictFullAttendance(t *testing.T) {
	baseline := EmployeeBaseline{
		ID:                 "emp-1",
		WeeklyHours:        floatPtr(40),
		MonthlyGrossSalary: decPtr("2000"),
	}

	row := DeriveRow(baseline, 173.2)
	verdict := ApplyAttendanceVerdict(row, 173.2, ExpectedMonthlyHours(baseline.WeeklyHours), 21)
	if verdict.Status != RowStatusOK {
		t.Fatalf("expected ok at full attendance, got %s (%v)", verdict.Status, verdict.Messages)
	}
}
