package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestApplyMapping(t *testing.T) {
	rawRows := []RawRow{
		{"Col A": "Ana García", "Col B": "1.500,00", "Col F": "1.200,00"},
	}
	rules := MappingRules{
		FieldEmployeeName: "Col A",
		FieldGross:        "Col B",
		FieldNet:          "Col F",
	}

	rows := ApplyMapping(rawRows, rules, "batch-1")
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if row.BatchID != "batch-1" {
		t.Fatalf("expected batch-1, got %s", row.BatchID)
	}
	if row.RawEmployeeName != "Ana García" {
		t.Fatalf("expected employee name passthrough, got %q", row.RawEmployeeName)
	}
	if !row.Gross.Equal(decimal.RequireFromString("1500")) {
		t.Fatalf("expected gross 1500, got %s", row.Gross)
	}
	if !row.Net.Equal(decimal.RequireFromString("1200")) {
		t.Fatalf("expected net 1200, got %s", row.Net)
	}
	if !row.EmployerSS.IsZero() || !row.EmployeeSS.IsZero() || !row.IncomeTax.IsZero() {
		t.Fatal("expected unmapped monetary fields to be zero")
	}
	if row.Status != RowStatusPending {
		t.Fatalf("expected pending before validation, got %s", row.Status)
	}
}

func TestApplyMappingKeepsOriginalRow(t *testing.T) {
	raw := RawRow{"Col B": "100,00", "Unmapped": "kept anyway"}
	rows := ApplyMapping([]RawRow{raw}, MappingRules{FieldGross: "Col B"}, "batch-1")

	if rows[0].ExtraData["Unmapped"] != "kept anyway" {
		t.Fatal("expected full original row retained in ExtraData")
	}
	if rows[0].ExtraData["Col B"] != "100,00" {
		t.Fatal("expected mapped source cell retained in ExtraData")
	}
}

func TestApplyMappingMissingColumn(t *testing.T) {
	// The rule points at a column the file does not have.
	rows := ApplyMapping([]RawRow{{"Other": "x"}}, MappingRules{FieldGross: "Col B"}, "batch-1")
	if !rows[0].Gross.IsZero() {
		t.Fatalf("expected zero gross for missing column, got %s", rows[0].Gross)
	}
	if rows[0].EmployeeID != nil {
		t.Fatal("expected no employee reference from mapping")
	}
}
