package payroll

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func balancedRow() Row {
	employeeID := "emp-1"
	return Row{
		ID:         "row-1",
		EmployeeID: &employeeID,
		Gross:      decimal.RequireFromString("1000"),
		EmployerSS: decimal.RequireFromString("236"),
		EmployeeSS: decimal.RequireFromString("63.5"),
		IncomeTax:  decimal.RequireFromString("150"),
		Net:        decimal.RequireFromString("786.5"),
	}
}

func TestValidateBalancedRow(t *testing.T) {
	verdict := ValidateRow(balancedRow())
	if verdict.Status != RowStatusOK {
		t.Fatalf("expected ok, got %s (%v)", verdict.Status, verdict.Messages)
	}
	if len(verdict.Messages) != 0 {
		t.Fatalf("expected no messages, got %v", verdict.Messages)
	}
}

func TestValidateUnbalancedRow(t *testing.T) {
	row := balancedRow()
	row.Net = decimal.RequireFromString("800")

	verdict := ValidateRow(row)
	if verdict.Status != RowStatusError {
		t.Fatalf("expected error, got %s", verdict.Status)
	}
	if len(verdict.Messages) != 1 || !strings.Contains(verdict.Messages[0], "debit") {
		t.Fatalf("expected ledger mismatch message, got %v", verdict.Messages)
	}
}

func TestValidateWithinTolerance(t *testing.T) {
	// 0.04 drift stays inside the five-cent tolerance.
	row := balancedRow()
	row.Net = decimal.RequireFromString("786.54")

	verdict := ValidateRow(row)
	if verdict.Status != RowStatusOK {
		t.Fatalf("expected ok within tolerance, got %s (%v)", verdict.Status, verdict.Messages)
	}
}

func TestValidateNegativeNetAlwaysErrors(t *testing.T) {
	row := balancedRow()
	// Books balanced around a negative net: still an error.
	row.Gross = decimal.RequireFromString("0.0036")
	row.EmployeeSS = decimal.RequireFromString("0.0035")
	row.IncomeTax = decimal.RequireFromString("0.0011")
	row.EmployerSS = decimal.Zero
	row.Net = decimal.RequireFromString("-0.01")

	verdict := ValidateRow(row)
	if verdict.Status != RowStatusError {
		t.Fatalf("expected error for negative net, got %s", verdict.Status)
	}
	found := false
	for _, msg := range verdict.Messages {
		if msg == MsgNegativeNet {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %q message, got %v", MsgNegativeNet, verdict.Messages)
	}
}

func TestValidateUnidentifiedEmployeeIsWarning(t *testing.T) {
	row := balancedRow()
	row.EmployeeID = nil

	verdict := ValidateRow(row)
	if verdict.Status != RowStatusWarning {
		t.Fatalf("expected warning, got %s", verdict.Status)
	}
	if len(verdict.Messages) != 1 || verdict.Messages[0] != MsgEmployeeNotIdentified {
		t.Fatalf("expected %q, got %v", MsgEmployeeNotIdentified, verdict.Messages)
	}
}

func TestValidateMessagesAccumulate(t *testing.T) {
	row := balancedRow()
	row.EmployeeID = nil
	row.Net = decimal.RequireFromString("-50")

	verdict := ValidateRow(row)
	if verdict.Status != RowStatusError {
		t.Fatalf("expected error, got %s", verdict.Status)
	}
	// Warning message, ledger mismatch and negative net all survive.
	if len(verdict.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %v", verdict.Messages)
	}
}

func TestValidateRowsOnePerRow(t *testing.T) {
	rows := []Row{balancedRow(), balancedRow()}
	rows[1].ID = "row-2"
	rows[1].EmployeeID = nil

	verdicts := ValidateRows(rows)
	if len(verdicts) != 2 {
		t.Fatalf("expected 2 verdicts, got %d", len(verdicts))
	}
	if verdicts[0].RowID != "row-1" || verdicts[1].RowID != "row-2" {
		t.Fatalf("verdicts not aligned to rows: %+v", verdicts)
	}
	if verdicts[0].Status != RowStatusOK || verdicts[1].Status != RowStatusWarning {
		t.Fatalf("unexpected statuses: %s, %s", verdicts[0].Status, verdicts[1].Status)
	}
}
