package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BalanceTolerance absorbs sub-cent drift introduced by percentage-based
// decomposition without masking real data-entry mistakes.
var BalanceTolerance = decimal.RequireFromString("0.05")

// ValidateRow checks one canonical row against the double-entry rules and
// returns its verdict. Severity only escalates within a pass; messages
// accumulate and are never dropped when a stronger rule also fires.
//
// The accrual entry modeled: gross pay and the employer contribution are
// debits; the credits are the three disbursements plus the combined
// social-security liability.
func ValidateRow(row Row) RowVerdict {
	verdict := RowVerdict{RowID: row.ID, Status: RowStatusOK}

	if row.EmployeeID == nil || *row.EmployeeID == "" {
		escalate(&verdict, RowStatusWarning, MsgEmployeeNotIdentified)
	}

	debit := row.Gross.Add(row.EmployerSS)
	credit := row.EmployerSS.Add(row.EmployeeSS).Add(row.IncomeTax).Add(row.Net)
	if debit.Sub(credit).Abs().GreaterThan(BalanceTolerance) {
		escalate(&verdict, RowStatusError,
			fmt.Sprintf("ledger mismatch: debit %s vs credit %s", debit.StringFixed(2), credit.StringFixed(2)))
	}

	if row.Net.IsNegative() {
		escalate(&verdict, RowStatusError, MsgNegativeNet)
	}

	return verdict
}

// ValidateRows validates a batch of rows, one verdict per row.
// Validation failures are data, not errors.
func ValidateRows(rows []Row) []RowVerdict {
	verdicts := make([]RowVerdict, 0, len(rows))
	for _, row := range rows {
		verdicts = append(verdicts, ValidateRow(row))
	}
	return verdicts
}

func escalate(verdict *RowVerdict, status, message string) {
	if severity(status) > severity(verdict.Status) {
		verdict.Status = status
	}
	verdict.Messages = append(verdict.Messages, message)
}

func severity(status string) int {
	switch status {
	case RowStatusError:
		return 2
	case RowStatusWarning:
		return 1
	default:
		return 0
	}
}
