package payroll

import (
	"time"

	"github.com/google/uuid"

	"nomina/internal/domain/money"
)

// MonetaryFields are the canonical targets that run through the money
// parser during mapping.
var MonetaryFields = []string{
	FieldGross,
	FieldEmployerSS,
	FieldEmployeeSS,
	FieldIncomeTax,
	FieldNet,
}

// ApplyMapping converts raw spreadsheet rows into canonical payroll rows
// using the configured field-to-column dictionary. Monetary targets run
// through the money parser; name and external-id targets pass through as
// strings. Every row starts as pending and keeps the full original row in
// ExtraData; validation is a separate explicit step.
func ApplyMapping(rawRows []RawRow, rules MappingRules, batchID string) []Row {
	rows := make([]Row, 0, len(rawRows))
	now := time.Now().UTC()

	for _, raw := range rawRows {
		row := Row{
			ID:        uuid.NewString(),
			BatchID:   batchID,
			ExtraData: raw,
			Status:    RowStatusPending,
			CreatedAt: now,
		}

		row.RawEmployeeName = lookup(raw, rules, FieldEmployeeName)
		row.ExternalID = lookup(raw, rules, FieldExternalID)

		row.Gross = money.Parse(lookupAny(raw, rules, FieldGross))
		row.EmployerSS = money.Parse(lookupAny(raw, rules, FieldEmployerSS))
		row.EmployeeSS = money.Parse(lookupAny(raw, rules, FieldEmployeeSS))
		row.IncomeTax = money.Parse(lookupAny(raw, rules, FieldIncomeTax))
		row.Net = money.Parse(lookupAny(raw, rules, FieldNet))

		rows = append(rows, row)
	}
	return rows
}

func lookup(raw RawRow, rules MappingRules, target string) string {
	column, ok := rules[target]
	if !ok {
		return ""
	}
	return raw[column]
}

func lookupAny(raw RawRow, rules MappingRules, target string) any {
	column, ok := rules[target]
	if !ok {
		return nil
	}
	value, ok := raw[column]
	if !ok {
		return nil
	}
	return value
}
