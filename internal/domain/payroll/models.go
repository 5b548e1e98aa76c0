package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch is the atomic unit of payroll rows for one period and source.
// Rows are replaced wholesale per batch, never patched field-by-field.
type Batch struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	Source    string    `json:"source"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	FileName  string    `json:"fileName,omitempty"`
	Status    string    `json:"status"`
	RowCount  int       `json:"rowCount"`
	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Row is the canonical payroll row: one employee's pay for one period.
// EmployeeID stays nil for unidentified employees, which is a state to
// reconcile manually, not an error. RawEmployeeName is kept even when the
// reference resolves, for audit traceability.
type Row struct {
	ID              string            `json:"id"`
	BatchID         string            `json:"batchId"`
	EmployeeID      *string           `json:"employeeId,omitempty"`
	RawEmployeeName string            `json:"rawEmployeeName"`
	ExternalID      string            `json:"externalId,omitempty"`
	Gross           decimal.Decimal   `json:"gross"`
	EmployerSS      decimal.Decimal   `json:"employerSocialSecurity"`
	EmployeeSS      decimal.Decimal   `json:"employeeSocialSecurity"`
	IncomeTax       decimal.Decimal   `json:"incomeTaxWithholding"`
	Net             decimal.Decimal   `json:"net"`
	ExtraData       map[string]string `json:"extraData,omitempty"`
	Status          string            `json:"status"`
	Messages        []string          `json:"messages,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
}

// RawRow is one spreadsheet row as an opaque column-name to cell map.
type RawRow map[string]string

// MappingRules maps canonical target fields to source column names.
// Targets with no configured source are left empty; partial mappings are
// expected while the user iterates on the configuration.
type MappingRules map[string]string

// RowVerdict is the outcome of validating one row.
type RowVerdict struct {
	RowID    string   `json:"rowId"`
	Status   string   `json:"status"`
	Messages []string `json:"messages,omitempty"`
}

// EmployeeBaseline is the salary configuration the deriver works from.
type EmployeeBaseline struct {
	ID                 string
	FullName           string
	WeeklyHours        *float64
	MonthlyGrossSalary *decimal.Decimal
	AnnualGrossSalary  *decimal.Decimal
	EntryDate          time.Time
	ExitDate           *time.Time
}
