package payroll

import (
	"context"
	"time"

	"nomina/internal/domain/attendance"
)

// StoreAPI is the persistence and collaborator boundary of the engine:
// batch/row storage plus the employee directory and the attendance source.
type StoreAPI interface {
	CreateBatch(ctx context.Context, batch Batch) (string, error)
	GetBatch(ctx context.Context, batchID string) (Batch, error)
	CountBatches(ctx context.Context, companyID string) (int, error)
	ListBatches(ctx context.Context, companyID string, limit, offset int) ([]Batch, error)
	FindOpenBatch(ctx context.Context, companyID string, year, month int) (string, error)
	SetBatchStatus(ctx context.Context, batchID, status string) error
	ReplaceBatchRows(ctx context.Context, batchID string, rows []Row, batchStatus string) error
	DeleteBatch(ctx context.Context, batchID string) error

	CountRows(ctx context.Context, batchID string) (int, error)
	ListRows(ctx context.Context, batchID string, limit, offset int) ([]Row, error)
	UpdateRowStatus(ctx context.Context, rowID, status string, messages []string) error

	FindEmployeeRef(ctx context.Context, companyID, externalID, name string) (string, error)
	ListActiveEmployees(ctx context.Context, companyID string, periodStart, periodEnd time.Time) ([]EmployeeBaseline, error)
	ListDailySummaries(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.DailySummary, error)
}
