package payroll

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"nomina/internal/domain/attendance"
	"nomina/internal/domain/calendar"
)

// Recorder is the audit sink. Implementations are fire-and-forget: a
// failed audit write must never fail the payroll operation.
type Recorder interface {
	Record(ctx context.Context, action, entityType, entityID, actorID string, metadata any)
}

type Service struct {
	store    StoreAPI
	audit    Recorder
	holidays calendar.HolidayProvider
}

func NewService(store StoreAPI, audit Recorder, holidays calendar.HolidayProvider) *Service {
	return &Service{store: store, audit: audit, holidays: holidays}
}

// ListBatches returns a page of a company's batches plus the total count.
func (s *Service) ListBatches(ctx context.Context, companyID string, limit, offset int) ([]Batch, int, error) {
	total, err := s.store.CountBatches(ctx, companyID)
	if err != nil {
		return nil, 0, err
	}
	batches, err := s.store.ListBatches(ctx, companyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return batches, total, nil
}

func (s *Service) GetBatch(ctx context.Context, batchID string) (Batch, error) {
	return s.store.GetBatch(ctx, batchID)
}

// ListRows returns a page of a batch's rows plus the total count. The
// batch is looked up first so a missing batch surfaces as ErrBatchNotFound
// rather than an empty page.
func (s *Service) ListRows(ctx context.Context, batchID string, limit, offset int) ([]Row, int, error) {
	if _, err := s.store.GetBatch(ctx, batchID); err != nil {
		return nil, 0, err
	}
	total, err := s.store.CountRows(ctx, batchID)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.store.ListRows(ctx, batchID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ImportRows maps raw spreadsheet rows onto canonical payroll rows,
// resolves employee references, validates every row and persists the
// batch atomically. Every row is stored, failing ones included, so the
// audit trail keeps what was received next to what was computed.
func (s *Service) ImportRows(ctx context.Context, companyID, fileName string, rawRows []RawRow, rules MappingRules, year, month int, actorID string) (Batch, []RowVerdict, error) {
	if len(rules) == 0 {
		return Batch{}, nil, ErrEmptyMapping
	}

	batchID, err := s.store.CreateBatch(ctx, Batch{
		CompanyID: companyID,
		Source:    BatchSourceImport,
		Year:      year,
		Month:     month,
		FileName:  fileName,
		Status:    BatchStatusGenerating,
		CreatedBy: actorID,
	})
	if err != nil {
		return Batch{}, nil, fmt.Errorf("create batch: %w", err)
	}

	rows := ApplyMapping(rawRows, rules, batchID)
	for i := range rows {
		employeeID, err := s.store.FindEmployeeRef(ctx, companyID, rows[i].ExternalID, rows[i].RawEmployeeName)
		if err != nil {
			s.failBatch(ctx, batchID)
			return Batch{}, nil, fmt.Errorf("resolve employee: %w", err)
		}
		if employeeID != "" {
			rows[i].EmployeeID = &employeeID
		}
	}

	verdicts := ValidateRows(rows)
	for i := range rows {
		rows[i].Status = verdicts[i].Status
		rows[i].Messages = verdicts[i].Messages
	}

	if err := s.store.ReplaceBatchRows(ctx, batchID, rows, BatchStatusValid); err != nil {
		s.failBatch(ctx, batchID)
		return Batch{}, nil, fmt.Errorf("replace batch rows: %w", err)
	}

	s.audit.Record(ctx, "payroll.import", "payroll_batch", batchID, actorID, map[string]any{
		"fileName": fileName,
		"rowCount": len(rows),
	})

	batch, err := s.store.GetBatch(ctx, batchID)
	if err != nil {
		return Batch{}, nil, err
	}
	return batch, verdicts, nil
}

// DeriveFromAttendance produces a full payroll batch for every active
// employee of a company for the given month, sourced purely from
// attendance. It refuses to run while an open batch for the same period
// exists; repeated derivation is not an upsert.
func (s *Service) DeriveFromAttendance(ctx context.Context, year, month int, companyID, actorID string) (Batch, error) {
	existing, err := s.store.FindOpenBatch(ctx, companyID, year, month)
	if err != nil {
		return Batch{}, err
	}
	if existing != "" {
		return Batch{}, fmt.Errorf("%w: %s", ErrBatchExists, existing)
	}

	periodStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, 0).Add(-time.Second)

	batchID, err := s.store.CreateBatch(ctx, Batch{
		CompanyID: companyID,
		Source:    BatchSourceDerived,
		Year:      year,
		Month:     month,
		Status:    BatchStatusGenerating,
		CreatedBy: actorID,
	})
	if err != nil {
		return Batch{}, fmt.Errorf("create batch: %w", err)
	}

	employees, err := s.store.ListActiveEmployees(ctx, companyID, periodStart, periodEnd)
	if err != nil {
		s.failBatch(ctx, batchID)
		return Batch{}, fmt.Errorf("list employees: %w", err)
	}
	if len(employees) == 0 {
		s.failBatch(ctx, batchID)
		return Batch{}, ErrNoEmployees
	}

	businessDays := calendar.CountBusinessDays(periodStart, periodEnd, s.holidays)

	now := time.Now().UTC()
	rows := make([]Row, 0, len(employees))
	for _, employee := range employees {
		summaries, err := s.store.ListDailySummaries(ctx, employee.ID, periodStart, periodEnd)
		if err != nil {
			// One unreachable attendance source poisons the whole batch:
			// a partial payroll is worse than a retried one.
			s.failBatch(ctx, batchID)
			return Batch{}, fmt.Errorf("attendance for employee %s: %w", employee.ID, err)
		}

		workedHours := attendance.SumHours(summaries)
		row := DeriveRow(employee, workedHours)
		row.ID = uuid.NewString()
		row.BatchID = batchID
		row.CreatedAt = now
		row.ExtraData["businessDays"] = fmt.Sprintf("%d", businessDays)

		verdict := ApplyAttendanceVerdict(row, workedHours, ExpectedMonthlyHours(employee.WeeklyHours), businessDays)
		row.Status = verdict.Status
		row.Messages = verdict.Messages
		rows = append(rows, row)
	}

	if err := s.store.ReplaceBatchRows(ctx, batchID, rows, BatchStatusValid); err != nil {
		s.failBatch(ctx, batchID)
		return Batch{}, fmt.Errorf("replace batch rows: %w", err)
	}

	s.audit.Record(ctx, "payroll.derive", "payroll_batch", batchID, actorID, map[string]any{
		"year":     year,
		"month":    month,
		"rowCount": len(rows),
	})

	return s.store.GetBatch(ctx, batchID)
}

// Revalidate re-runs the ledger rules over every row of a batch and
// persists the refreshed verdicts. Manual edits do not re-trigger
// validation on their own; this is the explicit entry point for it.
func (s *Service) Revalidate(ctx context.Context, batchID, actorID string) ([]RowVerdict, error) {
	if _, err := s.store.GetBatch(ctx, batchID); err != nil {
		return nil, err
	}

	total, err := s.store.CountRows(ctx, batchID)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListRows(ctx, batchID, total, 0)
	if err != nil {
		return nil, err
	}

	verdicts := ValidateRows(rows)
	for i, verdict := range verdicts {
		if err := s.store.UpdateRowStatus(ctx, rows[i].ID, verdict.Status, verdict.Messages); err != nil {
			return nil, err
		}
	}

	s.audit.Record(ctx, "payroll.revalidate", "payroll_batch", batchID, actorID, map[string]any{
		"rowCount": len(rows),
	})
	return verdicts, nil
}

func (s *Service) DeleteBatch(ctx context.Context, batchID, actorID string) error {
	if err := s.store.DeleteBatch(ctx, batchID); err != nil {
		return err
	}
	s.audit.Record(ctx, "payroll.delete", "payroll_batch", batchID, actorID, nil)
	return nil
}

// ExportBatchPDF renders a one-page summary of a batch to w.
func (s *Service) ExportBatchPDF(ctx context.Context, batchID string, w io.Writer) error {
	batch, err := s.store.GetBatch(ctx, batchID)
	if err != nil {
		return err
	}
	total, err := s.store.CountRows(ctx, batchID)
	if err != nil {
		return err
	}
	rows, err := s.store.ListRows(ctx, batchID, total, 0)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(60, 10, "Payroll batch summary")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Batch %s  %04d-%02d  source: %s  status: %s", batch.ID, batch.Year, batch.Month, batch.Source, batch.Status))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(70, 7, "Employee", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Gross", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Employer SS", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Employee SS", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Income tax", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Net", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 7, "Status", "1", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		pdf.CellFormat(70, 6, row.RawEmployeeName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, row.Gross.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, row.EmployerSS.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, row.EmployeeSS.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, row.IncomeTax.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, row.Net.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, row.Status, "1", 1, "L", false, 0, "")
	}

	return pdf.Output(w)
}

func (s *Service) failBatch(ctx context.Context, batchID string) {
	if err := s.store.SetBatchStatus(ctx, batchID, BatchStatusError); err != nil {
		slog.Warn("mark batch failed", "batchId", batchID, "err", err)
	}
}
