package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nomina/internal/domain/attendance"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateBatch(ctx context.Context, batch Batch) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_batches (company_id, source, year, month, file_name, status, created_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, batch.CompanyID, batch.Source, batch.Year, batch.Month, batch.FileName, batch.Status, nullIfEmpty(batch.CreatedBy)).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetBatch(ctx context.Context, batchID string) (Batch, error) {
	var batch Batch
	err := s.DB.QueryRow(ctx, `
    SELECT b.id, b.company_id, b.source, b.year, b.month, COALESCE(b.file_name, ''), b.status,
           COALESCE(b.created_by::text, ''), b.created_at,
           (SELECT COUNT(1) FROM payroll_rows r WHERE r.batch_id = b.id)
    FROM payroll_batches b
    WHERE b.id = $1
  `, batchID).Scan(&batch.ID, &batch.CompanyID, &batch.Source, &batch.Year, &batch.Month,
		&batch.FileName, &batch.Status, &batch.CreatedBy, &batch.CreatedAt, &batch.RowCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return Batch{}, ErrBatchNotFound
	}
	return batch, err
}

func (s *Store) CountBatches(ctx context.Context, companyID string) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM payroll_batches WHERE company_id = $1", companyID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ListBatches(ctx context.Context, companyID string, limit, offset int) ([]Batch, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT b.id, b.company_id, b.source, b.year, b.month, COALESCE(b.file_name, ''), b.status,
           COALESCE(b.created_by::text, ''), b.created_at,
           (SELECT COUNT(1) FROM payroll_rows r WHERE r.batch_id = b.id)
    FROM payroll_batches b
    WHERE b.company_id = $1
    ORDER BY b.created_at DESC
    LIMIT $2 OFFSET $3
  `, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		var batch Batch
		if err := rows.Scan(&batch.ID, &batch.CompanyID, &batch.Source, &batch.Year, &batch.Month,
			&batch.FileName, &batch.Status, &batch.CreatedBy, &batch.CreatedAt, &batch.RowCount); err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

func (s *Store) FindOpenBatch(ctx context.Context, companyID string, year, month int) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    SELECT id
    FROM payroll_batches
    WHERE company_id = $1 AND year = $2 AND month = $3 AND status <> $4
    ORDER BY created_at DESC
    LIMIT 1
  `, companyID, year, month, BatchStatusError).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) SetBatchStatus(ctx context.Context, batchID, status string) error {
	_, err := s.DB.Exec(ctx, "UPDATE payroll_batches SET status = $1 WHERE id = $2", status, batchID)
	return err
}

// ReplaceBatchRows swaps the full row set of a batch and flips its status
// in one transaction: a crash mid-way never leaves partial rows under a
// done status.
func (s *Store) ReplaceBatchRows(ctx context.Context, batchID string, rows []Row, batchStatus string) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DELETE FROM payroll_rows WHERE batch_id = $1", batchID); err != nil {
		return err
	}

	for _, row := range rows {
		extraJSON, err := json.Marshal(row.ExtraData)
		if err != nil {
			extraJSON = []byte("{}")
		}
		messagesJSON, err := json.Marshal(row.Messages)
		if err != nil {
			messagesJSON = []byte("[]")
		}
		if _, err := tx.Exec(ctx, `
      INSERT INTO payroll_rows
        (id, batch_id, employee_id, raw_employee_name, external_id,
         gross, employer_ss, employee_ss, income_tax, net,
         extra_data, status, messages)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    `, row.ID, batchID, row.EmployeeID, row.RawEmployeeName, row.ExternalID,
			row.Gross, row.EmployerSS, row.EmployeeSS, row.IncomeTax, row.Net,
			extraJSON, row.Status, messagesJSON); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, "UPDATE payroll_batches SET status = $1 WHERE id = $2", batchStatus, batchID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) DeleteBatch(ctx context.Context, batchID string) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DELETE FROM payroll_rows WHERE batch_id = $1", batchID); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM payroll_batches WHERE id = $1", batchID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBatchNotFound
	}
	return tx.Commit(ctx)
}

func (s *Store) CountRows(ctx context.Context, batchID string) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM payroll_rows WHERE batch_id = $1", batchID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ListRows(ctx context.Context, batchID string, limit, offset int) ([]Row, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, batch_id, employee_id::text, raw_employee_name, COALESCE(external_id, ''),
           gross, employer_ss, employee_ss, income_tax, net,
           extra_data, status, messages, created_at
    FROM payroll_rows
    WHERE batch_id = $1
    ORDER BY raw_employee_name, created_at
    LIMIT $2 OFFSET $3
  `, batchID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var row Row
		var extraJSON, messagesJSON []byte
		if err := rows.Scan(&row.ID, &row.BatchID, &row.EmployeeID, &row.RawEmployeeName, &row.ExternalID,
			&row.Gross, &row.EmployerSS, &row.EmployeeSS, &row.IncomeTax, &row.Net,
			&extraJSON, &row.Status, &messagesJSON, &row.CreatedAt); err != nil {
			return nil, err
		}
		if len(extraJSON) > 0 {
			if err := json.Unmarshal(extraJSON, &row.ExtraData); err != nil {
				row.ExtraData = nil
			}
		}
		if len(messagesJSON) > 0 {
			if err := json.Unmarshal(messagesJSON, &row.Messages); err != nil {
				row.Messages = nil
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *Store) UpdateRowStatus(ctx context.Context, rowID, status string, messages []string) error {
	messagesJSON, err := json.Marshal(messages)
	if err != nil {
		messagesJSON = []byte("[]")
	}
	_, execErr := s.DB.Exec(ctx, `
    UPDATE payroll_rows SET status = $1, messages = $2 WHERE id = $3
  `, status, messagesJSON, rowID)
	return execErr
}

// FindEmployeeRef resolves a raw row to an employee by external id first,
// then by exact name match. No match returns an empty id, not an error.
func (s *Store) FindEmployeeRef(ctx context.Context, companyID, externalID, name string) (string, error) {
	var id string
	if externalID != "" {
		err := s.DB.QueryRow(ctx, `
      SELECT id FROM employees WHERE company_id = $1 AND external_id = $2
    `, companyID, externalID).Scan(&id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return "", err
		}
	}
	if name == "" {
		return "", nil
	}
	err := s.DB.QueryRow(ctx, `
    SELECT id FROM employees WHERE company_id = $1 AND lower(full_name) = lower($2)
  `, companyID, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListActiveEmployees(ctx context.Context, companyID string, periodStart, periodEnd time.Time) ([]EmployeeBaseline, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, full_name, weekly_hours, monthly_gross_salary, annual_gross_salary, entry_date, exit_date
    FROM employees
    WHERE company_id = $1
      AND entry_date <= $2
      AND (exit_date IS NULL OR exit_date >= $3)
    ORDER BY full_name
  `, companyID, periodEnd, periodStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EmployeeBaseline
	for rows.Next() {
		var employee EmployeeBaseline
		if err := rows.Scan(&employee.ID, &employee.FullName, &employee.WeeklyHours,
			&employee.MonthlyGrossSalary, &employee.AnnualGrossSalary,
			&employee.EntryDate, &employee.ExitDate); err != nil {
			return nil, err
		}
		out = append(out, employee)
	}
	return out, nil
}

func (s *Store) ListDailySummaries(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.DailySummary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id, day, total_hours
    FROM attendance_days
    WHERE employee_id = $1 AND day >= $2 AND day <= $3
    ORDER BY day
  `, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []attendance.DailySummary
	for rows.Next() {
		var summary attendance.DailySummary
		if err := rows.Scan(&summary.EmployeeID, &summary.Date, &summary.TotalHours); err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
