package payroll

import "errors"

var (
	ErrBatchNotFound = errors.New("payroll batch not found")
	ErrBatchExists   = errors.New("an open payroll batch already exists for this period")
	ErrNoEmployees   = errors.New("no active employees for the period")
	ErrEmptyMapping  = errors.New("mapping rules are empty")
)
