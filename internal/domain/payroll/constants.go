package payroll

const (
	BatchStatusGenerating = "generating"
	BatchStatusValid      = "valid"
	BatchStatusError      = "error"

	BatchSourceImport  = "import"
	BatchSourceDerived = "derived"

	RowStatusPending = "pending"
	RowStatusOK      = "ok"
	RowStatusWarning = "warning"
	RowStatusError   = "error"

	FieldEmployeeName = "employeeName"
	FieldExternalID   = "externalId"
	FieldGross        = "gross"
	FieldEmployerSS   = "employerSocialSecurity"
	FieldEmployeeSS   = "employeeSocialSecurity"
	FieldIncomeTax    = "incomeTaxWithholding"
	FieldNet          = "net"

	MsgEmployeeNotIdentified = "employee not identified"
	MsgNegativeNet           = "net cannot be negative"
)
