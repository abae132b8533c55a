package employee

import "errors"

var (
	ErrFetchFailed       = errors.New("failed to fetch employee data")
	ErrUpdateFailed      = errors.New("failed to update employee data")
	ErrCreateFailed      = errors.New("failed to create employee")
	ErrDeleteFailed      = errors.New("failed to delete employee data")
	ErrExportFailed      = errors.New("failed to generate PDF")
	ErrValidationBlocked = errors.New("required fields are empty")
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrUnknownField      = errors.New("unknown employee field")
	ErrInvalidSalary     = errors.New("salary must be a non-negative number")
	ErrNoEditSession     = errors.New("no edit in progress")
	ErrNothingSelected   = errors.New("no employees selected")
	ErrNoPendingDelete   = errors.New("no delete awaiting confirmation")
	ErrFetchInFlight     = errors.New("a page load is already in progress")
	ErrPageOutOfRange    = errors.New("page out of range")
	ErrBusy              = errors.New("another change is still being saved")
)
