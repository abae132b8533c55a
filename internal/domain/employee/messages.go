package employee

import "errors"

const (
	MsgFetchFailed       = "Failed to fetch employee data. Please try again later."
	MsgUpdateFailed      = "Failed to update employee data. Please try again."
	MsgCreateFailed      = "Failed to create employee. Please try again."
	MsgDeleteFailed      = "Failed to delete employee data. Please try again."
	MsgExportFailed      = "Failed to generate PDF. Please try again."
	MsgValidationBlocked = "Please fill in all required fields."
)

// Message returns the user-facing text of a failed list operation, or "" when
// err is not one of them.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrValidationBlocked):
		return MsgValidationBlocked
	case errors.Is(err, ErrFetchFailed):
		return MsgFetchFailed
	case errors.Is(err, ErrUpdateFailed):
		return MsgUpdateFailed
	case errors.Is(err, ErrCreateFailed):
		return MsgCreateFailed
	case errors.Is(err, ErrDeleteFailed):
		return MsgDeleteFailed
	case errors.Is(err, ErrExportFailed):
		return MsgExportFailed
	}
	return ""
}
