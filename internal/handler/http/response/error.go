package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hris-console/internal/domain/auth"
	"github.com/cmlabs-hris/hris-console/internal/domain/employee"
	"github.com/cmlabs-hris/hris-console/internal/pkg/validator"
)

// HandleError maps domain errors to JSON responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Session and login errors
	if msg := auth.SessionMessage(err); msg != "" {
		Unauthorized(w, msg)
		return
	}
	var authErr *auth.AuthError
	if errors.As(err, &authErr) {
		Unauthorized(w, auth.LoginMessage(err))
		return
	}

	// Failed backend calls
	if msg := employee.Message(err); msg != "" && !errors.Is(err, employee.ErrValidationBlocked) {
		BadGateway(w, msg)
		return
	}

	switch {
	case errors.Is(err, employee.ErrValidationBlocked):
		ValidationError(w, nil)
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrUnknownField):
		BadRequest(w, "Unknown field", nil)
	case errors.Is(err, employee.ErrInvalidSalary):
		BadRequest(w, "Salary must be a number", map[string]string{employee.FieldSalary: "must be a number"})
	case errors.Is(err, employee.ErrPageOutOfRange):
		BadRequest(w, "Page out of range", nil)
	case errors.Is(err, employee.ErrNoEditSession):
		Conflict(w, "No record is being edited")
	case errors.Is(err, employee.ErrNothingSelected):
		Conflict(w, "No records selected")
	case errors.Is(err, employee.ErrNoPendingDelete):
		Conflict(w, "No delete awaiting confirmation")
	case errors.Is(err, employee.ErrFetchInFlight):
		Conflict(w, "A page is already loading")
	case errors.Is(err, employee.ErrBusy):
		Conflict(w, "Another change is still being saved")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
