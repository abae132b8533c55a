package employee

import (
	"context"

	"github.com/cmlabs-hris/hris-console/internal/domain/session"
)

// Directory is the employee REST backend as seen by the console. Every call
// carries the caller's session explicitly.
type Directory interface {
	ListEmployees(ctx context.Context, sess *session.Session, page, limit int) (ListEmployeesResponse, error)
	UpdateEmployee(ctx context.Context, sess *session.Session, e Employee) (Employee, error)
	BulkUpdateEmployees(ctx context.Context, sess *session.Session, req BulkUpdateRequest) error
	CreateEmployee(ctx context.Context, sess *session.Session, req CreateEmployeeRequest) (Employee, error)
	DeleteEmployee(ctx context.Context, sess *session.Session, id ID) error
	BulkDeleteEmployees(ctx context.Context, sess *session.Session, ids []ID) error
	ExportPDF(ctx context.Context, sess *session.Session) ([]byte, error)
}
