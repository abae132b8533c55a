package employee

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-console/internal/pkg/validator"
)

type ListEmployeesResponse struct {
	Data       []Employee `json:"data"`
	TotalCount int        `json:"totalCount"`
}

type BulkUpdateItem struct {
	ID        ID       `json:"id"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	EmailID   string   `json:"emailId"`
	Salary    *float64 `json:"salary,omitempty"`
}

type BulkUpdateRequest struct {
	Employees []BulkUpdateItem `json:"employees"`
}

type BulkDeleteRequest struct {
	IDs []ID `json:"ids"`
}

type CreateEmployeeRequest struct {
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	EmailID   string     `json:"emailId"`
	Salary    *float64   `json:"salary,omitempty"`
	CreatedAt *Timestamp `json:"createdAt,omitempty"`
	UpdatedAt *Timestamp `json:"updatedAt,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = validator.Required(errs, FieldFirstName, r.FirstName)
	errs = validator.Required(errs, FieldLastName, r.LastName)
	errs = validator.Required(errs, FieldEmailID, r.EmailID)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Form holds editable fields as typed text. It is the shadow buffer of a
// single-record edit and the body of the create draft.
type Form struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	EmailID   string `json:"emailId"`
	Salary    string `json:"salary"`
}

func FormFrom(e Employee) Form {
	return Form{
		FirstName: e.FirstName,
		LastName:  e.LastName,
		EmailID:   e.EmailID,
		Salary:    FormatSalary(e.Salary),
	}
}

func (f Form) Get(field string) string {
	switch field {
	case FieldFirstName:
		return f.FirstName
	case FieldLastName:
		return f.LastName
	case FieldEmailID:
		return f.EmailID
	case FieldSalary:
		return f.Salary
	}
	return ""
}

func (f *Form) Set(field, value string) error {
	switch field {
	case FieldFirstName:
		f.FirstName = value
	case FieldLastName:
		f.LastName = value
	case FieldEmailID:
		f.EmailID = value
	case FieldSalary:
		f.Salary = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Validate checks required fields; salary is required only when requireSalary is set.
func (f Form) Validate(requireSalary bool) error {
	var errs validator.ValidationErrors

	errs = validator.Required(errs, FieldFirstName, f.FirstName)
	errs = validator.Required(errs, FieldLastName, f.LastName)
	errs = validator.Required(errs, FieldEmailID, f.EmailID)
	if requireSalary {
		errs = validator.Required(errs, FieldSalary, f.Salary)
	}
	if !errs.Has(FieldSalary) && !validator.IsEmpty(f.Salary) {
		if _, ok := validator.ParseAmount(f.Salary); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   FieldSalary,
				Message: "salary must be a non-negative number",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (f Form) salary() *float64 {
	if amount, ok := validator.ParseAmount(f.Salary); ok {
		return &amount
	}
	return nil
}

// Apply produces the full record to send on save: base with the form's fields,
// salary re-parsed to a number and the updated timestamp refreshed.
func (f Form) Apply(base Employee, now time.Time) Employee {
	out := base.Clone()
	out.FirstName = f.FirstName
	out.LastName = f.LastName
	out.EmailID = f.EmailID
	out.Salary = f.salary()
	out.UpdatedAt = NewTimestamp(now)
	return out
}

// Draft is the not-yet-submitted record of the create form.
type Draft struct {
	Form
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewDraft(now time.Time) Draft {
	return Draft{CreatedAt: now, UpdatedAt: now}
}

// Ready reports whether every required field holds a value.
func (d Draft) Ready(requireSalary bool) bool {
	return d.Validate(requireSalary) == nil
}

// Request builds the create body with both timestamps set to submission time.
func (d Draft) Request(now time.Time) CreateEmployeeRequest {
	return CreateEmployeeRequest{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		EmailID:   d.EmailID,
		Salary:    d.salary(),
		CreatedAt: NewTimestamp(now),
		UpdatedAt: NewTimestamp(now),
	}
}

// BulkItems collects the editable fields of the records whose ids are selected,
// in list order.
func BulkItems(list []Employee, selected []ID) []BulkUpdateItem {
	want := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		want[id.String()] = struct{}{}
	}

	items := make([]BulkUpdateItem, 0, len(selected))
	for _, e := range list {
		if _, ok := want[e.ID.String()]; !ok {
			continue
		}
		items = append(items, BulkUpdateItem{
			ID:        e.ID,
			FirstName: e.FirstName,
			LastName:  e.LastName,
			EmailID:   e.EmailID,
			Salary:    e.Salary,
		})
	}
	return items
}
