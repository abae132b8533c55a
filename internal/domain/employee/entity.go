package employee

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-console/internal/pkg/validator"
)

// Editable field names, as the backend spells them.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmailID   = "emailId"
	FieldSalary    = "salary"
)

var EditableFields = []string{FieldFirstName, FieldLastName, FieldEmailID, FieldSalary}

// ID is a server-assigned record identifier. The backend may send numbers or
// strings; the original JSON kind is kept so the id is echoed back unchanged.
type ID struct {
	value   string
	numeric bool
}

// ParseID builds an ID from its text form, treating all-digit values as numeric.
func ParseID(s string) ID {
	s = strings.TrimSpace(s)
	return ID{value: s, numeric: validator.IsNumeric(s)}
}

func (id ID) String() string { return id.value }

func (id ID) IsZero() bool { return id.value == "" }

func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ID{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID{value: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("employee id: %w", err)
	}
	*id = ID{value: n.String(), numeric: true}
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Timestamp accepts ISO-8601 values with or without a zone offset.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t.UTC()}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

type Employee struct {
	ID        ID         `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	EmailID   string     `json:"emailId"`
	Salary    *float64   `json:"salary,omitempty"`
	CreatedAt *Timestamp `json:"createdAt,omitempty"`
	UpdatedAt *Timestamp `json:"updatedAt,omitempty"`
}

// Get returns the display value of an editable field.
func (e Employee) Get(field string) string {
	switch field {
	case FieldFirstName:
		return e.FirstName
	case FieldLastName:
		return e.LastName
	case FieldEmailID:
		return e.EmailID
	case FieldSalary:
		return FormatSalary(e.Salary)
	}
	return ""
}

// Set writes an editable field in place. An empty salary clears it.
func (e *Employee) Set(field, value string) error {
	switch field {
	case FieldFirstName:
		e.FirstName = value
	case FieldLastName:
		e.LastName = value
	case FieldEmailID:
		e.EmailID = value
	case FieldSalary:
		if validator.IsEmpty(value) {
			e.Salary = nil
			return nil
		}
		amount, ok := validator.ParseAmount(value)
		if !ok {
			return ErrInvalidSalary
		}
		e.Salary = &amount
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Clone copies the record including its pointer fields.
func (e Employee) Clone() Employee {
	c := e
	if e.Salary != nil {
		s := *e.Salary
		c.Salary = &s
	}
	if e.CreatedAt != nil {
		t := *e.CreatedAt
		c.CreatedAt = &t
	}
	if e.UpdatedAt != nil {
		t := *e.UpdatedAt
		c.UpdatedAt = &t
	}
	return c
}

// CloneAll deep-copies a record list.
func CloneAll(list []Employee) []Employee {
	out := make([]Employee, len(list))
	for i, e := range list {
		out[i] = e.Clone()
	}
	return out
}

func FormatSalary(s *float64) string {
	if s == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *s)
}
