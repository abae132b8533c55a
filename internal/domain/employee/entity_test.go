package employee

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-console/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_KeepsWireKind(t *testing.T) {
	var list ListEmployeesResponse
	err := json.Unmarshal([]byte(`{"data":[{"id":42,"firstName":"Ada"},{"id":"emp-7","firstName":"Bob"}],"totalCount":2}`), &list)
	require.NoError(t, err)

	require.Len(t, list.Data, 2)
	assert.Equal(t, "42", list.Data[0].ID.String())
	assert.Equal(t, "emp-7", list.Data[1].ID.String())

	body, err := json.Marshal(BulkDeleteRequest{IDs: []ID{list.Data[0].ID, list.Data[1].ID}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ids":[42,"emp-7"]}`, string(body))
}

func TestParseID(t *testing.T) {
	body, _ := json.Marshal(ParseID("17"))
	assert.Equal(t, "17", string(body))

	body, _ = json.Marshal(ParseID("a1b2"))
	assert.Equal(t, `"a1b2"`, string(body))

	assert.True(t, ParseID("  ").IsZero())
}

func TestTimestamp_AcceptsZonelessValues(t *testing.T) {
	var e Employee
	err := json.Unmarshal([]byte(`{"id":1,"createdAt":"2024-03-01T10:20:30","updatedAt":"2024-03-02T11:00:00.123Z"}`), &e)
	require.NoError(t, err)

	require.NotNil(t, e.CreatedAt)
	assert.Equal(t, 2024, e.CreatedAt.Year())
	assert.Equal(t, 30, e.CreatedAt.Second())
	require.NotNil(t, e.UpdatedAt)
	assert.Equal(t, 123*int(time.Millisecond), e.UpdatedAt.Nanosecond())

	err = json.Unmarshal([]byte(`{"createdAt":"yesterday"}`), &e)
	assert.Error(t, err)
}

func TestEmployee_Set(t *testing.T) {
	e := Employee{ID: ParseID("1"), FirstName: "Ada"}

	require.NoError(t, e.Set(FieldFirstName, "Grace"))
	require.NoError(t, e.Set(FieldSalary, "1,500.5"))
	assert.Equal(t, "Grace", e.FirstName)
	require.NotNil(t, e.Salary)
	assert.Equal(t, 1500.5, *e.Salary)

	assert.ErrorIs(t, e.Set(FieldSalary, "lots"), ErrInvalidSalary)
	assert.ErrorIs(t, e.Set("department", "x"), ErrUnknownField)

	require.NoError(t, e.Set(FieldSalary, ""))
	assert.Nil(t, e.Salary)
}

func TestEmployee_CloneIsDeep(t *testing.T) {
	salary := 100.0
	orig := Employee{ID: ParseID("1"), Salary: &salary, CreatedAt: NewTimestamp(time.Now())}
	c := orig.Clone()

	*c.Salary = 200
	c.CreatedAt.Time = time.Time{}

	assert.Equal(t, 100.0, *orig.Salary)
	assert.False(t, orig.CreatedAt.IsZero())
}

func TestForm_Apply(t *testing.T) {
	created := NewTimestamp(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	base := Employee{ID: ParseID("9"), FirstName: "Ada", LastName: "L", EmailID: "ada@example.com", CreatedAt: created}

	f := FormFrom(base)
	require.NoError(t, f.Set(FieldLastName, "Lovelace"))
	require.NoError(t, f.Set(FieldSalary, "7200"))

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	out := f.Apply(base, now)

	assert.Equal(t, "Lovelace", out.LastName)
	require.NotNil(t, out.Salary)
	assert.Equal(t, 7200.0, *out.Salary)
	assert.Equal(t, now, out.UpdatedAt.Time)
	assert.Equal(t, created.Time, out.CreatedAt.Time)
	assert.Equal(t, "L", base.LastName)
}

func TestForm_Validate(t *testing.T) {
	f := Form{FirstName: "Ada", LastName: "", EmailID: "ada@example.com", Salary: "abc"}

	err := f.Validate(false)
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.Has(FieldLastName))
	assert.True(t, verrs.Has(FieldSalary))

	f.LastName = "Lovelace"
	f.Salary = ""
	assert.NoError(t, f.Validate(false))
	assert.Error(t, f.Validate(true))
}

func TestDraft_NonFiniteSalaryNotReady(t *testing.T) {
	d := NewDraft(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	d.FirstName, d.LastName, d.EmailID = "Ada", "Lovelace", "ada@example.com"

	for _, salary := range []string{"NaN", "Inf", "-Inf", "1e400"} {
		d.Salary = salary
		assert.False(t, d.Ready(false), salary)
		assert.Error(t, d.Validate(false), salary)

		var e Employee
		assert.ErrorIs(t, e.Set(FieldSalary, salary), ErrInvalidSalary, salary)
		assert.Nil(t, e.Salary)
	}
}

func TestDraft_Request(t *testing.T) {
	d := NewDraft(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.False(t, d.Ready(true))

	d.FirstName, d.LastName, d.EmailID, d.Salary = "Ada", "Lovelace", "ada@example.com", "5000"
	assert.True(t, d.Ready(true))

	now := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	req := d.Request(now)
	require.NotNil(t, req.Salary)
	assert.Equal(t, 5000.0, *req.Salary)
	assert.Equal(t, now, req.CreatedAt.Time)
	assert.Equal(t, now, req.UpdatedAt.Time)
}

func TestBulkItems(t *testing.T) {
	list := []Employee{
		{ID: ParseID("1"), FirstName: "A"},
		{ID: ParseID("2"), FirstName: "B"},
		{ID: ParseID("3"), FirstName: "C"},
	}
	items := BulkItems(list, []ID{ParseID("3"), ParseID("1")})

	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID.String())
	assert.Equal(t, "3", items[1].ID.String())
}
