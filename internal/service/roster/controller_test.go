package roster

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-console/internal/domain/auth"
	"github.com/cmlabs-hris/hris-console/internal/domain/employee"
	"github.com/cmlabs-hris/hris-console/internal/domain/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackendDown = errors.New("connection refused")

// fakeDirectory is an in-memory employee.Directory with call counters,
// injectable failures and per-page gates for holding a fetch in flight.
type fakeDirectory struct {
	mu      sync.Mutex
	records []employee.Employee
	nextID  int

	listCalls       int
	updateCalls     int
	bulkUpdateCalls int
	createCalls     int
	deleteCalls     int
	bulkDeleteCalls int

	listErr   error
	updateErr error
	createErr error
	deleteErr error
	exportErr error

	lastUpdate     employee.Employee
	lastBulk       employee.BulkUpdateRequest
	lastCreate     employee.CreateEmployeeRequest
	lastBulkDelete []employee.ID

	gates map[int]chan struct{}
}

func newFakeDirectory(n int) *fakeDirectory {
	d := &fakeDirectory{gates: map[int]chan struct{}{}}
	for i := 1; i <= n; i++ {
		d.records = append(d.records, employee.Employee{
			ID:        employee.ParseID(strconv.Itoa(i)),
			FirstName: fmt.Sprintf("First%d", i),
			LastName:  fmt.Sprintf("Last%d", i),
			EmailID:   fmt.Sprintf("user%d@example.com", i),
		})
	}
	d.nextID = n + 1
	return d
}

func (d *fakeDirectory) gate(page int) chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch := make(chan struct{})
	d.gates[page] = ch
	return ch
}

func (d *fakeDirectory) ListEmployees(ctx context.Context, sess *session.Session, page, limit int) (employee.ListEmployeesResponse, error) {
	if !sess.Authenticated() {
		return employee.ListEmployeesResponse{}, auth.ErrUnauthenticated
	}

	d.mu.Lock()
	d.listCalls++
	gate := d.gates[page]
	delete(d.gates, page)
	d.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return employee.ListEmployeesResponse{}, ctx.Err()
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listErr != nil {
		return employee.ListEmployeesResponse{}, d.listErr
	}
	start := min((page-1)*limit, len(d.records))
	end := min(start+limit, len(d.records))
	return employee.ListEmployeesResponse{
		Data:       employee.CloneAll(d.records[start:end]),
		TotalCount: len(d.records),
	}, nil
}

func (d *fakeDirectory) UpdateEmployee(ctx context.Context, sess *session.Session, e employee.Employee) (employee.Employee, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.updateCalls++
	d.lastUpdate = e
	if d.updateErr != nil {
		return employee.Employee{}, d.updateErr
	}
	for i := range d.records {
		if d.records[i].ID.String() == e.ID.String() {
			d.records[i] = e.Clone()
		}
	}
	return e, nil
}

func (d *fakeDirectory) BulkUpdateEmployees(ctx context.Context, sess *session.Session, req employee.BulkUpdateRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bulkUpdateCalls++
	d.lastBulk = req
	if d.updateErr != nil {
		return d.updateErr
	}
	for _, item := range req.Employees {
		for i := range d.records {
			if d.records[i].ID.String() == item.ID.String() {
				d.records[i].FirstName = item.FirstName
				d.records[i].LastName = item.LastName
				d.records[i].EmailID = item.EmailID
			}
		}
	}
	return nil
}

func (d *fakeDirectory) CreateEmployee(ctx context.Context, sess *session.Session, req employee.CreateEmployeeRequest) (employee.Employee, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.createCalls++
	d.lastCreate = req
	if d.createErr != nil {
		return employee.Employee{}, d.createErr
	}
	e := employee.Employee{
		ID:        employee.ParseID(strconv.Itoa(d.nextID)),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		EmailID:   req.EmailID,
		Salary:    req.Salary,
	}
	d.nextID++
	d.records = append(d.records, e)
	return e, nil
}

func (d *fakeDirectory) removeLocked(id employee.ID) {
	for i := range d.records {
		if d.records[i].ID.String() == id.String() {
			d.records = append(d.records[:i], d.records[i+1:]...)
			return
		}
	}
}

func (d *fakeDirectory) DeleteEmployee(ctx context.Context, sess *session.Session, id employee.ID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deleteCalls++
	if d.deleteErr != nil {
		return d.deleteErr
	}
	d.removeLocked(id)
	return nil
}

func (d *fakeDirectory) BulkDeleteEmployees(ctx context.Context, sess *session.Session, ids []employee.ID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bulkDeleteCalls++
	d.lastBulkDelete = ids
	if d.deleteErr != nil {
		return d.deleteErr
	}
	for _, id := range ids {
		d.removeLocked(id)
	}
	return nil
}

func (d *fakeDirectory) ExportPDF(ctx context.Context, sess *session.Session) ([]byte, error) {
	if d.exportErr != nil {
		return nil, d.exportErr
	}
	return []byte("%PDF-1.3"), nil
}

func (d *fakeDirectory) set(fn func(d *fakeDirectory)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d)
}

func (d *fakeDirectory) calls() (list, update, bulkUpdate, create, del, bulkDel int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.listCalls, d.updateCalls, d.bulkUpdateCalls, d.createCalls, d.deleteCalls, d.bulkDeleteCalls
}

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newTestController(t *testing.T, dir *fakeDirectory, opts Options) *Controller {
	t.Helper()
	if opts.NavigationDelay == 0 {
		opts.NavigationDelay = 20 * time.Millisecond
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	c := New(dir, &session.Session{ID: "sess-1", AccessToken: "tok"}, opts, nil)
	t.Cleanup(c.Close)
	return c
}

func loaded(t *testing.T, n int) (*Controller, *fakeDirectory) {
	t.Helper()
	dir := newFakeDirectory(n)
	c := newTestController(t, dir, Options{})
	require.NoError(t, c.LoadPage(context.Background(), 1))
	return c, dir
}

func settle(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("navigation did not settle")
	}
}

func firstNames(list []employee.Employee) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.FirstName
	}
	return out
}

func TestController_LoadPage(t *testing.T) {
	c, _ := loaded(t, 95)

	v := c.View()
	assert.True(t, v.Loaded)
	assert.False(t, v.Loading)
	assert.Equal(t, 95, v.TotalCount)
	assert.Equal(t, 10, v.TotalPages)
	assert.Equal(t, 1, v.CurrentPage)
	assert.Len(t, v.Employees, 10)
	assert.Equal(t, []int{1, 2, 3, -1, 10}, v.Pages)
	assert.False(t, v.HasPrev)
	assert.True(t, v.HasNext)
}

func TestController_EmptyDirectory(t *testing.T) {
	c, _ := loaded(t, 0)

	v := c.View()
	assert.Equal(t, 0, v.TotalPages)
	assert.Equal(t, 1, v.CurrentPage)
	assert.Empty(t, v.Pages)
	assert.Empty(t, v.Employees)

	_, err := c.Navigate(1)
	assert.ErrorIs(t, err, employee.ErrPageOutOfRange)
}

func TestController_Unauthenticated(t *testing.T) {
	dir := newFakeDirectory(5)
	c := New(dir, &session.Session{ID: "anon"}, Options{}, nil)
	defer c.Close()

	err := c.LoadPage(context.Background(), 1)
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)

	list, _, _, _, _, _ := dir.calls()
	assert.Equal(t, 0, list)

	v := c.View()
	assert.Equal(t, MsgUnauthenticated, v.SessionNotice)
	assert.Empty(t, v.Banner)
}

func TestController_FetchFailureKeepsPreviousPage(t *testing.T) {
	c, dir := loaded(t, 25)
	before := c.View().Employees

	dir.set(func(d *fakeDirectory) { d.listErr = errBackendDown })
	err := c.Refresh(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, employee.ErrFetchFailed)
	assert.ErrorIs(t, err, errBackendDown)

	v := c.View()
	assert.Equal(t, before, v.Employees)
	assert.Equal(t, MsgFetchFailed, v.Banner)
	assert.False(t, v.Loading)
}

func TestController_SessionExpiredOnFetch(t *testing.T) {
	c, dir := loaded(t, 25)

	dir.set(func(d *fakeDirectory) { d.listErr = auth.ErrSessionExpired })
	err := c.Refresh(context.Background())
	assert.ErrorIs(t, err, auth.ErrSessionExpired)
	assert.NotErrorIs(t, err, employee.ErrFetchFailed)

	v := c.View()
	assert.Equal(t, MsgSessionExpired, v.SessionNotice)
	assert.ErrorIs(t, v.SessionError, auth.ErrSessionExpired)
}

func TestController_NavigateOutOfRangeIsNoop(t *testing.T) {
	c, dir := loaded(t, 95)
	before := c.View()
	listBefore, _, _, _, _, _ := dir.calls()

	for _, page := range []int{0, 11, -3} {
		ch, err := c.Navigate(page)
		assert.ErrorIs(t, err, employee.ErrPageOutOfRange)
		assert.Nil(t, ch)
	}

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, c.View())
	listAfter, _, _, _, _, _ := dir.calls()
	assert.Equal(t, listBefore, listAfter)
}

func TestController_NavigateCoalescesBurst(t *testing.T) {
	c, dir := loaded(t, 95)
	listBefore, _, _, _, _, _ := dir.calls()

	var last <-chan struct{}
	for _, page := range []int{2, 3, 4} {
		ch, err := c.Navigate(page)
		require.NoError(t, err)
		last = ch
	}
	settle(t, last)

	listAfter, _, _, _, _, _ := dir.calls()
	assert.Equal(t, listBefore+1, listAfter)

	v := c.View()
	assert.Equal(t, 4, v.CurrentPage)
	assert.Equal(t, "First31", v.Employees[0].FirstName)
}

func TestController_NavigateClearsEditState(t *testing.T) {
	c, _ := loaded(t, 30)

	c.ToggleBulk()
	require.NoError(t, c.ToggleRow("1"))
	require.NoError(t, c.RequestBulkDelete())

	ch, err := c.Navigate(2)
	require.NoError(t, err)
	settle(t, ch)

	v := c.View()
	assert.False(t, v.Bulk)
	assert.Empty(t, v.Selected)
	assert.Nil(t, v.PendingDelete)
	assert.Empty(t, v.EditingID)
}

func TestController_NavigateFailureDropsBulkEdits(t *testing.T) {
	c, dir := loaded(t, 25)

	c.ToggleBulk()
	require.NoError(t, c.ToggleRow("1"))
	require.NoError(t, c.UpdateField(employee.FieldFirstName, "Changed"))
	require.Equal(t, "Changed", c.View().Employees[0].FirstName)

	dir.set(func(d *fakeDirectory) { d.listErr = errBackendDown })
	ch, err := c.Navigate(2)
	require.NoError(t, err)
	settle(t, ch)

	v := c.View()
	assert.Equal(t, "First1", v.Employees[0].FirstName)
	assert.False(t, v.Bulk)
	assert.Empty(t, v.Selected)
	assert.Equal(t, 1, v.CurrentPage)
	assert.Equal(t, MsgFetchFailed, v.Banner)
}

func TestController_NavigateRejectedWhileLoading(t *testing.T) {
	c, dir := loaded(t, 30)

	gate := dir.gate(1)
	done := make(chan error, 1)
	go func() { done <- c.Refresh(context.Background()) }()

	require.Eventually(t, func() bool { return c.View().Loading }, time.Second, 5*time.Millisecond)

	_, err := c.Navigate(2)
	assert.ErrorIs(t, err, employee.ErrFetchInFlight)

	close(gate)
	require.NoError(t, <-done)
	assert.Equal(t, 1, c.View().CurrentPage)
}

func TestController_StaleResponseDiscarded(t *testing.T) {
	c, dir := loaded(t, 30)
	ctx := context.Background()

	gate := dir.gate(1)
	done := make(chan error, 1)
	go func() { done <- c.LoadPage(ctx, 1) }()
	require.Eventually(t, func() bool {
		list, _, _, _, _, _ := dir.calls()
		return list == 2
	}, time.Second, 5*time.Millisecond)

	// issued later, resolves first
	require.NoError(t, c.LoadPage(ctx, 3))

	close(gate)
	require.NoError(t, <-done)

	v := c.View()
	assert.Equal(t, 3, v.CurrentPage)
	assert.Equal(t, "First21", v.Employees[0].FirstName)
	assert.False(t, v.Loading)
}

func TestController_SingleEditUsesShadowBuffer(t *testing.T) {
	c, _ := loaded(t, 5)

	require.NoError(t, c.BeginEdit("2"))
	require.NoError(t, c.UpdateField(employee.FieldFirstName, "Grace"))

	v := c.View()
	assert.Equal(t, "2", v.EditingID)
	assert.Equal(t, "Grace", v.EditForm.FirstName)
	// live list untouched until save
	assert.Equal(t, "First2", v.Employees[1].FirstName)

	assert.ErrorIs(t, c.UpdateField("department", "x"), employee.ErrUnknownField)
	assert.ErrorIs(t, c.BeginEdit("404"), employee.ErrEmployeeNotFound)
}

func TestController_CancelEditRestoresSnapshot(t *testing.T) {
	c, _ := loaded(t, 5)
	snapshot := c.View().Employees

	// single edit
	require.NoError(t, c.BeginEdit("1"))
	require.NoError(t, c.UpdateField(employee.FieldLastName, "Changed"))
	c.CancelEdit()
	v := c.View()
	assert.Equal(t, snapshot, v.Employees)
	assert.Empty(t, v.EditingID)

	// bulk in-place edit
	c.ToggleBulk()
	require.NoError(t, c.ToggleRow("1"))
	require.NoError(t, c.ToggleRow("3"))
	require.NoError(t, c.UpdateField(employee.FieldFirstName, "Bulk"))
	require.NoError(t, c.UpdateField(employee.FieldSalary, "4200"))

	v = c.View()
	assert.Equal(t, []string{"Bulk", "First2", "Bulk", "First4", "First5"}, firstNames(v.Employees))
	require.NotNil(t, v.Employees[0].Salary)
	assert.Nil(t, v.Employees[1].Salary)

	c.CancelEdit()
	assert.Equal(t, snapshot, c.View().Employees)
}

func TestController_BulkInvalidSalaryChangesNothing(t *testing.T) {
	c, _ := loaded(t, 3)
	c.ToggleBulk()
	require.NoError(t, c.ToggleRow("1"))

	assert.ErrorIs(t, c.UpdateField(employee.FieldSalary, "abc"), employee.ErrInvalidSalary)
	assert.Nil(t, c.View().Employees[0].Salary)
}

func TestController_ToggleBulk(t *testing.T) {
	c, _ := loaded(t, 5)

	require.NoError(t, c.BeginEdit("1"))
	assert.True(t, c.ToggleBulk())
	assert.Empty(t, c.View().EditingID)

	require.NoError(t, c.ToggleRow("1"))
	require.NoError(t, c.ToggleRow("2"))
	require.NoError(t, c.ToggleRow("1"))
	assert.Equal(t, []employee.ID{employee.ParseID("2")}, c.Selected())

	assert.False(t, c.ToggleBulk())
	assert.Empty(t, c.Selected())

	assert.True(t, c.ToggleBulk())
	assert.Empty(t, c.Selected())

	assert.ErrorIs(t, c.ToggleRow("99"), employee.ErrEmployeeNotFound)
}

func TestController_ToggleRowRequiresBulk(t *testing.T) {
	c, _ := loaded(t, 3)
	assert.ErrorIs(t, c.ToggleRow("1"), employee.ErrNoEditSession)
}

func TestController_BeginEditLeavesBulk(t *testing.T) {
	c, _ := loaded(t, 3)
	c.ToggleBulk()
	require.NoError(t, c.ToggleRow("2"))

	require.NoError(t, c.BeginEdit("1"))
	v := c.View()
	assert.False(t, v.Bulk)
	assert.Empty(t, v.Selected)
	assert.Equal(t, "1", v.EditingID)
}

func TestController_SaveSingle(t *testing.T) {
	c, dir := loaded(t, 5)

	require.NoError(t, c.BeginEdit("3"))
	require.NoError(t, c.UpdateField(employee.FieldEmailID, "new@example.com"))
	require.NoError(t, c.UpdateField(employee.FieldSalary, "5,250.75"))

	require.NoError(t, c.Save(context.Background()))

	_, update, _, _, _, _ := dir.calls()
	assert.Equal(t, 1, update)
	assert.Equal(t, "3", dir.lastUpdate.ID.String())
	assert.Equal(t, "new@example.com", dir.lastUpdate.EmailID)
	require.NotNil(t, dir.lastUpdate.Salary)
	assert.Equal(t, 5250.75, *dir.lastUpdate.Salary)
	require.NotNil(t, dir.lastUpdate.UpdatedAt)
	assert.Equal(t, fixedNow, dir.lastUpdate.UpdatedAt.Time)

	v := c.View()
	assert.Empty(t, v.EditingID)
	assert.Equal(t, "new@example.com", v.Employees[2].EmailID)
}

func TestController_SaveSingleFailureKeepsState(t *testing.T) {
	c, dir := loaded(t, 5)
	dir.set(func(d *fakeDirectory) { d.updateErr = errBackendDown })

	require.NoError(t, c.BeginEdit("2"))
	require.NoError(t, c.UpdateField(employee.FieldFirstName, "Unsaved"))

	err := c.Save(context.Background())
	assert.ErrorIs(t, err, employee.ErrUpdateFailed)

	v := c.View()
	assert.Equal(t, "2", v.EditingID)
	assert.Equal(t, "Unsaved", v.EditForm.FirstName)
	assert.Equal(t, MsgUpdateFailed, v.Banner)
	assert.False(t, v.Busy)
}

func TestController_SaveBulk(t *testing.T) {
	c, dir := loaded(t, 5)

	c.ToggleBulk()
	require.NoError(t, c.ToggleRow("4"))
	require.NoError(t, c.ToggleRow("2"))
	require.NoError(t, c.UpdateField(employee.FieldLastName, "Team"))

	require.NoError(t, c.Save(context.Background()))

	require.Len(t, dir.lastBulk.Employees, 2)
	assert.Equal(t, "2", dir.lastBulk.Employees[0].ID.String())
	assert.Equal(t, "Team", dir.lastBulk.Employees[0].LastName)
	assert.Equal(t, "4", dir.lastBulk.Employees[1].ID.String())

	v := c.View()
	assert.False(t, v.Bulk)
	assert.Empty(t, v.Selected)
	assert.Equal(t, "Team", v.Employees[1].LastName)
}

func TestController_SaveBulkFailureKeepsSelection(t *testing.T) {
	c, dir := loaded(t, 5)
	dir.set(func(d *fakeDirectory) { d.updateErr = errBackendDown })

	c.ToggleBulk()
	require.NoError(t, c.ToggleRow("1"))
	require.NoError(t, c.UpdateField(employee.FieldFirstName, "Pending"))

	err := c.Save(context.Background())
	assert.ErrorIs(t, err, employee.ErrUpdateFailed)

	v := c.View()
	assert.True(t, v.Bulk)
	assert.True(t, v.IsSelected("1"))
	// not reset to the server snapshot
	assert.Equal(t, "Pending", v.Employees[0].FirstName)
}

func TestController_SaveValidationBlocked(t *testing.T) {
	c, dir := loaded(t, 3)

	require.NoError(t, c.BeginEdit("1"))
	require.NoError(t, c.UpdateField(employee.FieldFirstName, "  "))

	err := c.Save(context.Background())
	assert.ErrorIs(t, err, employee.ErrValidationBlocked)
	_, update, _, _, _, _ := dir.calls()
	assert.Equal(t, 0, update)

	c.CancelEdit()
	assert.ErrorIs(t, c.Save(context.Background()), employee.ErrNoEditSession)

	c.ToggleBulk()
	assert.ErrorIs(t, c.Save(context.Background()), employee.ErrNothingSelected)
}

func TestController_SaveSessionExpired(t *testing.T) {
	c, dir := loaded(t, 3)
	dir.set(func(d *fakeDirectory) { d.updateErr = auth.ErrSessionExpired })

	require.NoError(t, c.BeginEdit("1"))
	err := c.Save(context.Background())
	assert.ErrorIs(t, err, auth.ErrSessionExpired)
	assert.Equal(t, MsgSessionExpired, c.View().SessionNotice)
}

func TestController_DeleteCancelMakesNoCall(t *testing.T) {
	c, dir := loaded(t, 3)

	require.NoError(t, c.RequestDelete("2"))
	v := c.View()
	require.NotNil(t, v.PendingDelete)
	assert.Equal(t, "2", v.PendingDelete.ID.String())

	c.CancelDelete()
	assert.Nil(t, c.View().PendingDelete)
	_, _, _, _, del, bulkDel := dir.calls()
	assert.Zero(t, del+bulkDel)

	assert.ErrorIs(t, c.ConfirmDelete(context.Background()), employee.ErrNoPendingDelete)
}

func TestController_ConfirmDeleteSingle(t *testing.T) {
	c, dir := loaded(t, 3)

	require.NoError(t, c.RequestDelete("2"))
	require.NoError(t, c.ConfirmDelete(context.Background()))

	_, _, _, _, del, _ := dir.calls()
	assert.Equal(t, 1, del)

	v := c.View()
	assert.Nil(t, v.PendingDelete)
	assert.Equal(t, 2, v.TotalCount)
	assert.Equal(t, []string{"First1", "First3"}, firstNames(v.Employees))
}

func TestController_ConfirmBulkDeleteClampsPage(t *testing.T) {
	c, dir := loaded(t, 12)
	ch, err := c.Navigate(2)
	require.NoError(t, err)
	settle(t, ch)

	c.ToggleBulk()
	require.NoError(t, c.ToggleRow("11"))
	require.NoError(t, c.ToggleRow("12"))
	require.NoError(t, c.RequestBulkDelete())
	require.NoError(t, c.ConfirmDelete(context.Background()))

	assert.Len(t, dir.lastBulkDelete, 2)

	v := c.View()
	assert.Equal(t, 10, v.TotalCount)
	assert.Equal(t, 1, v.CurrentPage)
	assert.Len(t, v.Employees, 10)
	assert.Empty(t, v.Selected)
	assert.False(t, v.Bulk)
}

func TestController_DeleteFailure(t *testing.T) {
	c, dir := loaded(t, 3)
	dir.set(func(d *fakeDirectory) { d.deleteErr = errBackendDown })

	c.ToggleBulk()
	require.NoError(t, c.ToggleRow("1"))
	require.NoError(t, c.RequestBulkDelete())

	err := c.ConfirmDelete(context.Background())
	assert.ErrorIs(t, err, employee.ErrDeleteFailed)

	v := c.View()
	assert.Nil(t, v.PendingDelete)
	assert.True(t, v.IsSelected("1"))
	assert.Equal(t, MsgDeleteFailed, v.Banner)
}

func TestController_RequestBulkDeleteNeedsSelection(t *testing.T) {
	c, _ := loaded(t, 3)
	assert.ErrorIs(t, c.RequestBulkDelete(), employee.ErrNothingSelected)

	c.ToggleBulk()
	assert.ErrorIs(t, c.RequestBulkDelete(), employee.ErrNothingSelected)
}

func TestController_Create(t *testing.T) {
	dir := newFakeDirectory(3)
	c := newTestController(t, dir, Options{RequireSalary: true})
	ctx := context.Background()
	require.NoError(t, c.LoadPage(ctx, 1))

	c.OpenCreate()
	assert.False(t, c.CanSubmitCreate())
	assert.ErrorIs(t, c.SubmitCreate(ctx), employee.ErrValidationBlocked)

	require.NoError(t, c.SetDraftField(employee.FieldFirstName, "Ada"))
	require.NoError(t, c.SetDraftField(employee.FieldLastName, "Lovelace"))
	require.NoError(t, c.SetDraftField(employee.FieldEmailID, "ada@example.com"))
	assert.False(t, c.CanSubmitCreate())
	require.NoError(t, c.SetDraftField(employee.FieldSalary, "9000"))
	assert.True(t, c.CanSubmitCreate())

	require.NoError(t, c.SubmitCreate(ctx))

	require.NotNil(t, dir.lastCreate.Salary)
	assert.Equal(t, 9000.0, *dir.lastCreate.Salary)
	assert.Equal(t, fixedNow, dir.lastCreate.CreatedAt.Time)
	assert.Equal(t, fixedNow, dir.lastCreate.UpdatedAt.Time)

	v := c.View()
	assert.False(t, v.CreateOpen)
	assert.Empty(t, v.Draft.FirstName)
	assert.Equal(t, 4, v.TotalCount)
}

func TestController_CreateFailureKeepsDraft(t *testing.T) {
	c, dir := loaded(t, 3)
	dir.set(func(d *fakeDirectory) { d.createErr = errBackendDown })
	ctx := context.Background()

	c.OpenCreate()
	require.NoError(t, c.SetDraftField(employee.FieldFirstName, "Ada"))
	require.NoError(t, c.SetDraftField(employee.FieldLastName, "Lovelace"))
	require.NoError(t, c.SetDraftField(employee.FieldEmailID, "ada@example.com"))

	err := c.SubmitCreate(ctx)
	assert.ErrorIs(t, err, employee.ErrCreateFailed)

	v := c.View()
	assert.True(t, v.CreateOpen)
	assert.Equal(t, "Ada", v.Draft.FirstName)
	assert.Equal(t, MsgCreateFailed, v.Banner)
}

func TestController_ExportPDF(t *testing.T) {
	c, dir := loaded(t, 3)

	doc, err := c.ExportPDF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(doc))

	dir.set(func(d *fakeDirectory) { d.exportErr = errBackendDown })
	_, err = c.ExportPDF(context.Background())
	assert.ErrorIs(t, err, employee.ErrExportFailed)
	assert.Equal(t, MsgExportFailed, Message(err))
	assert.Empty(t, c.View().Banner)
}

func TestRegistry(t *testing.T) {
	dir := newFakeDirectory(1)
	r := NewRegistry(dir, Options{}, nil)
	defer r.Close()

	s1 := &session.Session{ID: "a", AccessToken: "t1"}
	c1 := r.For(s1)
	assert.Same(t, c1, r.For(s1))
	assert.Equal(t, 1, r.Len())

	// same session id, new token after re-login
	c2 := r.For(&session.Session{ID: "a", AccessToken: "t2"})
	assert.NotSame(t, c1, c2)
	assert.Equal(t, 1, r.Len())

	assert.Equal(t, []string{"a"}, r.IDs())

	r.Remove("a")
	assert.Equal(t, 0, r.Len())
}
