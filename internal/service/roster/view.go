package roster

import (
	"github.com/cmlabs-hris/hris-console/internal/domain/auth"
	"github.com/cmlabs-hris/hris-console/internal/domain/employee"
	"github.com/cmlabs-hris/hris-console/internal/pkg/pagination"
)

// View is a point-in-time copy of controller state for rendering.
type View struct {
	Employees   []employee.Employee `json:"employees"`
	TotalCount  int                 `json:"totalCount"`
	PageSize    int                 `json:"pageSize"`
	CurrentPage int                 `json:"currentPage"`
	TotalPages  int                 `json:"totalPages"`
	Pages       []int               `json:"pages"`
	HasPrev     bool                `json:"hasPrev"`
	HasNext     bool                `json:"hasNext"`

	Loaded  bool `json:"loaded"`
	Loading bool `json:"loading"`
	Busy    bool `json:"busy"`

	Banner string `json:"banner,omitempty"`
	// SessionError is auth.ErrUnauthenticated or auth.ErrSessionExpired when
	// the whole view must be replaced by the login prompt.
	SessionError  error  `json:"-"`
	SessionNotice string `json:"sessionNotice,omitempty"`

	EditingID string        `json:"editingId,omitempty"`
	EditForm  employee.Form `json:"editForm"`

	Bulk     bool            `json:"bulk"`
	Selected map[string]bool `json:"selected"`

	PendingDelete *DeleteTarget `json:"pendingDelete,omitempty"`

	CreateOpen      bool           `json:"createOpen"`
	Draft           employee.Draft `json:"draft"`
	CanSubmitCreate bool           `json:"canSubmitCreate"`
	RequireSalary   bool           `json:"requireSalary"`
}

// IsSelected reports whether the record with id is in the bulk selection.
func (v View) IsSelected(id string) bool {
	return v.Selected[id]
}

// IsEditing reports whether the record with id is the one in single edit.
func (v View) IsEditing(id string) bool {
	return v.EditingID != "" && v.EditingID == id
}

// CanSave mirrors the visibility of the save/cancel bar.
func (v View) CanSave() bool {
	return v.EditingID != "" || (v.Bulk && len(v.Selected) > 0)
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := pagination.TotalPages(c.totalCount, c.opts.PageSize)
	selected := make(map[string]bool, len(c.selected))
	for _, id := range c.selected {
		selected[id.String()] = true
	}

	v := View{
		Employees:       employee.CloneAll(c.employees),
		TotalCount:      c.totalCount,
		PageSize:        c.opts.PageSize,
		CurrentPage:     c.currentPage,
		TotalPages:      total,
		Pages:           pagination.PageNumbers(c.currentPage, total),
		HasPrev:         c.currentPage > 1,
		HasNext:         c.currentPage < total,
		Loaded:          c.loaded,
		Loading:         c.loading,
		Busy:            c.busy,
		Banner:          c.banner,
		SessionError:    c.sessionErr,
		EditingID:       c.editingID.String(),
		EditForm:        c.editData,
		Bulk:            c.bulk,
		Selected:        selected,
		CreateOpen:      c.createOpen,
		Draft:           c.draft,
		CanSubmitCreate: c.draft.Ready(c.opts.RequireSalary),
		RequireSalary:   c.opts.RequireSalary,
	}
	if auth.IsSessionError(c.sessionErr) {
		v.SessionNotice = Message(c.sessionErr)
	}
	if c.pendingDelete != nil {
		target := *c.pendingDelete
		v.PendingDelete = &target
	}
	return v
}

// DismissBanner clears the inline error message.
func (c *Controller) DismissBanner() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.banner = ""
}
