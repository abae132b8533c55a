package roster

import (
	"context"
	"fmt"
	"slices"

	"github.com/cmlabs-hris/hris-console/internal/domain/auth"
	"github.com/cmlabs-hris/hris-console/internal/domain/employee"
)

// RequestDelete opens the confirmation gate for a single record.
func (c *Controller) RequestDelete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.findLocked(id)
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	c.pendingDelete = &DeleteTarget{ID: rec.ID}
	return nil
}

// RequestBulkDelete opens the confirmation gate for the current selection.
func (c *Controller) RequestBulkDelete() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.bulk || len(c.selected) == 0 {
		return employee.ErrNothingSelected
	}
	c.pendingDelete = &DeleteTarget{Bulk: true}
	return nil
}

// CancelDelete discards the pending target without any network call.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingDelete = nil
}

// ConfirmDelete issues the pending single or batch delete, then re-fetches
// the page and clears the selection. The pending target is consumed either way.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	target := c.pendingDelete
	if target == nil {
		c.mu.Unlock()
		return employee.ErrNoPendingDelete
	}
	if err := c.beginMutationLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	defer c.endMutation()
	c.pendingDelete = nil

	sess := c.sess
	var ids []employee.ID
	if target.Bulk {
		ids = slices.Clone(c.selected)
		if len(ids) == 0 {
			c.mu.Unlock()
			return employee.ErrNothingSelected
		}
	} else {
		ids = []employee.ID{target.ID}
	}
	c.mu.Unlock()

	var err error
	if target.Bulk {
		err = c.dir.BulkDeleteEmployees(ctx, sess, ids)
	} else {
		err = c.dir.DeleteEmployee(ctx, sess, target.ID)
	}
	if err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.failLocked(employee.ErrDeleteFailed, err)
	}

	c.mu.Lock()
	c.selected = nil
	if target.Bulk {
		c.bulk = false
	}
	for _, id := range ids {
		if c.editingID.String() == id.String() {
			c.clearEditLocked()
		}
	}
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// OpenCreate shows the create form, keeping any draft typed earlier.
func (c *Controller) OpenCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.createOpen = true
}

// CloseCreate hides the create form.
func (c *Controller) CloseCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.createOpen = false
}

func (c *Controller) SetDraftField(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Set(field, value)
}

// CanSubmitCreate reports whether every required draft field is filled in.
func (c *Controller) CanSubmitCreate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Ready(c.opts.RequireSalary)
}

// SubmitCreate posts the draft with salary coerced to a number and both
// timestamps set to now. On success the form closes and the draft resets;
// on failure the draft is kept.
func (c *Controller) SubmitCreate(ctx context.Context) error {
	c.mu.Lock()
	if err := c.draft.Validate(c.opts.RequireSalary); err != nil {
		c.banner = Message(employee.ErrValidationBlocked)
		c.mu.Unlock()
		return fmt.Errorf("%w: %w", employee.ErrValidationBlocked, err)
	}
	if err := c.beginMutationLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	defer c.endMutation()

	sess := c.sess
	req := c.draft.Request(c.opts.Now())
	c.mu.Unlock()

	if _, err := c.dir.CreateEmployee(ctx, sess, req); err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.failLocked(employee.ErrCreateFailed, err)
	}

	c.mu.Lock()
	c.createOpen = false
	c.draft = employee.NewDraft(c.opts.Now())
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// ExportPDF fetches the employee document. Failures other than session
// errors come back wrapped in employee.ErrExportFailed and leave the list untouched.
func (c *Controller) ExportPDF(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()

	doc, err := c.dir.ExportPDF(ctx, sess)
	if err != nil {
		if auth.IsSessionError(err) {
			c.mu.Lock()
			c.sessionErr = err
			c.mu.Unlock()
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", employee.ErrExportFailed, err)
	}
	return doc, nil
}
