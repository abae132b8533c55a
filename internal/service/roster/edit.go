package roster

import (
	"context"
	"fmt"
	"slices"

	"github.com/cmlabs-hris/hris-console/internal/domain/employee"
)

// BeginEdit snapshots the record into the shadow buffer. Bulk mode and its
// selection are dropped: the two edit modes never coexist.
func (c *Controller) BeginEdit(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.findLocked(id)
	if !ok {
		return employee.ErrEmployeeNotFound
	}

	c.bulk = false
	c.selected = nil
	c.editingID = rec.ID
	c.editBase = rec.Clone()
	c.editData = employee.FormFrom(rec)
	return nil
}

// UpdateField edits one field. In single-edit mode only the shadow buffer
// changes; in bulk mode the value is written in place into every selected
// record of the live list.
func (c *Controller) UpdateField(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case !c.editingID.IsZero():
		return c.editData.Set(field, value)

	case c.bulk:
		// validate once against a scratch record so a bad value changes nothing
		var scratch employee.Employee
		if err := scratch.Set(field, value); err != nil {
			return err
		}
		for i := range c.employees {
			if c.isSelectedLocked(c.employees[i].ID.String()) {
				_ = c.employees[i].Set(field, value)
			}
		}
		return nil
	}

	return employee.ErrNoEditSession
}

// CancelEdit discards the shadow buffer and restores the list to the last
// fetched snapshot, undoing bulk in-place edits as well.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearEditLocked()
	c.employees = employee.CloneAll(c.original)
}

// Save sends the single edit as a full-record update, or the selected
// records as a batch update in bulk mode, then re-fetches the page. On
// failure the edit state and the displayed list are left as they were.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	if err := c.beginMutationLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	defer c.endMutation()

	sess := c.sess
	var call func() error

	switch {
	case !c.editingID.IsZero():
		if err := c.editData.Validate(false); err != nil {
			c.banner = Message(employee.ErrValidationBlocked)
			c.mu.Unlock()
			return fmt.Errorf("%w: %w", employee.ErrValidationBlocked, err)
		}
		rec := c.editData.Apply(c.editBase, c.opts.Now())
		call = func() error {
			_, err := c.dir.UpdateEmployee(ctx, sess, rec)
			return err
		}

	case c.bulk && len(c.selected) > 0:
		items := employee.BulkItems(c.employees, c.selected)
		for _, item := range items {
			form := employee.Form{FirstName: item.FirstName, LastName: item.LastName, EmailID: item.EmailID}
			if err := form.Validate(false); err != nil {
				c.banner = Message(employee.ErrValidationBlocked)
				c.mu.Unlock()
				return fmt.Errorf("%w: %w", employee.ErrValidationBlocked, err)
			}
		}
		req := employee.BulkUpdateRequest{Employees: items}
		call = func() error {
			return c.dir.BulkUpdateEmployees(ctx, sess, req)
		}

	case c.bulk:
		c.mu.Unlock()
		return employee.ErrNothingSelected

	default:
		c.mu.Unlock()
		return employee.ErrNoEditSession
	}
	c.mu.Unlock()

	if err := call(); err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.failLocked(employee.ErrUpdateFailed, err)
	}

	c.mu.Lock()
	c.clearEditLocked()
	c.bulk = false
	c.selected = nil
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// ToggleBulk flips bulk mode. Either way any single edit and the selection
// set are cleared.
func (c *Controller) ToggleBulk() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bulk = !c.bulk
	c.clearEditLocked()
	c.selected = nil
	return c.bulk
}

// ToggleRow adds the record to the selection, or removes it when already selected.
func (c *Controller) ToggleRow(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.bulk {
		return employee.ErrNoEditSession
	}
	rec, ok := c.findLocked(id)
	if !ok {
		return employee.ErrEmployeeNotFound
	}

	if i := slices.IndexFunc(c.selected, func(s employee.ID) bool { return s.String() == id }); i >= 0 {
		c.selected = slices.Delete(c.selected, i, i+1)
		return nil
	}
	c.selected = append(c.selected, rec.ID)
	return nil
}

// Selected returns a copy of the selection set in selection order.
func (c *Controller) Selected() []employee.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.selected)
}
