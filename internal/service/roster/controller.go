// Package roster holds the paginated, editable employee list behind the
// console's table view. A Controller owns one browser session's list, edit
// buffers, selection and pending delete; handlers only call its methods and
// render its View.
package roster

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-console/internal/domain/auth"
	"github.com/cmlabs-hris/hris-console/internal/domain/employee"
	"github.com/cmlabs-hris/hris-console/internal/domain/session"
	"github.com/cmlabs-hris/hris-console/internal/pkg/debounce"
	"github.com/cmlabs-hris/hris-console/internal/pkg/pagination"
)

const (
	DefaultPageSize        = 10
	DefaultNavigationDelay = 300 * time.Millisecond
)

type Options struct {
	PageSize        int
	NavigationDelay time.Duration
	// RequireSalary makes salary a required field of the create form.
	RequireSalary bool
	Now           func() time.Time
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.NavigationDelay <= 0 {
		o.NavigationDelay = DefaultNavigationDelay
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// DeleteTarget is a delete awaiting confirmation: one record, or whatever the
// selection holds when the delete is confirmed.
type DeleteTarget struct {
	ID   employee.ID
	Bulk bool
}

type Controller struct {
	mu     sync.Mutex
	dir    employee.Directory
	sess   *session.Session
	opts   Options
	nav    *debounce.Debouncer
	logger *slog.Logger

	// lifetime context for debounced navigations
	ctx    context.Context
	cancel context.CancelFunc

	employees   []employee.Employee
	original    []employee.Employee
	totalCount  int
	currentPage int
	loaded      bool
	loading     bool
	busy        bool
	seq         uint64

	banner     string
	sessionErr error

	editingID employee.ID
	editBase  employee.Employee
	editData  employee.Form

	bulk     bool
	selected []employee.ID

	pendingDelete *DeleteTarget

	createOpen bool
	draft      employee.Draft
}

func New(dir employee.Directory, sess *session.Session, opts Options, logger *slog.Logger) *Controller {
	opts = opts.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Controller{
		dir:         dir,
		sess:        sess,
		opts:        opts,
		nav:         debounce.New(opts.NavigationDelay),
		logger:      logger.With(slog.String("component", "roster")),
		ctx:         ctx,
		cancel:      cancel,
		employees:   []employee.Employee{},
		original:    []employee.Employee{},
		currentPage: 1,
		draft:       employee.NewDraft(opts.Now()),
	}
}

// Close drops any pending navigation and cancels in-flight debounced fetches.
func (c *Controller) Close() {
	c.nav.Stop()
	c.cancel()
}

// Loaded reports whether at least one page has been fetched successfully.
func (c *Controller) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// LoadPage fetches page and, on success, replaces the list, the snapshot used
// by CancelEdit and the total count in one step. On failure the previous page
// stays on screen and the error is surfaced in the banner.
func (c *Controller) LoadPage(ctx context.Context, page int) error {
	if page < 1 {
		return employee.ErrPageOutOfRange
	}
	return c.fetch(ctx, page)
}

// Refresh re-fetches the current page, stepping back to the last page when
// the current one no longer exists.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	page := c.currentPage
	c.mu.Unlock()

	if err := c.fetch(ctx, page); err != nil {
		return err
	}

	c.mu.Lock()
	total := pagination.TotalPages(c.totalCount, c.opts.PageSize)
	current := c.currentPage
	c.mu.Unlock()

	if total > 0 && current > total {
		return c.fetch(ctx, total)
	}
	return nil
}

func (c *Controller) fetch(ctx context.Context, page int) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.loading = true
	sess := c.sess
	limit := c.opts.PageSize
	c.mu.Unlock()

	resp, err := c.dir.ListEmployees(ctx, sess, page, limit)

	c.mu.Lock()
	defer c.mu.Unlock()

	// a newer fetch was issued while this one was in flight; the newer one wins
	if seq != c.seq {
		c.logger.Debug("discarding stale page response", slog.Int("page", page), slog.Uint64("seq", seq), slog.Uint64("latest", c.seq))
		return nil
	}
	c.loading = false

	if err != nil {
		return c.failLocked(employee.ErrFetchFailed, err)
	}

	c.employees = employee.CloneAll(resp.Data)
	c.original = employee.CloneAll(resp.Data)
	c.totalCount = max(resp.TotalCount, 0)
	c.currentPage = page
	if c.totalCount == 0 {
		c.currentPage = 1
	}
	c.loaded = true
	c.banner = ""
	c.sessionErr = nil
	return nil
}

// Navigate asks for page through the debounced dispatcher. Targets outside
// [1, totalPages] and requests made while a page is loading are rejected
// without touching state. Within the debounce window only the last target is
// fetched; the returned channel closes once that fetch has settled.
func (c *Controller) Navigate(page int) (<-chan struct{}, error) {
	c.mu.Lock()
	err := c.navigableLocked(page)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	return c.nav.Trigger(func() { c.navigate(page) }), nil
}

func (c *Controller) navigableLocked(page int) error {
	if !pagination.InRange(page, pagination.TotalPages(c.totalCount, c.opts.PageSize)) {
		return employee.ErrPageOutOfRange
	}
	if c.loading {
		return employee.ErrFetchInFlight
	}
	return nil
}

func (c *Controller) navigate(page int) {
	c.mu.Lock()
	// state may have moved on during the debounce window
	if err := c.navigableLocked(page); err != nil {
		c.mu.Unlock()
		c.logger.Debug("navigation dropped", slog.Int("page", page), slog.String("reason", err.Error()))
		return
	}
	// unsaved bulk edits are dropped even if the fetch fails
	c.clearEditLocked()
	c.employees = employee.CloneAll(c.original)
	c.bulk = false
	c.selected = nil
	c.pendingDelete = nil
	c.mu.Unlock()

	if err := c.fetch(c.ctx, page); err != nil {
		c.logger.Warn("navigation fetch failed", slog.Int("page", page), slog.Any("error", err))
	}
}

// failLocked records err for display and returns it classified: session
// errors pass through untouched, everything else is wrapped in op.
func (c *Controller) failLocked(op, err error) error {
	if auth.IsSessionError(err) {
		c.sessionErr = err
		return err
	}
	wrapped := fmt.Errorf("%w: %w", op, err)
	c.banner = Message(wrapped)
	return wrapped
}

func (c *Controller) clearEditLocked() {
	c.editingID = employee.ID{}
	c.editBase = employee.Employee{}
	c.editData = employee.Form{}
}

func (c *Controller) findLocked(id string) (employee.Employee, bool) {
	i := slices.IndexFunc(c.employees, func(e employee.Employee) bool { return e.ID.String() == id })
	if i < 0 {
		return employee.Employee{}, false
	}
	return c.employees[i], true
}

func (c *Controller) isSelectedLocked(id string) bool {
	return slices.ContainsFunc(c.selected, func(s employee.ID) bool { return s.String() == id })
}

// beginMutation marks the controller busy so a second save/delete/create is
// refused until the first finishes.
func (c *Controller) beginMutationLocked() error {
	if c.busy {
		return employee.ErrBusy
	}
	c.busy = true
	return nil
}

func (c *Controller) endMutation() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}
