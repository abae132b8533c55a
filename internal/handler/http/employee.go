package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-console/internal/domain/auth"
	"github.com/cmlabs-hris/hris-console/internal/domain/employee"
	"github.com/cmlabs-hris/hris-console/internal/domain/session"
	"github.com/cmlabs-hris/hris-console/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-console/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-console/internal/handler/http/view"
	"github.com/cmlabs-hris/hris-console/internal/service/roster"
	"github.com/go-chi/chi/v5"
)

const exportFilename = "employees.pdf"

type EmployeeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	State(w http.ResponseWriter, r *http.Request)
	Page(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	BeginEdit(w http.ResponseWriter, r *http.Request)
	UpdateField(w http.ResponseWriter, r *http.Request)
	CancelEdit(w http.ResponseWriter, r *http.Request)
	Save(w http.ResponseWriter, r *http.Request)
	ToggleBulk(w http.ResponseWriter, r *http.Request)
	ToggleRow(w http.ResponseWriter, r *http.Request)
	RequestDelete(w http.ResponseWriter, r *http.Request)
	RequestBulkDelete(w http.ResponseWriter, r *http.Request)
	ConfirmDelete(w http.ResponseWriter, r *http.Request)
	CancelDelete(w http.ResponseWriter, r *http.Request)
	OpenCreate(w http.ResponseWriter, r *http.Request)
	CloseCreate(w http.ResponseWriter, r *http.Request)
	SetDraftField(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	ExportPDF(w http.ResponseWriter, r *http.Request)
	DismissBanner(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	registry *roster.Registry
	guard    *SessionGuard
	views    *view.Renderer
}

func NewEmployeeHandler(registry *roster.Registry, guard *SessionGuard, views *view.Renderer) EmployeeHandler {
	return &employeeHandlerImpl{
		registry: registry,
		guard:    guard,
		views:    views,
	}
}

func (h *employeeHandlerImpl) controller(r *http.Request) (*roster.Controller, *session.Session) {
	sess := middleware.SessionFromContext(r.Context())
	return h.registry.For(sess), sess
}

// mount performs the first fetch of a controller that has never loaded a page.
func (h *employeeHandlerImpl) mount(r *http.Request, ctrl *roster.Controller) error {
	if ctrl.Loaded() {
		return nil
	}
	err := ctrl.LoadPage(r.Context(), 1)
	if auth.IsSessionError(err) {
		return err
	}
	// other failures are shown in the banner
	return nil
}

// List implements EmployeeHandler.
func (h *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ctrl, sess := h.controller(r)
	if err := h.mount(r, ctrl); err != nil {
		h.guard.Expire(w, r, sess, err)
		return
	}
	h.render(w, r, ctrl, sess, http.StatusOK, "")
}

// State implements EmployeeHandler.
func (h *employeeHandlerImpl) State(w http.ResponseWriter, r *http.Request) {
	ctrl, sess := h.controller(r)
	if err := h.mount(r, ctrl); err != nil {
		h.guard.Expire(w, r, sess, err)
		return
	}
	v := ctrl.View()
	if v.SessionError != nil {
		h.guard.Expire(w, r, sess, v.SessionError)
		return
	}
	response.Success(w, v)
}

// Page implements EmployeeHandler.
func (h *employeeHandlerImpl) Page(w http.ResponseWriter, r *http.Request) {
	ctrl, sess := h.controller(r)

	in, err := readInput(r)
	if err != nil {
		h.finish(w, r, ctrl, sess, "Page", err)
		return
	}
	page, err := strconv.Atoi(in.Get("page"))
	if err != nil {
		h.finish(w, r, ctrl, sess, "Page", employee.ErrPageOutOfRange)
		return
	}

	settled, err := ctrl.Navigate(page)
	if err == nil {
		select {
		case <-settled:
		case <-r.Context().Done():
			return
		}
	}
	h.finish(w, r, ctrl, sess, "Page", err)
}

// Refresh implements EmployeeHandler.
func (h *employeeHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	ctrl, sess := h.controller(r)
	h.finish(w, r, ctrl, sess, "Refresh", ctrl.Refresh(r.Context()))
}

// BeginEdit implements EmployeeHandler.
func (h *employeeHandlerImpl) BeginEdit(w http.ResponseWriter, r *http.Request) {
	ctrl, sess := h.controller(r)
	h.finish(w, r, ctrl, sess, "BeginEdit", ctrl.BeginEdit(chi.URLParam(r, "id")))
}

// UpdateField implements EmployeeHandler.
func (h *employeeHandlerImpl) UpdateField(w http.ResponseWriter, r *http.Request) {
	ctrl, sess := h.controller(r)
	in, err := readInput(r)
	if err == nil {
		err = ctrl.UpdateField(in.Get("field"), in.Get("value"))
	}
	h.finish(w, r, ctrl, sess, "UpdateField", err)
}

// CancelEdit implements EmployeeHandler.
func (h *employeeHandlerImpl) CancelEdit(w http.ResponseWriter, r *http.Request) {
	ctrl, sess := h.controller(r)
	ctrl.CancelEdit()
	h.finish(w, r, ctrl, sess, "CancelEdit", nil)
}

// Save implements EmployeeHandler. Fields posted with a single-record edit are
// written to the edit buffer before saving.
func (h *employeeHandlerImpl) Save(w http.ResponseWriter, r *http.Request) {
	ctrl, sess := h.controller(r)

	in, err := readInput(r)
	if err != nil {
		h.finish(w, r, ctrl, sess, "Save", err)
		return
	}
	if ctrl.View().EditingID != "" {
		for _, field := range employee.EditableFields {
			if !in.Has(field) {
				continue
			}
			if err := ctrl.UpdateField(field, in.Get(field)); err != nil {
				h.finish(w, r, ctrl, sess, "Save", err)
				return
			}
		}
	}

	h.finish(w, r, ctrl, sess, "Save", ctrl.Save(r.Context()))
}

// ToggleBulk implements EmployeeHandler.
func (h *employeeHandlerImpl) ToggleBulk(w http.ResponseWriter, r *http.Request) {
	ctrl, sess := h.controller(r)
	ctrl.ToggleBulk()
	h.finish(w, r, ctrl, sess, "ToggleBulk", nil)
}

// ToggleRow implements EmployeeHandler.
func (h *employeeHandlerImpl) ToggleRow(w http.ResponseWriter, r *http.Request) {
	ctrl, sess := h.controller(r)
	h.finish(w, r, ctrl, sess, "ToggleRow", ctrl.ToggleRow(chi.URLParam(r, "id")))
}

// RequestDelete implements EmployeeHandler.
func (h *employeeHandlerImpl) RequestDelete(w http.ResponseWriter, r *http.Request) {
	ctrl, sess := h.controller(r)
	h.finish(w, r, ctrl, sess, "RequestDelete", ctrl.RequestDelete(chi.URLParam(r, "id")))
}

// RequestBulkDelete implements EmployeeHandler.
func (h *employeeHandlerImpl) RequestBulkDelete(w http.ResponseWriter, r *http.Request) {
	ctrl, sess := h.controller(r)
	h.finish(w, r, ctrl, sess, "RequestBulkDelete", ctrl.RequestBulkDelete())
}

// ConfirmDelete implements EmployeeHandler.
func (h *employeeHandlerImpl) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	ctrl, sess := h.controller(r)
	h.finish(w, r, ctrl, sess, "ConfirmDelete", ctrl.ConfirmDelete(r.Context()))
}

// CancelDelete implements EmployeeHandler.
func (h *employeeHandlerImpl) CancelDelete(w http.ResponseWriter, r *http.Request) {
	ctrl, sess := h.controller(r)
	ctrl.CancelDelete()
	h.finish(w, r, ctrl, sess, "CancelDelete", nil)
}

// OpenCreate implements EmployeeHandler.
func (h *employeeHandlerImpl) OpenCreate(w http.ResponseWriter, r *http.Request) {
	ctrl, sess := h.controller(r)
	ctrl.OpenCreate()
	h.finish(w, r, ctrl, sess, "OpenCreate", nil)
}

// CloseCreate implements EmployeeHandler.
func (h *employeeHandlerImpl) CloseCreate(w http.ResponseWriter, r *http.Request) {
	ctrl, sess := h.controller(r)
	ctrl.CloseCreate()
	h.finish(w, r, ctrl, sess, "CloseCreate", nil)
}

// SetDraftField implements EmployeeHandler.
func (h *employeeHandlerImpl) SetDraftField(w http.ResponseWriter, r *http.Request) {
	ctrl, sess := h.controller(r)
	in, err := readInput(r)
	if err == nil {
		err = ctrl.SetDraftField(in.Get("field"), in.Get("value"))
	}
	h.finish(w, r, ctrl, sess, "SetDraftField", err)
}

// Create implements EmployeeHandler. Fields posted with the request are copied
// into the draft before it is submitted.
func (h *employeeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	ctrl, sess := h.controller(r)

	in, err := readInput(r)
	if err != nil {
		h.finish(w, r, ctrl, sess, "Create", err)
		return
	}
	for _, field := range employee.EditableFields {
		if !in.Has(field) {
			continue
		}
		if err := ctrl.SetDraftField(field, in.Get(field)); err != nil {
			h.finish(w, r, ctrl, sess, "Create", err)
			return
		}
	}

	err = ctrl.SubmitCreate(r.Context())
	if err == nil && response.WantsJSON(r) {
		response.Created(w, "Employee created", ctrl.View())
		return
	}
	h.finish(w, r, ctrl, sess, "Create", err)
}

// ExportPDF implements EmployeeHandler.
func (h *employeeHandlerImpl) ExportPDF(w http.ResponseWriter, r *http.Request) {
	ctrl, sess := h.controller(r)

	doc, err := ctrl.ExportPDF(r.Context())
	if err != nil {
		if auth.IsSessionError(err) {
			h.guard.Expire(w, r, sess, err)
			return
		}
		slog.Error("ExportPDF service error", "error", err)
		if response.WantsJSON(r) {
			response.HandleError(w, err)
			return
		}
		h.render(w, r, ctrl, sess, http.StatusBadGateway, roster.Message(err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		slog.Error("ExportPDF write error", "error", err)
	}
}

// DismissBanner implements EmployeeHandler.
func (h *employeeHandlerImpl) DismissBanner(w http.ResponseWriter, r *http.Request) {
	ctrl, sess := h.controller(r)
	ctrl.DismissBanner()
	h.finish(w, r, ctrl, sess, "DismissBanner", nil)
}

// finish completes a state-changing request. Session errors replace the view
// with the login prompt. JSON callers get the view model or the mapped error;
// browsers are sent back to the table, where failures show in the banner.
func (h *employeeHandlerImpl) finish(w http.ResponseWriter, r *http.Request, ctrl *roster.Controller, sess *session.Session, op string, err error) {
	v := ctrl.View()
	if err == nil && v.SessionError != nil {
		err = v.SessionError
	}

	if err != nil {
		if auth.IsSessionError(err) {
			h.guard.Expire(w, r, sess, err)
			return
		}
		if employee.Message(err) != "" {
			slog.Error(op+" service error", "error", err)
		} else {
			slog.Debug(op+" rejected", "error", err)
		}
	}

	if response.WantsJSON(r) {
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, v)
		return
	}
	http.Redirect(w, r, "/employees", http.StatusSeeOther)
}

func (h *employeeHandlerImpl) render(w http.ResponseWriter, r *http.Request, ctrl *roster.Controller, sess *session.Session, status int, notice string) {
	v := ctrl.View()
	if v.SessionError != nil {
		h.guard.Expire(w, r, sess, v.SessionError)
		return
	}

	page := view.EmployeesPage{
		Username: sess.Username,
		View:     v,
		Notice:   notice,
		Fields:   employee.EditableFields,
	}
	if err := h.views.Render(w, status, view.PageEmployees, page); err != nil {
		slog.Error("Employees render error", "error", err)
		http.Error(w, "An unexpected error occurred", http.StatusInternalServerError)
	}
}
