// Package view renders the console's HTML pages from embedded templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-console/internal/domain/employee"
	"github.com/cmlabs-hris/hris-console/internal/pkg/pagination"
	"github.com/cmlabs-hris/hris-console/internal/service/roster"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	PageLogin     = "login.html"
	PagePrompt    = "prompt.html"
	PageEmployees = "employees.html"
)

// LoginPage is the data of the login form.
type LoginPage struct {
	UsernameOrEmail string
	Error           string
	Notice          string
}

// PromptPage replaces any view when the session is missing or expired.
type PromptPage struct {
	Message string
	Expired bool
}

type EmployeesPage struct {
	Username string
	View     roster.View
	// Notice is a blocking message that is not part of the list state, such as a failed export.
	Notice string
	Fields []string
}

type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"isEllipsis": func(p int) bool { return p == pagination.Ellipsis },
	"salary":     employee.FormatSalary,
	"timestamp": func(ts *employee.Timestamp) string {
		if ts == nil || ts.IsZero() {
			return ""
		}
		return ts.Local().Format(time.DateTime)
	},
	"fieldLabel": func(field string) string {
		switch field {
		case employee.FieldFirstName:
			return "First name"
		case employee.FieldLastName:
			return "Last name"
		case employee.FieldEmailID:
			return "Email"
		case employee.FieldSalary:
			return "Salary"
		}
		return field
	},
	"formValue": func(f employee.Form, field string) string { return f.Get(field) },
	"prev":      func(p int) int { return p - 1 },
	"next":      func(p int) int { return p + 1 },
}

// New parses every page together with the shared layout.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, page := range []string{PageLogin, PagePrompt, PageEmployees} {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Render executes page into a buffer first so a template error never leaves a
// half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
