package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-console/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-console/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(logger *slog.Logger, jwtService jwt.Service, guard *SessionGuard, authHandler AuthHandler, employeeHandler EmployeeHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/employees", http.StatusSeeOther)
	})

	r.Get("/login", authHandler.LoginPage)
	r.Post("/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verify(jwtService.JWTAuth(), jwtauth.TokenFromCookie))

		r.Post("/logout", authHandler.Logout)

		// Requires a console session
		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionRequired(jwtService, guard.authService, guard.Deny))

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", employeeHandler.List)
				r.Get("/state", employeeHandler.State)
				r.Get("/export.pdf", employeeHandler.ExportPDF)

				r.Post("/page", employeeHandler.Page)
				r.Post("/refresh", employeeHandler.Refresh)
				r.Post("/banner/dismiss", employeeHandler.DismissBanner)

				r.Route("/edit", func(r chi.Router) {
					r.Post("/field", employeeHandler.UpdateField)
					r.Post("/cancel", employeeHandler.CancelEdit)
				})
				r.Post("/save", employeeHandler.Save)

				r.Route("/bulk", func(r chi.Router) {
					r.Post("/", employeeHandler.ToggleBulk)
					r.Post("/delete", employeeHandler.RequestBulkDelete)
				})

				r.Route("/delete", func(r chi.Router) {
					r.Post("/confirm", employeeHandler.ConfirmDelete)
					r.Post("/cancel", employeeHandler.CancelDelete)
				})

				r.Route("/create", func(r chi.Router) {
					r.Post("/", employeeHandler.Create)
					r.Post("/open", employeeHandler.OpenCreate)
					r.Post("/close", employeeHandler.CloseCreate)
					r.Post("/field", employeeHandler.SetDraftField)
				})

				r.Route("/{id}", func(r chi.Router) {
					r.Post("/edit", employeeHandler.BeginEdit)
					r.Post("/select", employeeHandler.ToggleRow)
					r.Post("/delete", employeeHandler.RequestDelete)
				})
			})
		})
	})

	return r
}
