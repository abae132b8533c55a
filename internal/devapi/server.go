// Package devapi is an in-memory employee REST backend for running and
// testing the console without the production service.
package devapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-console/internal/domain/auth"
	"github.com/cmlabs-hris/hris-console/internal/domain/employee"
	"github.com/cmlabs-hris/hris-console/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

type Options struct {
	Secret         string
	TokenTTL       time.Duration
	AllowedOrigins []string
	Now            func() time.Time
}

type Server struct {
	store   *Store
	account Account
	opts    Options
}

func NewServer(store *Store, account Account, opts Options) *Server {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Server{store: store, account: account, opts: opts}
}

type claimsKey struct{}

func (s *Server) Routes(logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	if logger != nil {
		r.Use(httplog.RequestLogger(logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Post("/api/v1/login", s.login)

	r.Group(func(r chi.Router) {
		r.Use(s.bearerRequired)

		r.Route("/api/v1/employees", func(r chi.Router) {
			r.Get("/", s.listEmployees)
			r.Post("/", s.createEmployee)
			r.Put("/bulk", s.bulkUpdateEmployees)
			r.Delete("/bulk", s.bulkDeleteEmployees)
			r.Put("/{id}", s.updateEmployee)
			r.Delete("/{id}", s.deleteEmployee)
		})

		r.Get("/document/v1/pdf", s.employeesPDF)
	})

	return r
}

func (s *Server) bearerRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeMessage(w, http.StatusUnauthorized, "Missing bearer token")
			return
		}
		claims, err := ParseToken(s.opts.Secret, token)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := req.Validate(); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.account.Matches(req.UsernameOrEmail, req.Password) {
		writeMessage(w, http.StatusUnauthorized, "Invalid username or password.")
		return
	}

	token, err := GenerateToken(s.opts.Secret, s.account.Username, s.opts.Now(), s.opts.TokenTTL)
	if err != nil {
		slog.Error("Login token error", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, auth.LoginResponse{
		Tokens:  &auth.TokenPair{AccessToken: token},
		Message: "Login successful",
	})
}

func (s *Server) listEmployees(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", defaultLimit)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}

	data, total := s.store.List(page, limit)
	writeJSON(w, http.StatusOK, employee.ListEmployeesResponse{Data: data, TotalCount: total})
}

func (s *Server) createEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := req.Validate(); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validator.IsValidEmail(req.EmailID) {
		writeMessage(w, http.StatusBadRequest, "emailId is not a valid email address")
		return
	}

	created := s.store.Create(employee.Employee{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		EmailID:   req.EmailID,
		Salary:    req.Salary,
		CreatedAt: req.CreatedAt,
		UpdatedAt: req.UpdatedAt,
	}, s.opts.Now())
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateEmployee(w http.ResponseWriter, r *http.Request) {
	var e employee.Employee
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	e.ID = employee.ParseID(chi.URLParam(r, "id"))

	updated, err := s.store.Update(e, s.opts.Now())
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) bulkUpdateEmployees(w http.ResponseWriter, r *http.Request) {
	var req employee.BulkUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if len(req.Employees) == 0 {
		writeMessage(w, http.StatusBadRequest, "employees must not be empty")
		return
	}

	if err := s.store.BulkUpdate(req.Employees, s.opts.Now()); err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated": len(req.Employees)})
}

func (s *Server) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(employee.ParseID(chi.URLParam(r, "id"))); err != nil {
		s.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) bulkDeleteEmployees(w http.ResponseWriter, r *http.Request) {
	var req employee.BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if len(req.IDs) == 0 {
		writeMessage(w, http.StatusBadRequest, "ids must not be empty")
		return
	}

	removed := s.store.BulkDelete(req.IDs)
	writeJSON(w, http.StatusOK, map[string]any{"deleted": removed})
}

func (s *Server) employeesPDF(w http.ResponseWriter, r *http.Request) {
	doc, err := RenderRoster(s.store.All(), s.opts.Now())
	if err != nil {
		slog.Error("PDF render error", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="employees.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "Employee not found")
		return
	}
	slog.Error("Store error", "error", err)
	writeMessage(w, http.StatusInternalServerError, "An unexpected error occurred")
}

func queryInt(r *http.Request, key string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Response encode error", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
