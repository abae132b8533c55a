package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-console/internal/domain/auth"
	"github.com/cmlabs-hris/hris-console/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-console/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-console/internal/handler/http/view"
	"github.com/cmlabs-hris/hris-console/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-console/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-console/internal/service/roster"
)

// cookieLifetime bounds the cookie of a session that has no expiry of its own.
const cookieLifetime = 30 * 24 * time.Hour

type AuthHandler interface {
	LoginPage(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService  jwt.Service
	authService auth.AuthService
	registry    *roster.Registry
	views       *view.Renderer
}

func NewAuthHandler(jwtService jwt.Service, authService auth.AuthService, registry *roster.Registry, views *view.Renderer) AuthHandler {
	return &AuthHandlerImpl{
		jwtService:  jwtService,
		authService: authService,
		registry:    registry,
		views:       views,
	}
}

// LoginPage implements AuthHandler.
func (a *AuthHandlerImpl) LoginPage(w http.ResponseWriter, r *http.Request) {
	var page view.LoginPage
	switch r.URL.Query().Get("reason") {
	case "expired":
		page.Notice = auth.MsgSessionExpired
	case "required":
		page.Notice = auth.MsgUnauthenticated
	}
	a.render(w, http.StatusOK, page)
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	in, err := readInput(r)
	if err != nil {
		slog.Error("Login decode error", "error", err)
		if response.WantsJSON(r) {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
		a.render(w, http.StatusBadRequest, view.LoginPage{Error: auth.MsgCredentialsRequired})
		return
	}

	loginReq := auth.LoginRequest{
		UsernameOrEmail: in.Get("usernameOrEmail"),
		Password:        in.Get("password"),
	}

	sess, err := a.authService.Authenticate(r.Context(), loginReq)
	if err != nil {
		a.loginFailed(w, r, loginReq, err)
		return
	}

	expiresAt := sess.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(cookieLifetime)
	}
	token, err := a.jwtService.GenerateSessionToken(sess.ID, expiresAt)
	if err != nil {
		slog.Error("Login token error", "error", err)
		if logoutErr := a.authService.Logout(r.Context(), sess.ID); logoutErr != nil {
			slog.Error("Logout service error", "error", logoutErr)
		}
		a.loginFailed(w, r, loginReq, err)
		return
	}
	http.SetCookie(w, a.jwtService.SessionCookie(token, expiresAt))

	if response.WantsJSON(r) {
		response.SuccessWithMessage(w, "Login successful", map[string]any{
			"username":  sess.Username,
			"expiresAt": expiresAt.UTC(),
		})
		return
	}
	http.Redirect(w, r, "/employees", http.StatusSeeOther)
}

func (a *AuthHandlerImpl) loginFailed(w http.ResponseWriter, r *http.Request, req auth.LoginRequest, err error) {
	var (
		validationErrs validator.ValidationErrors
		authErr        *auth.AuthError
	)

	status, message := http.StatusInternalServerError, "An unexpected error occurred"
	switch {
	case errors.As(err, &validationErrs):
		status, message = http.StatusUnprocessableEntity, auth.MsgCredentialsRequired
	case errors.As(err, &authErr):
		status, message = http.StatusUnauthorized, auth.LoginMessage(err)
	default:
		slog.Error("Login service error", "error", err)
	}

	if response.WantsJSON(r) {
		if status == http.StatusInternalServerError {
			response.InternalServerError(w, message)
			return
		}
		response.HandleError(w, err)
		return
	}
	a.render(w, status, view.LoginPage{UsernameOrEmail: req.UsernameOrEmail, Error: message})
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID, err := middleware.SessionIDFromToken(r.Context(), a.jwtService); err == nil {
		if err := a.authService.Logout(r.Context(), sessionID); err != nil {
			slog.Error("Logout service error", "error", err)
		}
		a.registry.Remove(sessionID)
	}

	http.SetCookie(w, a.jwtService.ClearSessionCookie())

	if response.WantsJSON(r) {
		response.SuccessWithMessage(w, "Logout successful", nil)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (a *AuthHandlerImpl) render(w http.ResponseWriter, status int, page view.LoginPage) {
	if err := a.views.Render(w, status, view.PageLogin, page); err != nil {
		slog.Error("Login render error", "error", err)
	}
}
