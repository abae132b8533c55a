package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/url"

	"github.com/cmlabs-hris/hris-console/internal/domain/auth"
	"github.com/cmlabs-hris/hris-console/internal/domain/session"
	"github.com/cmlabs-hris/hris-console/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-console/internal/handler/http/view"
	"github.com/cmlabs-hris/hris-console/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-console/internal/service/roster"
)

// SessionGuard answers requests whose console session is missing or no
// longer accepted by the backend.
type SessionGuard struct {
	authService auth.AuthService
	jwtService  jwt.Service
	registry    *roster.Registry
	views       *view.Renderer
}

func NewSessionGuard(authService auth.AuthService, jwtService jwt.Service, registry *roster.Registry, views *view.Renderer) *SessionGuard {
	return &SessionGuard{
		authService: authService,
		jwtService:  jwtService,
		registry:    registry,
		views:       views,
	}
}

// Deny replaces the requested view with the login prompt (HTTP 401) for
// session errors, and with a 500 for anything else.
func (g *SessionGuard) Deny(w http.ResponseWriter, r *http.Request, err error) {
	if !auth.IsSessionError(err) {
		slog.Error("Session resolve error", "error", err)
		if response.WantsJSON(r) {
			response.InternalServerError(w, "An unexpected error occurred")
			return
		}
		http.Error(w, "An unexpected error occurred", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, g.jwtService.ClearSessionCookie())

	if response.WantsJSON(r) {
		response.HandleError(w, err)
		return
	}

	page := view.PromptPage{
		Message: auth.SessionMessage(err),
		Expired: errors.Is(err, auth.ErrSessionExpired),
	}
	if err := g.views.Render(w, http.StatusUnauthorized, view.PagePrompt, page); err != nil {
		slog.Error("Prompt render error", "error", err)
	}
}

// Expire forgets a session whose backend token was rejected, then denies the request.
func (g *SessionGuard) Expire(w http.ResponseWriter, r *http.Request, sess *session.Session, err error) {
	if sess != nil && errors.Is(err, auth.ErrSessionExpired) {
		if logoutErr := g.authService.Logout(r.Context(), sess.ID); logoutErr != nil {
			slog.Error("Logout service error", "error", logoutErr)
		}
		g.registry.Remove(sess.ID)
	}
	g.Deny(w, r, err)
}

// readInput returns the request's fields from a JSON object body or a form body.
func readInput(r *http.Request) (url.Values, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct != "application/json" {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return r.Form, nil
	}

	values := url.Values{}
	if r.Body == nil || r.ContentLength == 0 {
		return values, nil
	}

	var body map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	for k, v := range body {
		if v == nil {
			values.Set(k, "")
			continue
		}
		values.Set(k, fmt.Sprint(v))
	}
	return values, nil
}
