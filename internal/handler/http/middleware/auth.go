package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hris-console/internal/domain/auth"
	"github.com/cmlabs-hris/hris-console/internal/domain/session"
	"github.com/cmlabs-hris/hris-console/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type sessionKey struct{}

// DenyFunc writes the response for a request that has no usable session.
type DenyFunc func(w http.ResponseWriter, r *http.Request, err error)

// SessionRequired resolves the console session named by the verified cookie
// token. It must run after jwtauth.Verifier. Missing or foreign tokens are
// auth.ErrUnauthenticated; an expired token is auth.ErrSessionExpired.
func SessionRequired(jwtService jwt.Service, authService auth.AuthService, deny DenyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			sessionID, err := SessionIDFromToken(r.Context(), jwtService)
			if err != nil {
				deny(w, r, err)
				return
			}

			sess, err := authService.Resolve(r.Context(), sessionID)
			if err != nil {
				deny(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		}
		return http.HandlerFunc(hfn)
	}
}

// SessionIDFromToken reads the session id out of the token placed in ctx by jwtauth.Verifier.
func SessionIDFromToken(ctx context.Context, jwtService jwt.Service) (string, error) {
	token, _, err := jwtauth.FromContext(ctx)
	if err != nil {
		if errors.Is(err, jwtauth.ErrExpired) {
			return "", auth.ErrSessionExpired
		}
		return "", auth.ErrUnauthenticated
	}

	sessionID, err := jwtService.SessionID(token)
	if err != nil {
		return "", auth.ErrUnauthenticated
	}
	return sessionID, nil
}

func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFromContext returns the session stored by SessionRequired, or nil.
func SessionFromContext(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey{}).(*session.Session)
	return sess
}
