package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-console/internal/domain/auth"
	"github.com/cmlabs-hris/hris-console/internal/domain/session"
	"github.com/google/uuid"
)

type AuthServiceImpl struct {
	gateway auth.Gateway
	store   session.Store
	ttl     time.Duration
	now     func() time.Time
}

// NewAuthService builds the session gate. A ttl of zero keeps sessions until logout.
func NewAuthService(gateway auth.Gateway, store session.Store, ttl time.Duration) auth.AuthService {
	return &AuthServiceImpl{
		gateway: gateway,
		store:   store,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Authenticate implements auth.AuthService.
func (a *AuthServiceImpl) Authenticate(ctx context.Context, req auth.LoginRequest) (*session.Session, error) {
	req.UsernameOrEmail = strings.TrimSpace(req.UsernameOrEmail)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp, err := a.gateway.Login(ctx, req)
	if err != nil {
		var authErr *auth.AuthError
		if errors.As(err, &authErr) {
			return nil, err
		}
		return nil, &auth.AuthError{Err: fmt.Errorf("%w: %w", auth.ErrInvalidCredentials, err)}
	}

	token := resp.AccessToken()
	if token == "" {
		return nil, &auth.AuthError{Err: auth.ErrNoToken}
	}

	now := a.now()
	sess := &session.Session{
		ID:          uuid.NewString(),
		AccessToken: token,
		Username:    req.UsernameOrEmail,
		CreatedAt:   now,
	}
	if a.ttl > 0 {
		sess.ExpiresAt = now.Add(a.ttl)
	}

	if err := a.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	slog.Info("console session started", "session_id", sess.ID, "username", sess.Username)
	return sess, nil
}

// Resolve implements auth.AuthService.
func (a *AuthServiceImpl) Resolve(ctx context.Context, sessionID string) (*session.Session, error) {
	if sessionID == "" {
		return nil, auth.ErrUnauthenticated
	}

	sess, err := a.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, auth.ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if sess.Expired(a.now()) {
		if err := a.store.Delete(ctx, sessionID); err != nil {
			slog.Warn("failed to delete expired session", "session_id", sessionID, "error", err)
		}
		return nil, auth.ErrSessionExpired
	}
	if !sess.Authenticated() {
		return nil, auth.ErrUnauthenticated
	}
	return sess, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := a.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
