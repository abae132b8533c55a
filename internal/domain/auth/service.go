package auth

import (
	"context"

	"github.com/cmlabs-hris/hris-console/internal/domain/session"
)

// Gateway is the backend side of a login.
type Gateway interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
}

type AuthService interface {
	// Authenticate exchanges credentials for a backend token and stores it in a new session.
	Authenticate(ctx context.Context, req LoginRequest) (*session.Session, error)
	// Resolve loads a stored session by id.
	Resolve(ctx context.Context, sessionID string) (*session.Session, error)
	Logout(ctx context.Context, sessionID string) error
}
