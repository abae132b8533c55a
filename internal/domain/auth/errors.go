package auth

import "errors"

var (
	// ErrUnauthenticated means no token is stored; the call is never attempted.
	ErrUnauthenticated = errors.New("user not authenticated")
	// ErrSessionExpired means the backend rejected the stored token with a 401.
	ErrSessionExpired     = errors.New("session expired or unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoToken            = errors.New("no token in response")
)

// AuthError is a failed login. Message holds the backend's explanation when it sent one.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsSessionError reports whether err should send the user back to the login screen.
func IsSessionError(err error) bool {
	return errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrSessionExpired)
}
