package auth

import "errors"

const (
	MsgUnauthenticated     = "User not authenticated. Please log in first."
	MsgSessionExpired      = "Session expired or unauthorized. Please log in again."
	MsgInvalidCredentials  = "Invalid username or password."
	MsgNoToken             = "Invalid response from server. Token not received."
	MsgCredentialsRequired = "Please enter your username or email and your password."
)

// SessionMessage returns the prompt text for a session error, or "" for any other error.
func SessionMessage(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return MsgUnauthenticated
	case errors.Is(err, ErrSessionExpired):
		return MsgSessionExpired
	}
	return ""
}

// LoginMessage returns the text shown under the login form after a failed
// login. A message sent by the backend wins over the generic text.
func LoginMessage(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Message != "" {
		return authErr.Message
	}
	if errors.Is(err, ErrNoToken) {
		return MsgNoToken
	}
	return MsgInvalidCredentials
}
