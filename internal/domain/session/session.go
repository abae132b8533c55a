package session

import (
	"context"
	"time"
)

// Session is the console's record of one signed-in browser. It carries the
// backend access token explicitly to every authenticated call.
type Session struct {
	ID          string
	AccessToken string
	Username    string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Authenticated reports whether a backend token is present.
func (s *Session) Authenticated() bool {
	return s != nil && s.AccessToken != ""
}

// Expired reports whether the console-side lifetime of the session has passed.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !s.ExpiresAt.After(now)
}

type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes sessions whose ExpiresAt is before now and returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
