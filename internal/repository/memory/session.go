package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-console/internal/domain/session"
)

type sessionStoreImpl struct {
	mu       sync.RWMutex
	sessions map[string]session.Session
}

// NewSessionStore returns a process-local session store. Sessions are lost on restart.
func NewSessionStore() session.Store {
	return &sessionStoreImpl{sessions: make(map[string]session.Session)}
}

func (s *sessionStoreImpl) Save(ctx context.Context, sess *session.Session) error {
	if sess == nil || sess.ID == "" {
		return session.ErrInvalidSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = *sess
	return nil
}

func (s *sessionStoreImpl) Get(ctx context.Context, id string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *sessionStoreImpl) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *sessionStoreImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}
