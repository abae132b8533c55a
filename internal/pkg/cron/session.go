package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-console/internal/domain/session"
)

// ControllerSet is the part of the roster registry the sweep needs.
type ControllerSet interface {
	IDs() []string
	Remove(sessionID string)
}

type SessionJobs struct {
	store       session.Store
	controllers ControllerSet
	now         func() time.Time
}

func NewSessionJobs(store session.Store, controllers ControllerSet) *SessionJobs {
	return &SessionJobs{
		store:       store,
		controllers: controllers,
		now:         time.Now,
	}
}

func (j *SessionJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("purge_expired_sessions", interval, j.PurgeExpiredSessions)
	scheduler.AddJob("release_orphan_controllers", interval, j.ReleaseOrphanControllers)
}

// PurgeExpiredSessions deletes sessions past their ExpiresAt.
func (j *SessionJobs) PurgeExpiredSessions(ctx context.Context) error {
	n, err := j.store.DeleteExpired(ctx, j.now())
	if err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	if n > 0 {
		slog.Info("Cron: expired sessions purged", "count", n)
	}
	return nil
}

// ReleaseOrphanControllers drops list controllers whose session no longer
// exists or has expired.
func (j *SessionJobs) ReleaseOrphanControllers(ctx context.Context) error {
	now := j.now()
	released := 0

	for _, id := range j.controllers.IDs() {
		sess, err := j.store.Get(ctx, id)
		switch {
		case errors.Is(err, session.ErrSessionNotFound):
		case err != nil:
			return fmt.Errorf("failed to load session %s: %w", id, err)
		case !sess.Expired(now):
			continue
		}
		j.controllers.Remove(id)
		released++
	}

	if released > 0 {
		slog.Info("Cron: orphan controllers released", "count", released)
	}
	return nil
}
