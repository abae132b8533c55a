package roster

import (
	"log/slog"
	"sync"

	"github.com/cmlabs-hris/hris-console/internal/domain/employee"
	"github.com/cmlabs-hris/hris-console/internal/domain/session"
)

// Registry keeps one Controller per console session.
type Registry struct {
	mu          sync.Mutex
	dir         employee.Directory
	opts        Options
	logger      *slog.Logger
	controllers map[string]*Controller
}

func NewRegistry(dir employee.Directory, opts Options, logger *slog.Logger) *Registry {
	return &Registry{
		dir:         dir,
		opts:        opts,
		logger:      logger,
		controllers: make(map[string]*Controller),
	}
}

// For returns the controller of sess, creating it on first use. A controller
// whose session carried a different token is replaced.
func (r *Registry) For(sess *session.Session) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.controllers[sess.ID]; ok {
		if c.sess.AccessToken == sess.AccessToken {
			return c
		}
		c.Close()
	}

	c := New(r.dir, sess, r.opts, r.logger)
	r.controllers[sess.ID] = c
	return c
}

// Remove closes and forgets the controller of a session.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.controllers[sessionID]; ok {
		c.Close()
		delete(r.controllers, sessionID)
	}
}

// IDs lists the session ids that currently own a controller.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.controllers))
	for id := range r.controllers {
		ids = append(ids, id)
	}
	return ids
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}

// Close closes every controller.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.controllers {
		c.Close()
		delete(r.controllers, id)
	}
}
