package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-console/internal/domain/session"
	"github.com/cmlabs-hris/hris-console/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const sessionSchema = `
	CREATE TABLE IF NOT EXISTS console_sessions (
		id           TEXT PRIMARY KEY,
		access_token TEXT NOT NULL,
		username     TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expires_at   TIMESTAMPTZ
	)
`

const sessionExpiryIndex = `
	CREATE INDEX IF NOT EXISTS console_sessions_expires_at_idx
	ON console_sessions (expires_at)
	WHERE expires_at IS NOT NULL
`

type sessionRepositoryImpl struct {
	db *database.DB
}

// NewSessionRepository creates a session.Store backed by the console_sessions table.
func NewSessionRepository(db *database.DB) session.Store {
	return &sessionRepositoryImpl{db: db}
}

// EnsureSessionSchema creates the console_sessions table and its expiry index.
func EnsureSessionSchema(ctx context.Context, db *database.DB) error {
	return WithTransaction(ctx, db, func(ctx context.Context) error {
		q := GetQuerier(ctx, db)
		if _, err := q.Exec(ctx, sessionSchema); err != nil {
			return fmt.Errorf("create console_sessions: %w", err)
		}
		if _, err := q.Exec(ctx, sessionExpiryIndex); err != nil {
			return fmt.Errorf("create console_sessions index: %w", err)
		}
		return nil
	})
}

func (r *sessionRepositoryImpl) Save(ctx context.Context, s *session.Session) error {
	if s == nil || s.ID == "" {
		return session.ErrInvalidSession
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO console_sessions (id, access_token, username, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET access_token = EXCLUDED.access_token,
			username = EXCLUDED.username,
			expires_at = EXCLUDED.expires_at
	`
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := q.Exec(ctx, query, s.ID, s.AccessToken, s.Username, createdAt.UTC(), nullableTime(s.ExpiresAt))
	return err
}

func (r *sessionRepositoryImpl) Get(ctx context.Context, id string) (*session.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, access_token, username, created_at, expires_at
		FROM console_sessions
		WHERE id = $1
	`
	var (
		s         session.Session
		expiresAt *time.Time
	)
	err := q.QueryRow(ctx, query, id).Scan(&s.ID, &s.AccessToken, &s.Username, &s.CreatedAt, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrSessionNotFound
		}
		return nil, err
	}
	if expiresAt != nil {
		s.ExpiresAt = *expiresAt
	}
	return &s, nil
}

func (r *sessionRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `DELETE FROM console_sessions WHERE id = $1`, id)
	return err
}

func (r *sessionRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM console_sessions
		WHERE expires_at IS NOT NULL AND expires_at <= $1
	`
	tag, err := q.Exec(ctx, query, now.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}
