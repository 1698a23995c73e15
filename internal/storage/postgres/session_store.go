// Package postgres stores sessions in PostgreSQL for deployments that already
// run one alongside MongoDB.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jayramgit94/AirBnb-DB-project/internal/domain"
)

const schema = `
	CREATE TABLE IF NOT EXISTS sessions (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL DEFAULT '',
		username    TEXT NOT NULL DEFAULT '',
		return_to   TEXT NOT NULL DEFAULT '',
		expires_at  TIMESTAMPTZ NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions (expires_at);
`

// Connect opens a pool and verifies it with a ping
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// SessionStore implements session persistence using PostgreSQL
type SessionStore struct {
	pool *pgxpool.Pool
}

// NewSessionStore creates the sessions table if needed
func NewSessionStore(ctx context.Context, pool *pgxpool.Pool) (*SessionStore, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("create sessions table: %w", err)
	}
	return &SessionStore{pool: pool}, nil
}

// SaveSession inserts or replaces a session
func (s *SessionStore) SaveSession(ctx context.Context, sess *domain.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, username, return_to, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			username = EXCLUDED.username,
			return_to = EXCLUDED.return_to,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.pool.Exec(ctx, query,
		sess.ID, sess.UserID, sess.Username, sess.ReturnTo, sess.ExpiresAt, sess.CreatedAt, sess.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// GetSession retrieves an unexpired session by id
func (s *SessionStore) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	query := `
		SELECT id, user_id, username, return_to, expires_at, created_at, updated_at
		FROM sessions WHERE id = $1 AND expires_at > NOW()
	`
	sess := &domain.Session{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&sess.ID, &sess.UserID, &sess.Username, &sess.ReturnTo, &sess.ExpiresAt, &sess.CreatedAt, &sess.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// DeleteSession removes a session
func (s *SessionStore) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes all expired sessions
func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
