package sessions

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// PostgresStore keeps sessions in the application database. Expired rows
// are treated as absent and deleted lazily on lookup.
type PostgresStore struct {
	db  *sql.DB
	ttl time.Duration
}

func NewPostgresStore(db *sql.DB, ttl time.Duration) *PostgresStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &PostgresStore{db: db, ttl: ttl}
}

func (s *PostgresStore) Create(ctx context.Context, userID int) (string, error) {
	token := uuid.NewString()
	now := time.Now()

	const query = `
		INSERT INTO sessions (token, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)`
	if _, err := s.db.ExecContext(ctx, query, token, userID, now.Add(s.ttl), now); err != nil {
		return "", err
	}
	return token, nil
}

func (s *PostgresStore) Get(ctx context.Context, token string) (int, error) {
	const query = `SELECT user_id, expires_at FROM sessions WHERE token = $1`

	var userID int
	var expiresAt time.Time
	err := s.db.QueryRowContext(ctx, query, token).Scan(&userID, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}

	if time.Now().After(expiresAt) {
		_ = s.deleteToken(ctx, token)
		return 0, nil
	}
	return userID, nil
}

func (s *PostgresStore) Delete(ctx context.Context, token string) error {
	return s.deleteToken(ctx, token)
}

func (s *PostgresStore) deleteToken(ctx context.Context, token string) error {
	const query = `DELETE FROM sessions WHERE token = $1`
	_, err := s.db.ExecContext(ctx, query, token)
	return err
}

// Cleanup removes all expired sessions. Intended for periodic invocation;
// correctness does not depend on it because Get ignores expired rows.
func (s *PostgresStore) Cleanup(ctx context.Context) error {
	const query = `DELETE FROM sessions WHERE expires_at < $1`
	_, err := s.db.ExecContext(ctx, query, time.Now())
	return err
}
