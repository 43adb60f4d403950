package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/inkwell-blog/appserver/types"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const insertUserQuery = `
	INSERT INTO users (email, name, role, password_hash, created_at, updated_at)
	VALUES ($1, $2,
		(SELECT CASE WHEN EXISTS (SELECT 1 FROM users) THEN 'user' ELSE 'admin' END),
		$3, $4, $5)
	RETURNING id, role`

const insertRegularUserQuery = `
	INSERT INTO users (email, name, role, password_hash, created_at, updated_at)
	VALUES ($1, $2, 'user', $3, $4, $5)
	RETURNING id, role`

// Create inserts a new user. The very first row gets the admin role,
// every later one the user role. The EXISTS check alone is not enough
// under READ COMMITTED: two concurrent first registrations each see an
// empty table in their own snapshot. The partial unique index on the
// admin role lets only one of them commit; the loser is reinserted as a
// regular user. A duplicate email is reported as ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	err := r.insertUser(ctx, insertUserQuery, &user)
	if isSingleAdminViolation(err) {
		err = r.insertUser(ctx, insertRegularUserQuery, &user)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return types.User{}, ErrDuplicateEmail
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) insertUser(ctx context.Context, query string, user *types.User) error {
	return r.db.QueryRowContext(
		ctx,
		query,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID, &user.Role)
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	const query = `
		SELECT id, email, name, role, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail looks up a user by exact, case-sensitive email match.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	const query = `
		SELECT id, email, name, role, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) scanUser(row *sql.Row) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Role,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}
