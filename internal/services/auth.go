package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/inkwell-blog/appserver/internal/sessions"
	"github.com/inkwell-blog/appserver/internal/store"
	"github.com/inkwell-blog/appserver/types"
	"golang.org/x/crypto/bcrypt"
)

// Field limits match the column widths. Counted in characters, not bytes.
const (
	maxEmailLen = 500
	maxNameLen  = 500
)

// dummyHash is compared against when authenticating an unknown email, so
// the unknown-email and wrong-password paths cost the same.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user types.User) (types.User, error)
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
}

// AuthService registers and authenticates users and resolves session
// tokens to caller identities. The identity it produces is an explicit
// value handed to every content operation; there is no ambient
// current-user state.
type AuthService struct {
	repo     UserRepository
	sessions sessions.Store
}

func NewAuthService(repo UserRepository, sessionStore sessions.Store) *AuthService {
	return &AuthService{repo: repo, sessions: sessionStore}
}

// Register creates an account and logs it in. The first account ever
// registered becomes the admin. Duplicate emails are reported as
// store.ErrDuplicateEmail without creating a second row.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (types.User, string, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" {
		return types.User{}, "", fmt.Errorf("%w: email is required", ErrValidation)
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return types.User{}, "", fmt.Errorf("%w: email too long", ErrValidation)
	}
	if password == "" {
		return types.User{}, "", fmt.Errorf("%w: password is required", ErrValidation)
	}
	if name == "" {
		return types.User{}, "", fmt.Errorf("%w: name is required", ErrValidation)
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return types.User{}, "", fmt.Errorf("%w: name too long", ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, "", err
	}

	user, err := s.repo.Create(ctx, types.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hashed),
	})
	if err != nil {
		return types.User{}, "", err
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return types.User{}, "", err
	}
	return user, token, nil
}

// Authenticate verifies credentials and opens a session. Every failure is
// ErrInvalidCredentials; the caller cannot tell whether the email exists.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (types.User, string, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return types.User{}, "", ErrInvalidCredentials
		}
		return types.User{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return types.User{}, "", err
	}
	return user, token, nil
}

// Logout invalidates the session; subsequent requests carrying the token
// resolve to the anonymous identity.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// Identify resolves a session token to a caller identity. Unknown and
// expired tokens, and tokens pointing at deleted users, all resolve to
// the anonymous identity.
func (s *AuthService) Identify(ctx context.Context, token string) (types.Identity, error) {
	if token == "" {
		return types.Anonymous(), nil
	}

	userID, err := s.sessions.Get(ctx, token)
	if err != nil {
		return types.Anonymous(), err
	}
	if userID == 0 {
		return types.Anonymous(), nil
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Anonymous(), nil
		}
		return types.Anonymous(), err
	}
	return types.Identity{User: &user}, nil
}
