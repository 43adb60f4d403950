package types

import "time"

// Role values assignable to a user account.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents a registered account.
//
// Exactly one admin account exists by convention: the first account ever
// registered receives RoleAdmin, every later one RoleUser. The role column
// is the single point of trust for every privileged operation.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Email is the user's login email. Unique, matched case-sensitively.
	Email string `json:"email" db:"email"`

	// Name is the user's display name.
	Name string `json:"name" db:"name"`

	// Role is either RoleAdmin or RoleUser.
	Role string `json:"role" db:"role"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// The plaintext password is never persisted and the hash is never
	// exposed in rendered pages.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Identity is the caller identity threaded through every service
// operation. A zero Identity is the anonymous visitor.
type Identity struct {
	User *User
}

// Anonymous returns the identity of an unauthenticated visitor.
func Anonymous() Identity {
	return Identity{}
}

// IsAnonymous reports whether the identity carries no authenticated user.
func (i Identity) IsAnonymous() bool {
	return i.User == nil
}

// IsAdmin reports whether the identity belongs to the admin account.
func (i Identity) IsAdmin() bool {
	return i.User != nil && i.User.IsAdmin()
}

// UserID returns the authenticated user's id, or 0 for anonymous callers.
func (i Identity) UserID() int {
	if i.User == nil {
		return 0
	}
	return i.User.ID
}
