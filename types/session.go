package types

import "time"

// Session binds an opaque cookie token to a logged-in user. Sessions are
// created at register/login, destroyed at logout, and expire after the
// configured TTL otherwise.
type Session struct {
	Token     string    `json:"token" db:"token"`
	UserID    int       `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
