// Package sessions tracks logged-in identities behind opaque cookie
// tokens. Two backends are available: a postgres table (default, shares
// the application database) and redis (TTL handled by the server).
package sessions

import "context"

// Store defines the session operations used by the auth service.
//
// Get returns (0, nil) for an unknown or expired token: an invalid
// session degrades to an anonymous caller rather than an error.
type Store interface {
	Create(ctx context.Context, userID int) (string, error)
	Get(ctx context.Context, token string) (int, error)
	Delete(ctx context.Context, token string) error
}
