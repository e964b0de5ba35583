package ports

import "context"

// AuthService defines the primary port for admin authentication.
type AuthService interface {
	// Login validates the operator credentials and mints a session token.
	Login(ctx context.Context, username, password string) (string, error)
	// Validate checks a bearer token against the active sessions.
	Validate(ctx context.Context, token string) error
	// Logout revokes a session token.
	Logout(ctx context.Context, token string) error
}
