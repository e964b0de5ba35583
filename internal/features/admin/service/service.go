package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"alertcast/internal/core/cache"
	"alertcast/internal/core/logger"
	"alertcast/internal/features/admin/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sessionKeyPrefix = "admin:session:"

// AuthServiceImpl implements ports.AuthService with cache-backed sessions so
// tokens survive server restarts and expire on their own.
type AuthServiceImpl struct {
	cache      cache.Cache
	username   string
	password   string
	sessionTTL time.Duration
}

// NewAuthService creates a new AuthServiceImpl against the configured
// operator credentials.
func NewAuthService(c cache.Cache, username, password string, sessionTTL time.Duration) *AuthServiceImpl {
	return &AuthServiceImpl{
		cache:      c,
		username:   username,
		password:   password,
		sessionTTL: sessionTTL,
	}
}

// Login validates the credentials and mints a session token.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !userOK || !passOK {
		return "", domain.ErrInvalidCredentials
	}

	token := uuid.NewString()
	if err := s.cache.Set(ctx, sessionKeyPrefix+token, []byte(username), s.sessionTTL); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	logger.Get().Info("Admin logged in", zap.String("username", username))
	return token, nil
}

// Validate checks a bearer token against the active sessions.
func (s *AuthServiceImpl) Validate(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrInvalidToken
	}

	if _, err := s.cache.Get(ctx, sessionKeyPrefix+token); err != nil {
		return domain.ErrInvalidToken
	}
	return nil
}

// Logout revokes a session token.
func (s *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if err := s.cache.Delete(ctx, sessionKeyPrefix+token); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}
