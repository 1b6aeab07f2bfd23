package services

import (
	"context"
	"time"
)

// SessionClaims содержит данные проверенного сессионного токена.
type SessionClaims struct {
	UserID    string
	Username  string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// SessionTokenService выпускает и проверяет сессионные токены,
// передаваемые в HTTP-only cookie.
type SessionTokenService interface {
	Issue(ctx context.Context, userID, username string) (token string, claims *SessionClaims, err error)
	Validate(ctx context.Context, token string) (*SessionClaims, error)
}

// SessionRevocations хранит отозванные сессии до истечения их срока жизни.
type SessionRevocations interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
