// Package redis содержит хранилище отозванных сессий на основе Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	svc "notesapp/internal/server/ports/services"
	db "notesapp/pkg/db/redis"
	"notesapp/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodRevoke    = "revoke"
	LogMethodIsRevoked = "is_revoked"

	ErrorFailedToRevoke = "failed to store session revocation"
	ErrorFailedToCheck  = "failed to check session revocation"
)

const revocationKeyPrefix = "session:revoked:"

// SessionRevocations реализует хранилище отозванных сессий.
// Ключ живет столько, сколько осталось жить самому токену.
type SessionRevocations struct {
	client *db.Client
}

// NewSessionRevocations создает новое хранилище отозванных сессий.
func NewSessionRevocations(client *db.Client) svc.SessionRevocations {
	return &SessionRevocations{client: client}
}

// Revoke помечает сессию отозванной до истечения её срока жизни.
func (s *SessionRevocations) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodRevoke), zap.String("tokenID", tokenID))

	if ttl <= 0 {
		// Токен уже истек, отзывать нечего.
		return nil
	}

	if err := s.client.Set(ctx, revocationKeyPrefix+tokenID, "1", ttl); err != nil {
		log.Error(ctx, ErrorFailedToRevoke, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToRevoke, err)
	}

	return nil
}

// IsRevoked проверяет, отозвана ли сессия.
func (s *SessionRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodIsRevoked), zap.String("tokenID", tokenID))

	exists, err := s.client.Exists(ctx, revocationKeyPrefix+tokenID)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		log.Error(ctx, ErrorFailedToCheck, zap.Error(err))
		return false, fmt.Errorf("%s: %w", ErrorFailedToCheck, err)
	}

	return exists, nil
}
