package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	svc "notesapp/internal/server/ports/services"
	"notesapp/pkg/logger"
)

// Константы для работы с сессионными токенами.
const (
	methodIssueSessionToken    = "Issue"
	methodValidateSessionToken = "Validate"

	msgIssuingToken    = "issuing session token"
	msgTokenIssued     = "session token issued"
	msgValidatingToken = "validating session token"
	msgTokenValidated  = "session token validated"
	msgTokenExpired    = "session token has expired"
	msgInvalidToken    = "invalid session token"

	//nolint:gosec
	errSigningToken       = "error signing session token"
	errCtxIssuingToken    = "issuing session token"
	errCtxValidatingToken = "validating session token"
)

// Ошибки сервиса сессионных токенов.
var (
	ErrInvalidAlgorithm    = errors.New("invalid signing algorithm")
	ErrInvalidSessionToken = errors.New("invalid session token")
	ErrExpiredSessionToken = errors.New("session token expired")
)

// sessionClaims адаптирует доменные claims к формату библиотеки JWT.
type sessionClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionJWT реализует SessionTokenService поверх подписанных JWT.
// Токен передается клиенту в HTTP-only cookie.
type SessionJWT struct {
	secretKey  []byte
	sessionTTL time.Duration
}

// NewSessionJWT создает новый сервис сессионных токенов.
func NewSessionJWT(secretKey string, sessionTTL time.Duration) svc.SessionTokenService {
	return &SessionJWT{
		secretKey:  []byte(secretKey),
		sessionTTL: sessionTTL,
	}
}

// Issue выпускает новый сессионный токен для пользователя.
func (s *SessionJWT) Issue(ctx context.Context, userID, username string) (string, *svc.SessionClaims, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodIssueSessionToken),
		zap.String("userID", userID),
	)
	log.Debug(ctx, msgIssuingToken)

	if len(s.secretKey) == 0 {
		log.Error(ctx, "empty secret key provided")
		return "", nil, fmt.Errorf("%s: %w: empty secret key", errCtxIssuingToken, ErrInvalidSessionToken)
	}

	now := time.Now()
	claims := &svc.SessionClaims{
		UserID:    userID,
		Username:  username,
		TokenID:   uuid.New().String(),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		UserID:   claims.UserID,
		Username: claims.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        claims.TokenID,
			Subject:   claims.UserID,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	})

	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		log.Error(ctx, errSigningToken, zap.Error(err))
		return "", nil, fmt.Errorf("%s: %w", errCtxIssuingToken, err)
	}

	log.Debug(ctx, msgTokenIssued, zap.Time("expiresAt", claims.ExpiresAt))
	return tokenString, claims, nil
}

// Validate проверяет сессионный токен и возвращает его claims.
func (s *SessionJWT) Validate(ctx context.Context, tokenString string) (*svc.SessionClaims, error) {
	log := logger.Log(ctx).With(zap.String("method", methodValidateSessionToken))
	log.Debug(ctx, msgValidatingToken)

	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAlgorithm, token.Header["alg"])
		}
		return s.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug(ctx, msgTokenExpired)
			return nil, fmt.Errorf("%s: %w", errCtxValidatingToken, ErrExpiredSessionToken)
		}
		log.Debug(ctx, msgInvalidToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxValidatingToken, ErrInvalidSessionToken, err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		log.Debug(ctx, msgInvalidToken)
		return nil, fmt.Errorf("%s: %w", errCtxValidatingToken, ErrInvalidSessionToken)
	}

	if claims.UserID == "" {
		log.Debug(ctx, "user_id claim is empty")
		return nil, fmt.Errorf("%s: %w: empty user_id", errCtxValidatingToken, ErrInvalidSessionToken)
	}

	result := &svc.SessionClaims{
		UserID:   claims.UserID,
		Username: claims.Username,
		TokenID:  claims.ID,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}

	log.Debug(ctx, msgTokenValidated, zap.String("userID", claims.UserID))
	return result, nil
}
