package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	svc "notesapp/internal/server/ports/services"
	"notesapp/pkg/logger"
)

// Константы для работы с сессией.
const (
	// SessionCookie - имя cookie, несущего сессионный токен.
	SessionCookie = "notes_session"
	// SessionKey - ключ в Locals для claims проверенной сессии.
	SessionKey = "session"

	LogAuthMiddleware = "auth middleware"

	ErrorNoSessionCookie = "no session cookie provided"
	ErrorInvalidSession  = "invalid or expired session"
	ErrorSessionRevoked  = "session has been revoked"
	ErrorSessionCheck    = "failed to verify session"
)

// RequestContext извлекает контекст запроса с request_id из Locals.
func RequestContext(ctx fiber.Ctx) context.Context {
	if reqCtx, ok := ctx.Locals(ContextKey).(context.Context); ok {
		return reqCtx
	}
	return ctx.Context()
}

// SessionClaims извлекает claims проверенной сессии из Locals.
func SessionClaims(ctx fiber.Ctx) (*svc.SessionClaims, bool) {
	claims, ok := ctx.Locals(SessionKey).(*svc.SessionClaims)
	return claims, ok
}

// NewAuthMiddleware создает промежуточное ПО, проверяющее сессионный cookie
// на каждом запросе: подпись и срок токена, затем отсутствие отзыва.
func NewAuthMiddleware(sessionSvc svc.SessionTokenService, revocations svc.SessionRevocations) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := RequestContext(ctx)
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		token := ctx.Cookies(SessionCookie)
		if token == "" {
			log.Debug(requestCtx, ErrorNoSessionCookie)
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": ErrorNoSessionCookie,
			})
		}

		claims, err := sessionSvc.Validate(requestCtx, token)
		if err != nil {
			log.Debug(requestCtx, ErrorInvalidSession, zap.Error(err))
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": ErrorInvalidSession,
			})
		}

		revoked, err := revocations.IsRevoked(requestCtx, claims.TokenID)
		if err != nil {
			log.Error(requestCtx, ErrorSessionCheck, zap.Error(err))
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": ErrorSessionCheck,
			})
		}
		if revoked {
			log.Debug(requestCtx, ErrorSessionRevoked, zap.String("userID", claims.UserID))
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": ErrorSessionRevoked,
			})
		}

		ctx.Locals(SessionKey, claims)

		return ctx.Next()
	}
}
