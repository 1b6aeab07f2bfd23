// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notesapp/pkg/logger"
)

// ContextKey - ключ в Locals для контекста запроса с request_id.
const ContextKey = "requestContext"

// RequestIDHeader - заголовок ответа с идентификатором запроса.
const RequestIDHeader = "X-Request-ID"

// Сообщения logger.
const (
	LogRequestCompleted = "request completed"
	LogRequestFailed    = "request failed"
	ErrCtxProcessing    = "request processing error"
)

// NewLoggerMiddleware присваивает каждому запросу request_id, кладет
// контекст запроса в Locals и логирует итог обработки. Идентификатор
// возвращается клиенту в заголовке ответа.
func NewLoggerMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := logger.WithNewRequestID(ctx.Context())
		ctx.Locals(ContextKey, requestCtx)

		if id, ok := logger.RequestIDFrom(requestCtx); ok {
			ctx.Set(RequestIDHeader, id)
		}

		start := time.Now()
		err := ctx.Next()

		log := logger.Log(requestCtx).With(
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.Path()),
			zap.String("ip", ctx.IP()),
			zap.Int("status", ctx.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		)

		if err != nil {
			log.Error(requestCtx, LogRequestFailed, zap.Error(err))
			return fmt.Errorf("%s: %w", ErrCtxProcessing, err)
		}

		log.Info(requestCtx, LogRequestCompleted)
		return nil
	}
}
