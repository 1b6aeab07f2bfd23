package middleware

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notesapp/pkg/logger"
)

// Сообщения logger при панике обработчика.
const (
	LogHandlerPanic   = "panic recovered in handler"
	ErrCtxPanicReport = "failed to write response after panic"

	msgInternalError = "internal server error"
)

// NewRecoveryMiddleware перехватывает панику обработчика и отвечает
// клиенту статусом 500 вместо обрыва соединения.
func NewRecoveryMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			requestCtx := RequestContext(ctx)
			logger.Log(requestCtx).Error(requestCtx, LogHandlerPanic,
				zap.Any("panic", r),
				zap.String("method", ctx.Method()),
				zap.String("path", ctx.Path()),
				zap.ByteString("stack", debug.Stack()),
			)

			err := ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": msgInternalError,
			})
			if err != nil {
				logger.Log(requestCtx).Error(requestCtx, ErrCtxPanicReport, zap.Error(err))
			}
		}()

		return ctx.Next()
	}
}
