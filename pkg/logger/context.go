package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ctxKeyLogger - ключ контекста для logger, тип исключает коллизии.
type ctxKeyLogger struct{}

var (
	globalMu     sync.RWMutex
	globalLogger *Logger

	fallbackOnce sync.Once
	fallback     *Logger
)

// NewContext возвращает контекст с привязанным logger.
func NewContext(ctx context.Context, log *Logger) context.Context {
	return context.WithValue(ctx, ctxKeyLogger{}, log)
}

// SetGlobalLogger устанавливает logger, используемый Log
// для контекстов без собственного logger.
func SetGlobalLogger(log *Logger) {
	globalMu.Lock()
	globalLogger = log
	globalMu.Unlock()
}

// Log возвращает logger запроса: сначала из контекста, затем глобальный.
// Без того и другого используется резервный logger уровня Warn,
// поэтому вызов безопасен в любой точке программы.
func Log(ctx context.Context) *Logger {
	if log, ok := ctx.Value(ctxKeyLogger{}).(*Logger); ok {
		return log
	}

	globalMu.RLock()
	log := globalLogger
	globalMu.RUnlock()
	if log != nil {
		return log
	}

	return fallbackLogger()
}

func fallbackLogger() *Logger {
	fallbackOnce.Do(func() {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		zapLogger, _ := config.Build()
		fallback = &Logger{l: zapLogger.With(zap.String("logger", "fallback"))}
	})
	return fallback
}
