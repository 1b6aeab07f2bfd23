// Package shutdown останавливает приложение по сигналам SIGINT и SIGTERM,
// давая хукам завершения ограниченное время на уборку.
package shutdown

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"notesapp/pkg/logger"
)

// Сообщения logger при завершении.
const (
	LogSignalReceived = "shutdown signal received"
	LogHookFailed     = "shutdown hook failed"
	LogDeadlineHit    = "shutdown deadline exceeded, exiting with pending hooks"
)

// Wait блокируется до сигнала SIGINT или SIGTERM, затем параллельно
// запускает хуки. Хуки, не уложившиеся в timeout, бросаются.
func Wait(timeout time.Duration, hooks ...func(context.Context) error) {
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	<-sigCtx.Done()
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log := logger.Log(ctx)
	log.Info(ctx, LogSignalReceived, zap.Duration("timeout", timeout))

	results := make(chan error, len(hooks))
	for _, hook := range hooks {
		go func(fn func(context.Context) error) {
			results <- fn(ctx)
		}(hook)
	}

	for range hooks {
		select {
		case err := <-results:
			if err != nil {
				log.Warn(ctx, LogHookFailed, zap.Error(err))
			}
		case <-ctx.Done():
			log.Warn(ctx, LogDeadlineHit)
			return
		}
	}
}
