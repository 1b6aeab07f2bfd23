package logger

import (
	"context"

	"github.com/google/uuid"
)

// ctxKeyRequestID - ключ контекста для идентификатора запроса.
type ctxKeyRequestID struct{}

// WithNewRequestID помечает контекст идентификатором запроса.
// Уже присвоенный идентификатор сохраняется, чтобы все записи
// одного запроса несли одно и то же значение.
func WithNewRequestID(ctx context.Context) context.Context {
	if _, ok := RequestIDFrom(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, ctxKeyRequestID{}, uuid.NewString())
}

// RequestIDFrom извлекает идентификатор запроса из контекста.
func RequestIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKeyRequestID{}).(string)
	return id, ok && id != ""
}
