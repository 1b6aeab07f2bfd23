// Package httperr отображает доменные ошибки в единый формат HTTP-ответа.
// Тело ошибки всегда JSON-объект с полем "error".
package httperr

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"notesapp/internal/server/app"
	"notesapp/internal/server/domain/entities"
)

// Respond отправляет клиенту ответ об ошибке с подходящим статусом.
func Respond(ctx fiber.Ctx, err error) error {
	return ctx.Status(statusFor(err)).JSON(fiber.Map{
		"error": messageFor(err),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, entities.ErrUserNotFound),
		errors.Is(err, entities.ErrNoteNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, app.ErrEmailAlreadyExists),
		errors.Is(err, entities.ErrAlreadyShared):
		return fiber.StatusConflict
	case errors.Is(err, app.ErrInvalidEmail),
		errors.Is(err, app.ErrWeakPassword),
		errors.Is(err, entities.ErrEmptyTitle),
		errors.Is(err, entities.ErrEmptyUsername),
		errors.Is(err, entities.ErrInvalidCategory),
		errors.Is(err, entities.ErrInvalidPermission),
		errors.Is(err, entities.ErrShareToSelf):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// messageFor возвращает сообщение для клиента. Внутренние ошибки
// не раскрываются наружу.
func messageFor(err error) string {
	for _, known := range []error{
		app.ErrInvalidCredentials,
		app.ErrEmailAlreadyExists,
		app.ErrInvalidEmail,
		app.ErrWeakPassword,
		entities.ErrUserNotFound,
		entities.ErrNoteNotFound,
		entities.ErrEmptyTitle,
		entities.ErrEmptyUsername,
		entities.ErrInvalidCategory,
		entities.ErrInvalidPermission,
		entities.ErrShareToSelf,
		entities.ErrAlreadyShared,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "internal server error"
}
