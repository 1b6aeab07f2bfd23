// Package users содержит HTTP-обработчики для управления профилем пользователя.
package users

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"notesapp/internal/server/app"
	"notesapp/internal/server/http/httperr"
	"notesapp/internal/server/http/middleware"
	"notesapp/pkg/logger"
)

// Константы ошибок и сообщений для логирования.
const (
	LogHandlerGetProfile    = "handling get profile request"
	LogHandlerUpdateProfile = "handling update profile request"

	ErrMsgInvalidRequestBody = "invalid request body"
	ErrMsgUnauthorized       = "unauthorized"
	ErrMsgSaveAvatar         = "failed to save avatar"
)

// UpdateProfileRequest - тело JSON-запроса обновления профиля.
// Отсутствующие поля не изменяются.
type UpdateProfileRequest struct {
	Username *string `json:"username"`
}

// Handler обработчик HTTP-запросов профиля.
type Handler struct {
	userUseCase *app.UserUseCase
	uploadDir   string
}

// NewHandler создает новый экземпляр обработчика профиля.
func NewHandler(userUseCase *app.UserUseCase, uploadDir string) *Handler {
	return &Handler{
		userUseCase: userUseCase,
		uploadDir:   uploadDir,
	}
}

// GetProfile возвращает профиль текущего пользователя.
// Клиент использует этот запрос и как проверку "кто я".
func (h *Handler) GetProfile(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.GetProfile"))
	log.Debug(reqCtx, LogHandlerGetProfile)

	claims, ok := middleware.SessionClaims(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": ErrMsgUnauthorized})
	}

	user, err := h.userUseCase.GetProfile(reqCtx, claims.UserID)
	if err != nil {
		log.Debug(reqCtx, "failed to get profile", zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	if err := ctx.JSON(user); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// UpdateProfile обновляет профиль. Принимает либо JSON,
// либо multipart-форму с полем username и файлом avatar.
func (h *Handler) UpdateProfile(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.UpdateProfile"))
	log.Debug(reqCtx, LogHandlerUpdateProfile)

	claims, ok := middleware.SessionClaims(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": ErrMsgUnauthorized})
	}

	var patch *app.ProfilePatch
	var err error

	if strings.HasPrefix(ctx.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		patch, err = h.multipartPatch(ctx)
		if err != nil {
			log.Error(reqCtx, ErrMsgSaveAvatar, zap.Error(err))
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrMsgSaveAvatar})
		}
	} else {
		var req UpdateProfileRequest
		if err := ctx.Bind().Body(&req); err != nil {
			log.Debug(reqCtx, ErrMsgInvalidRequestBody, zap.Error(err))
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrMsgInvalidRequestBody})
		}
		patch = &app.ProfilePatch{Username: req.Username}
	}

	user, err := h.userUseCase.UpdateProfile(reqCtx, claims.UserID, patch)
	if err != nil {
		log.Debug(reqCtx, "failed to update profile", zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	if err := ctx.JSON(user); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// multipartPatch разбирает multipart-форму: поле username и файл avatar.
// Файл сохраняется под новым уникальным именем, в профиль попадает его URL.
func (h *Handler) multipartPatch(ctx fiber.Ctx) (*app.ProfilePatch, error) {
	patch := &app.ProfilePatch{}

	if username := ctx.FormValue("username"); username != "" {
		patch.Username = &username
	}

	file, err := ctx.FormFile("avatar")
	if err != nil {
		// Форма без файла - допустимый запрос.
		return patch, nil
	}

	filename := uuid.New().String() + filepath.Ext(file.Filename)
	if err := ctx.SaveFile(file, filepath.Join(h.uploadDir, filename)); err != nil {
		return nil, fmt.Errorf("saving avatar file: %w", err)
	}

	avatarURL := "/uploads/" + filename
	patch.AvatarURL = &avatarURL

	return patch, nil
}
