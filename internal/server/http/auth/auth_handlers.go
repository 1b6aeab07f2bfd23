// Package auth содержит HTTP-обработчики аутентификации.
package auth

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notesapp/internal/server/app"
	"notesapp/internal/server/http/httperr"
	"notesapp/internal/server/http/middleware"
	"notesapp/pkg/logger"
)

// Константы ошибок и сообщений для логирования.
const (
	LogHandlerRegister = "handling register request"
	LogHandlerLogin    = "handling login request"
	LogHandlerLogout   = "handling logout request"

	ErrMsgInvalidRequestBody = "invalid request body"
)

// RegisterRequest - тело запроса регистрации.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest - тело запроса входа.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Handler обработчик HTTP-запросов аутентификации.
type Handler struct {
	authUseCase *app.AuthUseCase
}

// NewHandler создает новый экземпляр обработчика аутентификации.
func NewHandler(authUseCase *app.AuthUseCase) *Handler {
	return &Handler{authUseCase: authUseCase}
}

// Register обрабатывает запрос на регистрацию нового пользователя.
func (h *Handler) Register(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.Register"))
	log.Debug(reqCtx, LogHandlerRegister)

	var req RegisterRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(reqCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ErrMsgInvalidRequestBody,
		})
	}

	session, err := h.authUseCase.Register(reqCtx, req.Email, req.Username, req.Password)
	if err != nil {
		log.Debug(reqCtx, "registration failed", zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	setSessionCookie(ctx, session)

	if err := ctx.Status(fiber.StatusCreated).JSON(session.User); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Login обрабатывает запрос на вход.
func (h *Handler) Login(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.Login"))
	log.Debug(reqCtx, LogHandlerLogin)

	var req LoginRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(reqCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ErrMsgInvalidRequestBody,
		})
	}

	session, err := h.authUseCase.Login(reqCtx, req.Email, req.Password)
	if err != nil {
		log.Debug(reqCtx, "login failed", zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	setSessionCookie(ctx, session)

	if err := ctx.JSON(session.User); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Logout обрабатывает запрос на выход: отзывает сессию и гасит cookie.
func (h *Handler) Logout(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.Logout"))
	log.Debug(reqCtx, LogHandlerLogout)

	claims, ok := middleware.SessionClaims(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": middleware.ErrorNoSessionCookie,
		})
	}

	if err := h.authUseCase.Logout(reqCtx, claims); err != nil {
		log.Error(reqCtx, "logout failed", zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	clearSessionCookie(ctx)

	return ctx.SendStatus(fiber.StatusNoContent)
}

// setSessionCookie устанавливает HTTP-only cookie с сессионным токеном.
func setSessionCookie(ctx fiber.Ctx, session *app.Session) {
	ctx.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Expires:  session.ExpiresAt,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// clearSessionCookie гасит сессионный cookie.
func clearSessionCookie(ctx fiber.Ctx) {
	ctx.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
