// Package notes содержит HTTP-обработчики для управления заметками.
package notes

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notesapp/internal/server/app"
	"notesapp/internal/server/domain/entities"
	"notesapp/internal/server/http/httperr"
	"notesapp/internal/server/http/middleware"
	"notesapp/internal/server/ports/repositories"
	"notesapp/pkg/logger"
)

// Константы ошибок и сообщений для логирования.
const (
	LogHandlerCreateNote = "handling create note request"
	LogHandlerGetNote    = "handling get note request"
	LogHandlerListNotes  = "handling list notes request"
	LogHandlerUpdateNote = "handling update note request"
	LogHandlerDeleteNote = "handling delete note request"
	LogHandlerShareNote  = "handling share note request"
	LogHandlerListShared = "handling list shared notes request"
	LogHandlerMarkRead   = "handling mark shared note read request"

	ErrMsgInvalidNoteID      = "invalid note id"
	ErrMsgInvalidRequestBody = "invalid request body"
	ErrMsgUnauthorized       = "unauthorized"
)

// CreateNoteRequest - тело запроса создания заметки.
type CreateNoteRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// UpdateNoteRequest - тело запроса частичного обновления заметки.
// Отсутствующие поля не изменяются.
type UpdateNoteRequest struct {
	Title    *string  `json:"title"`
	Content  *string  `json:"content"`
	Category *string  `json:"category"`
	Tags     []string `json:"tags"`
	Favorite *bool    `json:"favorite"`
}

// ShareNoteRequest - тело запроса предоставления общего доступа.
type ShareNoteRequest struct {
	Email      string `json:"email"`
	Permission string `json:"permission"`
}

// Handler обработчик HTTP-запросов для работы с заметками.
type Handler struct {
	noteUseCase *app.NoteUseCase
}

// NewHandler создает новый экземпляр обработчика заметок.
func NewHandler(noteUseCase *app.NoteUseCase) *Handler {
	return &Handler{noteUseCase: noteUseCase}
}

// userID извлекает ID аутентифицированного пользователя из сессии.
func userID(ctx fiber.Ctx) (string, bool) {
	claims, ok := middleware.SessionClaims(ctx)
	if !ok {
		return "", false
	}
	return claims.UserID, true
}

// CreateNote обрабатывает запрос на создание новой заметки.
func (h *Handler) CreateNote(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.CreateNote"))
	log.Debug(reqCtx, LogHandlerCreateNote)

	uid, ok := userID(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": ErrMsgUnauthorized})
	}

	var req CreateNoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(reqCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrMsgInvalidRequestBody})
	}

	note, err := h.noteUseCase.CreateNote(reqCtx, uid, req.Title, req.Content,
		entities.Category(req.Category), req.Tags)
	if err != nil {
		log.Debug(reqCtx, "failed to create note", zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	if err := ctx.Status(fiber.StatusCreated).JSON(note); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// GetNote обрабатывает запрос на получение заметки по ID.
func (h *Handler) GetNote(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.GetNote"))
	log.Debug(reqCtx, LogHandlerGetNote)

	uid, ok := userID(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": ErrMsgUnauthorized})
	}

	noteID := ctx.Params("note_id")
	if noteID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrMsgInvalidNoteID})
	}

	note, err := h.noteUseCase.GetNote(reqCtx, uid, noteID)
	if err != nil {
		log.Debug(reqCtx, "failed to get note", zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	if err := ctx.JSON(note); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// ListNotes обрабатывает запрос на получение списка заметок с серверной
// фильтрацией по категории и поисковой строке.
func (h *Handler) ListNotes(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.ListNotes"))
	log.Debug(reqCtx, LogHandlerListNotes)

	uid, ok := userID(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": ErrMsgUnauthorized})
	}

	filter := repositories.NoteFilter{
		Category: ctx.Query("category"),
		Search:   ctx.Query("search"),
	}

	notes, err := h.noteUseCase.ListNotes(reqCtx, uid, filter)
	if err != nil {
		log.Error(reqCtx, "failed to list notes", zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	if err := ctx.JSON(notes); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// UpdateNote обрабатывает запрос на частичное обновление заметки.
func (h *Handler) UpdateNote(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.UpdateNote"))
	log.Debug(reqCtx, LogHandlerUpdateNote)

	uid, ok := userID(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": ErrMsgUnauthorized})
	}

	noteID := ctx.Params("note_id")
	if noteID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrMsgInvalidNoteID})
	}

	var req UpdateNoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(reqCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrMsgInvalidRequestBody})
	}

	patch := &app.NotePatch{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		Favorite: req.Favorite,
	}
	if req.Category != nil {
		category := entities.Category(*req.Category)
		patch.Category = &category
	}

	note, err := h.noteUseCase.UpdateNote(reqCtx, uid, noteID, patch)
	if err != nil {
		log.Debug(reqCtx, "failed to update note", zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	if err := ctx.JSON(note); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// DeleteNote обрабатывает запрос на удаление заметки.
func (h *Handler) DeleteNote(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.DeleteNote"))
	log.Debug(reqCtx, LogHandlerDeleteNote)

	uid, ok := userID(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": ErrMsgUnauthorized})
	}

	noteID := ctx.Params("note_id")
	if noteID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrMsgInvalidNoteID})
	}

	if err := h.noteUseCase.DeleteNote(reqCtx, uid, noteID); err != nil {
		log.Debug(reqCtx, "failed to delete note", zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

// ShareNote обрабатывает запрос на предоставление доступа к заметке.
func (h *Handler) ShareNote(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.ShareNote"))
	log.Debug(reqCtx, LogHandlerShareNote)

	uid, ok := userID(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": ErrMsgUnauthorized})
	}

	noteID := ctx.Params("note_id")
	if noteID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrMsgInvalidNoteID})
	}

	var req ShareNoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(reqCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrMsgInvalidRequestBody})
	}

	grant, err := h.noteUseCase.ShareNote(reqCtx, uid, noteID, req.Email,
		entities.Permission(req.Permission))
	if err != nil {
		log.Debug(reqCtx, "failed to share note", zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	if err := ctx.Status(fiber.StatusCreated).JSON(grant); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// ListShared обрабатывает запрос на получение заметок, которыми поделились
// с текущим пользователем.
func (h *Handler) ListShared(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.ListShared"))
	log.Debug(reqCtx, LogHandlerListShared)

	uid, ok := userID(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": ErrMsgUnauthorized})
	}

	shared, err := h.noteUseCase.ListShared(reqCtx, uid)
	if err != nil {
		log.Error(reqCtx, "failed to list shared notes", zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	if err := ctx.JSON(shared); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// MarkSharedRead обрабатывает запрос на пометку общей заметки прочитанной.
func (h *Handler) MarkSharedRead(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.MarkSharedRead"))
	log.Debug(reqCtx, LogHandlerMarkRead)

	uid, ok := userID(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": ErrMsgUnauthorized})
	}

	noteID := ctx.Params("note_id")
	if noteID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrMsgInvalidNoteID})
	}

	if err := h.noteUseCase.MarkSharedRead(reqCtx, uid, noteID); err != nil {
		log.Debug(reqCtx, "failed to mark shared note read", zap.Error(err))
		return httperr.Respond(ctx, err)
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}
