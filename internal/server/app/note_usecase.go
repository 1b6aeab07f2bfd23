package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"notesapp/internal/server/domain/entities"
	"notesapp/internal/server/ports/repositories"
	"notesapp/pkg/logger"
)

const (
	msgCreatingNote      = "creating note"
	msgNoteCreated       = "note created"
	msgListingNotes      = "listing notes"
	msgUpdatingNote      = "updating note"
	msgNoteUpdated       = "note updated"
	msgDeletingNote      = "deleting note"
	msgNoteDeleted       = "note deleted"
	msgSharingNote       = "sharing note"
	msgNoteShared        = "note shared"
	msgListingShared     = "listing shared notes"
	msgMarkingRead       = "marking shared note read"
	msgRecipientNotFound = "share recipient not found"

	errCtxValidatingTitle      = "validating title"
	errCtxValidatingCategory   = "validating category"
	errCtxValidatingPermission = "validating permission"
	errCtxCreatingNote         = "creating note"
	errCtxGettingNote          = "getting note"
	errCtxListingNotes         = "listing notes"
	errCtxUpdatingNote         = "updating note"
	errCtxDeletingNote         = "deleting note"
	errCtxFindingRecipient     = "finding share recipient"
	errCtxCheckingGrant        = "checking existing grant"
	errCtxCreatingGrant        = "creating share grant"
	errCtxListingShared        = "listing shared notes"
	errCtxMarkingRead          = "marking shared note read"
)

// NotePatch описывает частичное обновление заметки. Nil-поля не изменяются.
type NotePatch struct {
	Title    *string
	Content  *string
	Category *entities.Category
	Tags     []string
	Favorite *bool
}

// NoteUseCase реализует бизнес-логику работы с заметками и общим доступом.
type NoteUseCase struct {
	noteRepo  repositories.NoteRepository
	shareRepo repositories.ShareRepository
	userRepo  repositories.UserRepository
}

// NewNoteUseCase создает новый экземпляр NoteUseCase.
func NewNoteUseCase(
	noteRepo repositories.NoteRepository,
	shareRepo repositories.ShareRepository,
	userRepo repositories.UserRepository,
) *NoteUseCase {
	return &NoteUseCase{
		noteRepo:  noteRepo,
		shareRepo: shareRepo,
		userRepo:  userRepo,
	}
}

// CreateNote создает новую заметку для пользователя. Заголовок обязателен,
// категория по умолчанию - personal, дубликаты тегов отбрасываются.
func (uc *NoteUseCase) CreateNote(ctx context.Context, userID, title, content string, category entities.Category, tags []string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteUseCase.CreateNote"), zap.String("userID", userID))
	log.Debug(ctx, msgCreatingNote)

	if title == "" {
		return nil, fmt.Errorf("%s: %w", errCtxValidatingTitle, entities.ErrEmptyTitle)
	}

	note := entities.NewNote(userID, title, content)
	if category != "" {
		if !category.IsValid() {
			return nil, fmt.Errorf("%s: %w", errCtxValidatingCategory, entities.ErrInvalidCategory)
		}
		note.Category = category
	}
	note.Tags = entities.NormalizeTags(tags)

	created, err := uc.noteRepo.Create(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxCreatingNote, err)
	}

	log.Info(ctx, msgNoteCreated, zap.String("noteID", created.ID))
	return created, nil
}

// GetNote возвращает заметку по ID.
func (uc *NoteUseCase) GetNote(ctx context.Context, userID, noteID string) (*entities.Note, error) {
	note, err := uc.noteRepo.GetByID(ctx, noteID, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxGettingNote, err)
	}
	return note, nil
}

// ListNotes возвращает список заметок пользователя с серверной фильтрацией.
func (uc *NoteUseCase) ListNotes(ctx context.Context, userID string, filter repositories.NoteFilter) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteUseCase.ListNotes"), zap.String("userID", userID))
	log.Debug(ctx, msgListingNotes)

	notes, err := uc.noteRepo.ListByUserID(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxListingNotes, err)
	}
	return notes, nil
}

// UpdateNote применяет частичное обновление и возвращает полное серверное
// состояние заметки.
func (uc *NoteUseCase) UpdateNote(ctx context.Context, userID, noteID string, patch *NotePatch) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteUseCase.UpdateNote"), zap.String("noteID", noteID))
	log.Debug(ctx, msgUpdatingNote)

	note, err := uc.noteRepo.GetByID(ctx, noteID, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxGettingNote, err)
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, fmt.Errorf("%s: %w", errCtxValidatingTitle, entities.ErrEmptyTitle)
		}
		note.Title = *patch.Title
	}
	if patch.Content != nil {
		note.Content = *patch.Content
	}
	if patch.Category != nil {
		if !patch.Category.IsValid() {
			return nil, fmt.Errorf("%s: %w", errCtxValidatingCategory, entities.ErrInvalidCategory)
		}
		note.Category = *patch.Category
	}
	if patch.Tags != nil {
		note.Tags = entities.NormalizeTags(patch.Tags)
	}
	if patch.Favorite != nil {
		note.Favorite = *patch.Favorite
	}

	updated, err := uc.noteRepo.Update(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingNote, err)
	}

	log.Info(ctx, msgNoteUpdated)
	return updated, nil
}

// DeleteNote удаляет заметку пользователя.
func (uc *NoteUseCase) DeleteNote(ctx context.Context, userID, noteID string) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteUseCase.DeleteNote"), zap.String("noteID", noteID))
	log.Debug(ctx, msgDeletingNote)

	if err := uc.noteRepo.Delete(ctx, noteID, userID); err != nil {
		return fmt.Errorf("%s: %w", errCtxDeletingNote, err)
	}

	log.Info(ctx, msgNoteDeleted)
	return nil
}

// ShareNote выдает получателю право на заметку. Заметка не копируется,
// и собственный список заметок владельца не меняется.
func (uc *NoteUseCase) ShareNote(ctx context.Context, ownerID, noteID, recipientEmail string, permission entities.Permission) (*entities.ShareGrant, error) {
	log := logger.Log(ctx).With(
		zap.String("method", "NoteUseCase.ShareNote"),
		zap.String("noteID", noteID))
	log.Debug(ctx, msgSharingNote)

	if !permission.IsValid() {
		return nil, fmt.Errorf("%s: %w", errCtxValidatingPermission, entities.ErrInvalidPermission)
	}

	// Делиться можно только собственной заметкой.
	if _, err := uc.noteRepo.GetByID(ctx, noteID, ownerID); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxGettingNote, err)
	}

	recipient, err := uc.userRepo.FindByEmail(ctx, recipientEmail)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgRecipientNotFound)
		}
		return nil, fmt.Errorf("%s: %w", errCtxFindingRecipient, err)
	}
	if recipient.ID == ownerID {
		return nil, fmt.Errorf("%s: %w", errCtxCreatingGrant, entities.ErrShareToSelf)
	}

	exists, err := uc.shareRepo.ExistsForRecipient(ctx, noteID, recipient.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxCheckingGrant, err)
	}
	if exists {
		return nil, fmt.Errorf("%s: %w", errCtxCreatingGrant, entities.ErrAlreadyShared)
	}

	grant, err := uc.shareRepo.Create(ctx, &entities.ShareGrant{
		NoteID:      noteID,
		RecipientID: recipient.ID,
		Permission:  permission,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxCreatingGrant, err)
	}

	log.Info(ctx, msgNoteShared, zap.String("grantID", grant.ID))
	return grant, nil
}

// ListShared возвращает заметки, которыми поделились с пользователем.
func (uc *NoteUseCase) ListShared(ctx context.Context, userID string) ([]*entities.SharedNote, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteUseCase.ListShared"), zap.String("userID", userID))
	log.Debug(ctx, msgListingShared)

	shared, err := uc.shareRepo.ListSharedWithUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxListingShared, err)
	}
	return shared, nil
}

// MarkSharedRead помечает общую заметку прочитанной для пользователя.
func (uc *NoteUseCase) MarkSharedRead(ctx context.Context, userID, noteID string) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteUseCase.MarkSharedRead"), zap.String("noteID", noteID))
	log.Debug(ctx, msgMarkingRead)

	if err := uc.shareRepo.MarkRead(ctx, noteID, userID); err != nil {
		return fmt.Errorf("%s: %w", errCtxMarkingRead, err)
	}
	return nil
}
