package repositories

import (
	"context"

	"notesapp/internal/server/domain/entities"
)

// NoteFilter задает серверную фильтрацию списка заметок.
// Пустые поля означают отсутствие фильтра.
type NoteFilter struct {
	Category string
	Search   string
}

// NoteRepository определяет операции над хранилищем заметок.
type NoteRepository interface {
	Create(ctx context.Context, note *entities.Note) (*entities.Note, error)
	GetByID(ctx context.Context, noteID, userID string) (*entities.Note, error)
	ListByUserID(ctx context.Context, userID string, filter NoteFilter) ([]*entities.Note, error)
	Update(ctx context.Context, note *entities.Note) (*entities.Note, error)
	Delete(ctx context.Context, noteID, userID string) error
}
