package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"notesapp/internal/server/domain/entities"
	"notesapp/internal/server/ports/repositories"
	"notesapp/pkg/logger"
)

const noteColumns = `id, user_id, title, content, category, tags, favorite, created_at, updated_at`

// NoteRepository реализует интерфейс repositories.NoteRepository.
type NoteRepository struct {
	db DB
}

// NewNoteRepository создает новый репозиторий заметок.
func NewNoteRepository(db DB) repositories.NoteRepository {
	return &NoteRepository{db: db}
}

func scanNote(row pgx.Row) (*entities.Note, error) {
	var note entities.Note
	err := row.Scan(&note.ID, &note.UserID, &note.Title, &note.Content,
		&note.Category, &note.Tags, &note.Favorite, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if note.Tags == nil {
		note.Tags = []string{}
	}
	return &note, nil
}

// Create сохраняет новую заметку в БД и возвращает её в серверном виде,
// включая присвоенный id и временные метки.
func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Create"))
	log.Debug(ctx, "creating new note", zap.String("userID", note.UserID))

	created, err := scanNote(r.db.QueryRow(ctx,
		`INSERT INTO notes (user_id, title, content, category, tags, favorite)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING `+noteColumns,
		note.UserID, note.Title, note.Content, note.Category, note.Tags, note.Favorite,
	))
	if err != nil {
		log.Error(ctx, "failed to create note", zap.Error(err))
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	log.Debug(ctx, "note created", zap.String("noteID", created.ID))
	return created, nil
}

// GetByID получает заметку по ID и ID пользователя.
func (r *NoteRepository) GetByID(ctx context.Context, noteID, userID string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.GetByID"))
	log.Debug(ctx, "getting note", zap.String("noteID", noteID), zap.String("userID", userID))

	note, err := scanNote(r.db.QueryRow(ctx,
		`SELECT `+noteColumns+`
         FROM notes
         WHERE id = $1 AND user_id = $2`,
		noteID, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.String("noteID", noteID))
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, "failed to get note", zap.Error(err))
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return note, nil
}

// ListByUserID получает список заметок пользователя с серверной фильтрацией
// по категории и поисковой строке.
func (r *NoteRepository) ListByUserID(ctx context.Context, userID string, filter repositories.NoteFilter) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.ListByUserID"))
	log.Debug(ctx, "listing notes",
		zap.String("userID", userID),
		zap.String("category", filter.Category),
		zap.String("search", filter.Search))

	query := `SELECT ` + noteColumns + ` FROM notes WHERE user_id = $1`
	args := []any{userID}

	switch filter.Category {
	case "", "all":
	case "favorites":
		query += ` AND favorite = TRUE`
	default:
		args = append(args, filter.Category)
		query += fmt.Sprintf(` AND category = $%d`, len(args))
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		query += fmt.Sprintf(
			` AND (title ILIKE $%d OR content ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE $%d))`,
			n, n, n)
	}

	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		log.Error(ctx, "failed to list notes", zap.Error(err))
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*entities.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			log.Error(ctx, "failed to scan note", zap.Error(err))
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return notes, nil
}

// Update обновляет существующую заметку и возвращает её серверное состояние.
func (r *NoteRepository) Update(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Update"))
	log.Debug(ctx, "updating note", zap.String("noteID", note.ID))

	updated, err := scanNote(r.db.QueryRow(ctx,
		`UPDATE notes
         SET title = $1, content = $2, category = $3, tags = $4, favorite = $5, updated_at = now()
         WHERE id = $6 AND user_id = $7
         RETURNING `+noteColumns,
		note.Title, note.Content, note.Category, note.Tags, note.Favorite, note.ID, note.UserID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found or not owned by user")
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, "failed to update note", zap.Error(err))
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return updated, nil
}

// Delete удаляет заметку.
func (r *NoteRepository) Delete(ctx context.Context, noteID, userID string) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Delete"))
	log.Debug(ctx, "deleting note", zap.String("noteID", noteID))

	result, err := r.db.Exec(ctx,
		`DELETE FROM notes WHERE id = $1 AND user_id = $2`,
		noteID, userID,
	)
	if err != nil {
		log.Error(ctx, "failed to delete note", zap.Error(err))
		return fmt.Errorf("failed to delete note: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "note not found or not owned by user")
		return entities.ErrNoteNotFound
	}

	return nil
}
