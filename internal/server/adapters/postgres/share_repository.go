package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"notesapp/internal/server/domain/entities"
	"notesapp/internal/server/ports/repositories"
	"notesapp/pkg/logger"
)

// ShareRepository реализует интерфейс repositories.ShareRepository.
type ShareRepository struct {
	db DB
}

// NewShareRepository создает новый репозиторий прав общего доступа.
func NewShareRepository(db DB) repositories.ShareRepository {
	return &ShareRepository{db: db}
}

// Create сохраняет новое право общего доступа.
func (r *ShareRepository) Create(ctx context.Context, grant *entities.ShareGrant) (*entities.ShareGrant, error) {
	log := logger.Log(ctx).With(zap.String("method", "ShareRepository.Create"))
	log.Debug(ctx, "creating share grant",
		zap.String("noteID", grant.NoteID),
		zap.String("recipientID", grant.RecipientID))

	var created entities.ShareGrant
	err := r.db.QueryRow(ctx,
		`INSERT INTO note_shares (note_id, recipient_id, permission)
         VALUES ($1, $2, $3)
         RETURNING id, note_id, recipient_id, permission, read, shared_at`,
		grant.NoteID, grant.RecipientID, grant.Permission,
	).Scan(&created.ID, &created.NoteID, &created.RecipientID,
		&created.Permission, &created.Read, &created.SharedAt)

	if err != nil {
		log.Error(ctx, "failed to create share grant", zap.Error(err))
		return nil, fmt.Errorf("failed to create share grant: %w", err)
	}

	log.Debug(ctx, "share grant created", zap.String("grantID", created.ID))
	return &created, nil
}

// ExistsForRecipient проверяет, выдано ли уже право на заметку получателю.
func (r *ShareRepository) ExistsForRecipient(ctx context.Context, noteID, recipientID string) (bool, error) {
	log := logger.Log(ctx).With(zap.String("method", "ShareRepository.ExistsForRecipient"))

	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM note_shares WHERE note_id = $1 AND recipient_id = $2)`,
		noteID, recipientID,
	).Scan(&exists)
	if err != nil {
		log.Error(ctx, "failed to check share grant", zap.Error(err))
		return false, fmt.Errorf("failed to check share grant: %w", err)
	}

	return exists, nil
}

// ListSharedWithUser получает список заметок, которыми поделились с пользователем,
// вместе с данными об авторе и времени предоставления доступа.
func (r *ShareRepository) ListSharedWithUser(ctx context.Context, recipientID string) ([]*entities.SharedNote, error) {
	log := logger.Log(ctx).With(zap.String("method", "ShareRepository.ListSharedWithUser"))
	log.Debug(ctx, "listing shared notes", zap.String("recipientID", recipientID))

	rows, err := r.db.Query(ctx,
		`SELECT n.id, n.user_id, n.title, n.content, n.category, n.tags, n.favorite,
                n.created_at, n.updated_at,
                u.username, s.permission, s.read, s.shared_at
         FROM note_shares s
         JOIN notes n ON n.id = s.note_id
         JOIN users u ON u.id = n.user_id
         WHERE s.recipient_id = $1
         ORDER BY s.shared_at DESC`,
		recipientID,
	)
	if err != nil {
		log.Error(ctx, "failed to list shared notes", zap.Error(err))
		return nil, fmt.Errorf("failed to list shared notes: %w", err)
	}
	defer rows.Close()

	shared := make([]*entities.SharedNote, 0)
	for rows.Next() {
		var sn entities.SharedNote
		err := rows.Scan(&sn.ID, &sn.UserID, &sn.Title, &sn.Content, &sn.Category,
			&sn.Tags, &sn.Favorite, &sn.CreatedAt, &sn.UpdatedAt,
			&sn.Author, &sn.Permission, &sn.Read, &sn.SharedAt)
		if err != nil {
			log.Error(ctx, "failed to scan shared note", zap.Error(err))
			return nil, fmt.Errorf("failed to scan shared note: %w", err)
		}
		if sn.Tags == nil {
			sn.Tags = []string{}
		}
		shared = append(shared, &sn)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return shared, nil
}

// MarkRead помечает общую заметку прочитанной для получателя.
func (r *ShareRepository) MarkRead(ctx context.Context, noteID, recipientID string) error {
	log := logger.Log(ctx).With(zap.String("method", "ShareRepository.MarkRead"))
	log.Debug(ctx, "marking shared note read", zap.String("noteID", noteID))

	result, err := r.db.Exec(ctx,
		`UPDATE note_shares SET read = TRUE WHERE note_id = $1 AND recipient_id = $2`,
		noteID, recipientID,
	)
	if err != nil {
		log.Error(ctx, "failed to mark shared note read", zap.Error(err))
		return fmt.Errorf("failed to mark shared note read: %w", err)
	}

	if result.RowsAffected() == 0 {
		return entities.ErrNoteNotFound
	}

	return nil
}
