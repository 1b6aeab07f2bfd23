package repositories

import (
	"context"

	"notesapp/internal/server/domain/entities"
)

// ShareRepository определяет операции над хранилищем прав общего доступа.
type ShareRepository interface {
	Create(ctx context.Context, grant *entities.ShareGrant) (*entities.ShareGrant, error)
	ExistsForRecipient(ctx context.Context, noteID, recipientID string) (bool, error)
	ListSharedWithUser(ctx context.Context, recipientID string) ([]*entities.SharedNote, error)
	MarkRead(ctx context.Context, noteID, recipientID string) error
}
