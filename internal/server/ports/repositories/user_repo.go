// Package repositories определяет интерфейсы хранилищ доменных сущностей.
package repositories

import (
	"context"

	"notesapp/internal/server/domain/entities"
)

// UserRepository определяет операции над хранилищем пользователей.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)
	FindByID(ctx context.Context, id string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) (*entities.User, error)
}
