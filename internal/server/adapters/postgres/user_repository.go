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

// UserRepository реализует интерфейс repositories.UserRepository.
type UserRepository struct {
	db DB
}

// NewUserRepository создает новый репозиторий пользователей.
func NewUserRepository(db DB) repositories.UserRepository {
	return &UserRepository{db: db}
}

// Create сохраняет нового пользователя в БД.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", "UserRepository.Create"))
	log.Debug(ctx, "creating new user", zap.String("email", user.Email))

	var created entities.User
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash)
         VALUES ($1, $2, $3)
         RETURNING id, username, email, password_hash, COALESCE(avatar_url, ''), created_at, updated_at`,
		user.Username, user.Email, user.PasswordHash,
	).Scan(&created.ID, &created.Username, &created.Email, &created.PasswordHash,
		&created.AvatarURL, &created.CreatedAt, &created.UpdatedAt)

	if err != nil {
		log.Error(ctx, "failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Debug(ctx, "user created", zap.String("userID", created.ID))
	return &created, nil
}

// FindByID получает пользователя по ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", "UserRepository.FindByID"))
	log.Debug(ctx, "finding user", zap.String("userID", id))

	var user entities.User
	err := r.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, COALESCE(avatar_url, ''), created_at, updated_at
         FROM users
         WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.AvatarURL, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "failed to find user", zap.Error(err))
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

// FindByEmail получает пользователя по email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", "UserRepository.FindByEmail"))
	log.Debug(ctx, "finding user by email")

	var user entities.User
	err := r.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, COALESCE(avatar_url, ''), created_at, updated_at
         FROM users
         WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.AvatarURL, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "failed to find user by email", zap.Error(err))
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return &user, nil
}

// Update обновляет профиль пользователя.
func (r *UserRepository) Update(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", "UserRepository.Update"))
	log.Debug(ctx, "updating user", zap.String("userID", user.ID))

	var updated entities.User
	err := r.db.QueryRow(ctx,
		`UPDATE users
         SET username = $1, avatar_url = NULLIF($2, ''), updated_at = now()
         WHERE id = $3
         RETURNING id, username, email, password_hash, COALESCE(avatar_url, ''), created_at, updated_at`,
		user.Username, user.AvatarURL, user.ID,
	).Scan(&updated.ID, &updated.Username, &updated.Email, &updated.PasswordHash,
		&updated.AvatarURL, &updated.CreatedAt, &updated.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "failed to update user", zap.Error(err))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &updated, nil
}
