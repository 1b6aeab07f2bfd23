package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"notesapp/internal/server/domain/entities"
	"notesapp/internal/server/ports/repositories"
	"notesapp/pkg/logger"
)

const (
	msgGettingProfile  = "getting user profile"
	msgUpdatingProfile = "updating user profile"
	msgProfileUpdated  = "user profile updated"

	errCtxGettingProfile  = "getting user profile"
	errCtxUpdatingProfile = "updating user profile"
)

// ProfilePatch описывает частичное обновление профиля. Nil-поля не изменяются.
type ProfilePatch struct {
	Username  *string
	AvatarURL *string
}

// UserUseCase реализует операции над профилем пользователя.
type UserUseCase struct {
	userRepo repositories.UserRepository
}

// NewUserUseCase создает новый экземпляр UserUseCase.
func NewUserUseCase(userRepo repositories.UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

// GetProfile возвращает профиль текущего пользователя.
// Используется также как проверка "кто я" при восстановлении сессии.
func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", "UserUseCase.GetProfile"), zap.String("userID", userID))
	log.Debug(ctx, msgGettingProfile)

	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxGettingProfile, err)
	}
	return user, nil
}

// UpdateProfile применяет частичное обновление профиля.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, patch *ProfilePatch) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", "UserUseCase.UpdateProfile"), zap.String("userID", userID))
	log.Debug(ctx, msgUpdatingProfile)

	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxGettingProfile, err)
	}

	if patch.Username != nil {
		if *patch.Username == "" {
			return nil, fmt.Errorf("%s: %w", errCtxUpdatingProfile, entities.ErrEmptyUsername)
		}
		user.Username = *patch.Username
	}
	if patch.AvatarURL != nil {
		user.AvatarURL = *patch.AvatarURL
	}

	updated, err := uc.userRepo.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingProfile, err)
	}

	log.Info(ctx, msgProfileUpdated)
	return updated, nil
}
