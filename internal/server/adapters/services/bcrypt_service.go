// Package services содержит инфраструктурные сервисы приложения.
package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	svc "notesapp/internal/server/ports/services"
)

// Константы для работы с bcrypt.
const (
	errCtxHashingPassword   = "hashing password"
	errCtxVerifyingPassword = "verifying password"
)

// BcryptService реализует PasswordService на основе bcrypt.
type BcryptService struct {
	cost int
}

// NewBcryptService создает новый сервис хеширования паролей.
// При cost <= 0 используется bcrypt.DefaultCost.
func NewBcryptService(cost int) svc.PasswordService {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptService{cost: cost}
}

// Hash хеширует пароль.
func (s *BcryptService) Hash(_ context.Context, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}
	return string(hash), nil
}

// Verify проверяет соответствие пароля хешу.
func (s *BcryptService) Verify(_ context.Context, password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	return true, nil
}
