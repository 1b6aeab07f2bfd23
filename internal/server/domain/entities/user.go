package entities

import (
	"errors"
	"time"
)

// Ошибки доменной модели пользователей.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmptyUsername = errors.New("username must not be empty")
)

// User представляет собой пользователя приложения.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
