// Package services определяет интерфейсы инфраструктурных сервисов.
package services

import "context"

// PasswordService определяет операции хеширования и проверки паролей.
type PasswordService interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, hash string) (bool, error)
}
