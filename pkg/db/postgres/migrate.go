package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"notesapp/pkg/logger"
)

// Сообщения миграций.
const (
	LogSchemaUpToDate   = "database schema is up to date"
	LogSchemaMigrated   = "database schema migrated"
	ErrOpenMigrations   = "failed to open migration source"
	ErrApplyMigrations  = "failed to apply migrations"
	ErrReadSchemaState  = "failed to read schema version"
	ErrDirtySchemaState = "schema is in dirty state, manual intervention required"
)

// MigrateDSN применяет недостающие миграции схемы из migrationsPath.
// Запускается до открытия пула соединений.
func MigrateDSN(ctx context.Context, dsn string, migrationsPath string) error {
	log := logger.Log(ctx).With(zap.String("path", migrationsPath))

	m, err := migrate.New(migrationsPath, dsn)
	if err != nil {
		log.Error(ctx, ErrOpenMigrations, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrOpenMigrations, err)
	}
	defer m.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info(ctx, LogSchemaUpToDate)
		return nil
	}
	if err != nil {
		log.Error(ctx, ErrApplyMigrations, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrApplyMigrations, err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		log.Error(ctx, ErrReadSchemaState, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrReadSchemaState, err)
	}
	if dirty {
		log.Error(ctx, ErrDirtySchemaState, zap.Uint("version", version))
		return errors.New(ErrDirtySchemaState)
	}

	log.Info(ctx, LogSchemaMigrated, zap.Uint("version", version))
	return nil
}
