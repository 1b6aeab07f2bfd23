// Package postgres предоставляет пул соединений с Postgres поверх pgxpool.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"notesapp/pkg/logger"
)

// healthCheckPeriod - интервал фоновой проверки простаивающих соединений.
const healthCheckPeriod = 30 * time.Second

// Сообщения logger.
const (
	LogPoolReady   = "Postgres connection pool ready"
	LogPoolClosing = "closing Postgres connection pool"
)

// Сообщения об ошибках.
const (
	ErrParseConfig  = "failed to parse connection config"
	ErrCreatePool   = "failed to create connection pool"
	ErrPingDatabase = "failed to ping database"
)

// Database владеет пулом соединений с Postgres.
type Database struct {
	pool *pgxpool.Pool
}

// New открывает пул соединений и проверяет доступность базы.
func New(ctx context.Context, dsn string, minConn, maxConn int) (*Database, error) {
	log := logger.Log(ctx)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Error(ctx, ErrParseConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrParseConfig, err)
	}
	poolCfg.MinConns = int32(minConn)
	poolCfg.MaxConns = int32(maxConn)
	poolCfg.HealthCheckPeriod = healthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error(ctx, ErrCreatePool, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrCreatePool, err)
	}

	db := &Database{pool: pool}
	if err := db.Ping(ctx); err != nil {
		pool.Close()
		log.Error(ctx, ErrPingDatabase, zap.Error(err))
		return nil, err
	}

	log.Info(ctx, LogPoolReady,
		zap.Int("min_conns", minConn),
		zap.Int("max_conns", maxConn),
	)
	return db, nil
}

// Pool возвращает пул соединений для репозиториев.
func (db *Database) Pool() *pgxpool.Pool {
	return db.pool
}

// Ping проверяет доступность базы данных.
func (db *Database) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrPingDatabase, err)
	}
	return nil
}

// Close закрывает пул соединений.
func (db *Database) Close(ctx context.Context) {
	logger.Log(ctx).Info(ctx, LogPoolClosing)
	db.pool.Close()
}
