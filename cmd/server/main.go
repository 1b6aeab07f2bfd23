package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	adapterspg "notesapp/internal/server/adapters/postgres"
	adaptersredis "notesapp/internal/server/adapters/redis"
	"notesapp/internal/server/adapters/services"
	"notesapp/internal/server/app"
	"notesapp/internal/server/config"
	httpServer "notesapp/internal/server/http"
	"notesapp/pkg/db/postgres"
	redisdb "notesapp/pkg/db/redis"
	"notesapp/pkg/logger"
	"notesapp/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "LOGGER_MODE"
	EnvLoggerLevel = "LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrConnectPostgres      = "failed to connect to Postgres"
	ErrApplyMigrations      = "failed to apply database migrations"
	ErrCreateRedisClient    = "failed to create Redis client"
	ErrStartHTTPServer      = "failed to start HTTP server"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "notes server started"
	LogServiceShutdownDone = "notes server shutdown complete"
	LogStoppingHTTP        = "stopping HTTP server"
	LogInitDatabase        = "initializing database"
	LogInitRedis           = "initializing Redis"
	LogInitServices        = "initializing services"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.WithNewRequestID(context.Background())

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(env)),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		log.Info(ctx, LogInitDatabase)
		if err := postgres.MigrateDSN(ctx, cfg.Postgres.GetDSN(), cfg.Postgres.MigrationsPath); err != nil {
			log.Error(ctx, ErrApplyMigrations, zap.Error(err))
			exitCode = 1
			return
		}

		database, err := postgres.New(ctx, cfg.Postgres.GetDSN(), cfg.Postgres.MinConn, cfg.Postgres.MaxConn)
		if err != nil {
			log.Error(ctx, ErrConnectPostgres, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitRedis)
		redisClient, err := redisdb.NewClient(&cfg.Redis)
		if err != nil {
			log.Error(ctx, ErrCreateRedisClient, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitServices)
		repos := adapterspg.NewRepositoryFactory(database.Pool())
		passwordSvc := services.NewBcryptService(cfg.Session.BcryptCost)
		sessionSvc := services.NewSessionJWT(cfg.Session.Secret, cfg.Session.TTL)
		revocations := adaptersredis.NewSessionRevocations(redisClient)

		authUseCase := app.NewAuthUseCase(repos.UserRepository(), passwordSvc, sessionSvc, revocations)
		noteUseCase := app.NewNoteUseCase(repos.NoteRepository(), repos.ShareRepository(), repos.UserRepository())
		userUseCase := app.NewUserUseCase(repos.UserRepository())

		log.Info(ctx, LogInitHTTPServer)
		fiberApp := fiber.New(fiber.Config{
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		})

		httpServer.SetupRouter(fiberApp, authUseCase, noteUseCase, userUseCase,
			sessionSvc, revocations, cfg.Storage.UploadDir)

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := fiberApp.Listen(cfg.HTTP.GetAddress()); err != nil {
				log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			}
		}()

		shutdown.Wait(cfg.Shutdown.GetTimeout(),
			// Остановка HTTP сервера.
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				return fiberApp.Shutdown()
			},
			// Закрытие соединения с Redis.
			func(ctx context.Context) error {
				log.Info(ctx, "Closing Redis connection")
				return redisClient.Close()
			},
			// Закрытие пула соединений с Postgres.
			func(ctx context.Context) error {
				database.Close(ctx)
				return nil
			},
		)

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
