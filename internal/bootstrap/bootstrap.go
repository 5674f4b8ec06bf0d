package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/trailtony/vidhub/internal/auth"
	"github.com/trailtony/vidhub/internal/config"
	"github.com/trailtony/vidhub/internal/db"
	"github.com/trailtony/vidhub/internal/email"
	app_errors "github.com/trailtony/vidhub/internal/errors"
	httpserver "github.com/trailtony/vidhub/internal/http"
	"github.com/trailtony/vidhub/internal/jwt"
	"github.com/trailtony/vidhub/internal/logger"
	"github.com/trailtony/vidhub/internal/storage"
	"github.com/trailtony/vidhub/internal/telegram"
	"github.com/trailtony/vidhub/internal/video"
)

// App holds the wired application.
type App struct {
	Config *config.Config
	Router http.Handler
	DB     db.Database
}

// Close освобождает соединения приложения
func (a *App) Close() {
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}
}

// Initialize настраивает все зависимости и возвращает готовое приложение
func Initialize(ctx context.Context) (*App, error) {
	// Загрузка конфигурации
	cfg := config.Load()

	// Инициализация Telegram клиента
	tgClient := telegram.NewClient(cfg)

	// Инициализация логгера
	log := logger.New(tgClient, cfg.LogLevel)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Инициализация БД
	database, err := OpenDatabase(ctx, cfg)
	if err != nil {
		slog.Error("Failed to connect to database", "driver", cfg.DBDriver, "error", err)
		return nil, fmt.Errorf("%w: %v", app_errors.ErrFailedToConnectDB, err)
	}

	// Инициализация JWT менеджера
	jwtManager := jwt.NewJWTManager(cfg)
	if jwtManager == nil {
		database.Close()
		return nil, app_errors.ErrJWTSecretKeyNotConfigured
	}

	// Инициализация email клиента
	emailClient, err := email.NewClient(ctx, cfg)
	if err != nil {
		// Письма необязательны, работаем без них
		slog.Warn("Email client disabled", "error", err)
		emailClient = nil
	}

	// Инициализация S3 клиента
	storageClient, err := storage.NewClient(ctx, cfg)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("%w: %v", app_errors.ErrFailedToInitStorageClient, err)
	}

	// Инициализация сервисов
	authService := auth.NewService(database, jwtManager, emailClient)
	videoService := video.NewService(database, storageClient, cfg)

	// Инициализация HTTP сервера
	server := httpserver.NewServer(authService, videoService, jwtManager, cfg.MaxUploadBytes())
	server.AddHealthCheck("database", database)
	server.AddHealthCheck("storage", storageClient)

	// Настройка роутера
	router := httpserver.SetupRouter(server, jwtManager)

	slog.Info("Application initialized successfully",
		"db_driver", cfg.DBDriver,
		"media_bucket", cfg.MediaBucket,
		"cleanup_orphans", cfg.MediaCleanupOrphans,
	)
	return &App{Config: cfg, Router: router, DB: database}, nil
}

// OpenDatabase открывает хранилище записей согласно VH_DB_DRIVER
func OpenDatabase(ctx context.Context, cfg *config.Config) (db.Database, error) {
	switch cfg.DBDriver {
	case config.DBDriverYDB:
		return db.NewYDBClient(ctx, cfg)
	case config.DBDriverSQLite:
		return db.NewSQLiteClient(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DBDriver)
	}
}
