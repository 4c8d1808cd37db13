// cmd/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	flag "github.com/spf13/pflag"

	"go_voca_srs/internal/config"
	"go_voca_srs/internal/handlers"
	"go_voca_srs/internal/kvstore"
	"go_voca_srs/internal/reminder"
	"go_voca_srs/internal/repository"
	"go_voca_srs/internal/service"
)

func main() {
	configDir := flag.StringP("config", "c", "configs", "config.yaml を探すディレクトリ")
	flag.Parse()

	// 設定ファイル読み込み用の一時的なロガー
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	if err := config.LoadConfig(*configDir); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := &config.Cfg

	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)
	slog.Info("Application starting...", slog.String("app", config.AppName), slog.String("version", config.AppVersion))

	// アカウント学習者の進捗とカタログ (GORM)
	db, err := repository.NewDB(cfg.Database.Driver, cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()
	if err := repository.Migrate(db); err != nil {
		slog.Error("Error migrating database", slog.Any("error", err))
		os.Exit(1)
	}

	// 端末学習者の進捗 (sqlx KVストア)
	var deviceStore *kvstore.Store
	if cfg.Auth.AllowDevice {
		deviceStore, err = kvstore.Open(cfg.DeviceStore.Driver, cfg.DeviceStore.DSN, logger)
		if err != nil {
			slog.Error("Error opening device store", slog.Any("error", err))
			os.Exit(1)
		}
		defer deviceStore.Close()
	}

	// Dependency Injection
	accountStore := repository.NewGormProgressStore(db)
	catalogRepo := repository.NewGormCatalogRepository()

	var devices repository.ProgressStore
	healthChecks := map[string]handlers.Pinger{"database": sqlDB}
	if deviceStore != nil {
		devices = deviceStore
		healthChecks["device_store"] = handlers.PingFunc(deviceStore.Ping)
	}

	studyService := service.NewStudyService(accountStore, devices, cfg)
	packService := service.NewPackService(db, catalogRepo, cfg)

	router := handlers.NewRouter(cfg, logger,
		handlers.NewPackHandler(packService, logger),
		handlers.NewStudyHandler(studyService, logger),
		handlers.NewHealthHandler(healthChecks, logger),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Reminder.Enabled {
		job, err := reminder.New(accountStore, reminder.LogNotifier{Logger: logger}, cfg.Reminder, logger)
		if err != nil {
			slog.Error("Error configuring reminder job", slog.Any("error", err))
			os.Exit(1)
		}
		if err := job.Start(ctx); err != nil {
			slog.Error("Error starting reminder job", slog.Any("error", err))
			os.Exit(1)
		}
		defer job.Stop()
	}

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful Shutdown
	select {
	case <-ctx.Done():
		slog.Info("Shutting down server...")
	case err := <-serverErr:
		slog.Error("Could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}
	slog.Info("Server exiting")
}

// newLogger は APP_ENV=dev なら tint、それ以外は JSON のハンドラでロガーを作ります。
func newLogger(level string) *slog.Logger {
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", level))
	}

	var handler slog.Handler
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
	}
	return slog.New(handler)
}
