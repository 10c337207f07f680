package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"whatsapp-chat-parser/internal/adapters/parser"
	"whatsapp-chat-parser/internal/cache"
	applog "whatsapp-chat-parser/internal/log"
	"whatsapp-chat-parser/internal/pkg/config"
	"whatsapp-chat-parser/internal/server"
	"whatsapp-chat-parser/internal/server/usecase"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}

// run инкапсулирует всю логику инициализации и запуска приложения.
func run() error {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		// Логгер еще не инициализирован, выводим в stderr
		_, _ = fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Инициализация логгера с маскировкой телефонных номеров
	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(applog.NewMaskedLogger(textHandler))

	// 3. Валидация конфигурации (после инициализации логгера)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// 4. Инициализация зависимостей
	taskStore := server.NewTaskStore()
	cacheStore := cache.NewCacheStore()
	parserSvc := parser.NewImportParser()
	processor := usecase.NewProcessChatUseCase(cfg, parserSvc, cacheStore)

	taskStore.StartCleanupTicker(appCtx, cfg.Processing.CleanupInterval)
	cacheStore.StartCleanupTicker(appCtx, cfg.Processing.CleanupInterval)

	// 5. Создание HTTP-сервера
	srv, err := server.New(cfg, processor, taskStore, cacheStore)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// 6. Запуск сервера и graceful shutdown
	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		slog.Info("Starting server", "addr", cfg.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Signal received, shutting down...")

	appCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	<-serverDone
	slog.Info("HTTP server stopped")

	slog.Info("Application exited gracefully")
	return nil
}
