package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"whatsapp-chat-parser/internal/cache"
	"whatsapp-chat-parser/internal/domain"
	"whatsapp-chat-parser/internal/pkg/config"
)

// ChatProcessor определяет интерфейс для варианта использования, который
// обрабатывает файлы экспорта переписки. sourceName — исходное имя файла
// для вывода заголовка; путь на диске может быть временным и искаженным.
type ChatProcessor interface {
	ProcessChat(ctx context.Context, filePath, sourceName string) (*domain.Chat, *domain.ImportReport, error)
}

// Server представляет HTTP-сервер
type Server struct {
	HTTPServer *http.Server
	cfg        *config.Config
	taskStore  *TaskStore
	cacheStore *cache.CacheStore
	processor  ChatProcessor
}

// New создает новый экземпляр Server
func New(cfg *config.Config, processor ChatProcessor, taskStore *TaskStore, cacheStore *cache.CacheStore) (*Server, error) {
	chiRouter := chi.NewRouter()

	// Промежуточное ПО
	chiRouter.Use(middleware.Logger)
	chiRouter.Use(middleware.Recoverer)

	// Конечная точка для проверки работоспособности
	chiRouter.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "ok",
		})
	})

	maxUpload := int64(cfg.Server.MaxUploadSizeMB) << 20

	// Маршруты API
	chiRouter.Route("/api/v1", func(r chi.Router) {
		// Конечная точка для запуска новой задачи разбора транскрипта
		r.Post("/process", func(w http.ResponseWriter, r *http.Request) {
			// Разбор мультипарт-формы
			if err := r.ParseMultipartForm(maxUpload); err != nil {
				http.Error(w, "Не удалось разобрать форму", http.StatusBadRequest)
				return
			}

			file, header, err := r.FormFile("file")
			if err != nil {
				http.Error(w, "Не удалось получить файл из формы", http.StatusBadRequest)
				return
			}
			defer file.Close()

			// Генерация уникального идентификатора задачи
			taskID := uuid.NewString()

			// Имя оригинала сохраняется: из него выводится заголовок чата.
			originalName := filepath.Base(header.Filename)
			tempDir := os.TempDir()
			tempFilePath := filepath.Join(tempDir, fmt.Sprintf("transcript_%s_%s", taskID, originalName))

			out, err := os.Create(tempFilePath)
			if err != nil {
				http.Error(w, "Не удалось создать временный файл", http.StatusInternalServerError)
				return
			}
			defer out.Close()

			if _, err = io.Copy(out, file); err != nil {
				http.Error(w, "Не удалось сохранить загруженный файл", http.StatusInternalServerError)
				return
			}

			slog.Info("Транскрипт получен сервером",
				"task_id", taskID,
				"file_name", originalName,
				"content_length", header.Size)

			// Создание задачи в хранилище
			taskStore.CreateTask(taskID, cfg.Processing.TaskTTL)

			// Запуск обработки в горутине
			go func() {
				taskStore.UpdateTaskStatus(taskID, TaskStatusProcessing)

				// Контекст задачи с таймаутом из конфигурации.
				taskCtx := context.Background()
				if cfg.Processing.TaskTimeoutSeconds > 0 {
					var cancel context.CancelFunc
					taskCtx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Processing.TaskTimeoutSeconds)*time.Second)
					defer cancel()
				}

				chat, report, err := processor.ProcessChat(taskCtx, tempFilePath, originalName)
				if err != nil {
					taskStore.UpdateTaskError(taskID, err.Error())
					os.Remove(tempFilePath)
					return
				}

				taskStore.UpdateTaskResult(taskID, chat, report)
				os.Remove(tempFilePath)
			}()

			// Возврат идентификатора задачи
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusAccepted)
			json.NewEncoder(w).Encode(map[string]string{"task_id": taskID})
		})

		// Конечная точка для запуска задачи по хешу уже разобранного файла
		r.Post("/process-by-hash", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Hash string `json:"hash"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Не удалось декодировать тело запроса", http.StatusBadRequest)
				return
			}

			if req.Hash == "" {
				http.Error(w, "Требуется хеш", http.StatusBadRequest)
				return
			}

			taskID := uuid.NewString()
			taskStore.CreateTask(taskID, cfg.Processing.TaskTTL)

			go func() {
				taskStore.UpdateTaskStatus(taskID, TaskStatusProcessing)

				if cachedItem, found := cacheStore.Get(req.Hash); found {
					taskStore.UpdateTaskResult(taskID, cachedItem.Chat, cachedItem.Report)
					slog.Info("Попадание в кеш для хеша", "hash", req.Hash, "task_id", taskID)
					return
				}

				// Без исходного файла промах кеша восполнить нечем.
				taskStore.UpdateTaskError(taskID, "Файл не найден в кеше для данного хеша")
				slog.Info("Промах кеша для хеша", "hash", req.Hash, "task_id", taskID)
			}()

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusAccepted)
			json.NewEncoder(w).Encode(map[string]string{"task_id": taskID})
		})

		// Конечная точка для проверки статуса задачи
		r.Get("/tasks/{taskID}", func(w http.ResponseWriter, r *http.Request) {
			taskID := chi.URLParam(r, "taskID")

			task, err := taskStore.GetTask(taskID)
			if err != nil {
				http.Error(w, "Задача не найдена", http.StatusNotFound)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"task_id":       task.ID,
				"status":        task.Status,
				"error_message": task.ErrorMessage,
			})
		})

		// Конечная точка для получения результата задачи с пагинацией сообщений
		r.Get("/tasks/{taskID}/result", func(w http.ResponseWriter, r *http.Request) {
			taskID := chi.URLParam(r, "taskID")

			task, err := taskStore.GetTask(taskID)
			if err != nil {
				http.Error(w, "Задача не найдена", http.StatusNotFound)
				return
			}

			if task.Status != TaskStatusCompleted {
				http.Error(w, "Задача не завершена", http.StatusBadRequest)
				return
			}

			page := queryInt(r, "page", 1)
			pageSize := queryInt(r, "page_size", 50)
			if page < 1 {
				page = 1
			}
			if pageSize < 1 || pageSize > 1000 {
				pageSize = 50
			}

			chat := *task.Chat
			total := len(chat.Messages)
			start := (page - 1) * pageSize
			end := start + pageSize
			if start > total {
				start = total
			}
			if end > total {
				end = total
			}
			chat.Messages = chat.Messages[start:end]

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"chat":           chat,
				"page":           page,
				"page_size":      pageSize,
				"total_messages": total,
			})
		})

		// Конечная точка для диагностики разбора
		r.Get("/tasks/{taskID}/stats", func(w http.ResponseWriter, r *http.Request) {
			taskID := chi.URLParam(r, "taskID")

			task, err := taskStore.GetTask(taskID)
			if err != nil {
				http.Error(w, "Задача не найдена", http.StatusNotFound)
				return
			}

			if task.Status != TaskStatusCompleted {
				http.Error(w, "Задача не завершена", http.StatusBadRequest)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(task.Report)
		})
	})

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      chiRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		HTTPServer: httpServer,
		cfg:        cfg,
		taskStore:  taskStore,
		cacheStore: cacheStore,
		processor:  processor,
	}, nil
}

// ListenAndServe запускает HTTP-сервер
func (s *Server) ListenAndServe() error {
	return s.HTTPServer.ListenAndServe()
}

// Shutdown корректно останавливает HTTP-сервер
func (s *Server) Shutdown(ctx context.Context) error {
	return s.HTTPServer.Shutdown(ctx)
}

// queryInt читает целочисленный параметр запроса со значением по умолчанию
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
