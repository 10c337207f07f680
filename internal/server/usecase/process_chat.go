package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"whatsapp-chat-parser/internal/adapters/source"
	"whatsapp-chat-parser/internal/cache"
	"whatsapp-chat-parser/internal/domain"
	"whatsapp-chat-parser/internal/pkg/config"
	"whatsapp-chat-parser/internal/ports"
)

// ProcessChatUseCase инкапсулирует бизнес-логику обработки файла экспорта
// переписки: чтение, разбор, кеширование результата.
type ProcessChatUseCase struct {
	cfg        *config.Config
	parser     ports.ChatParser
	cacheStore *cache.CacheStore
}

// NewProcessChatUseCase создает новый экземпляр ProcessChatUseCase.
func NewProcessChatUseCase(cfg *config.Config, parser ports.ChatParser, cacheStore *cache.CacheStore) *ProcessChatUseCase {
	return &ProcessChatUseCase{
		cfg:        cfg,
		parser:     parser,
		cacheStore: cacheStore,
	}
}

// ProcessChat обрабатывает один файл экспорта переписки. sourceName —
// исходное имя файла для вывода заголовка; пустое имя заменяется именем
// файла на диске. Единственная ошибка, которую видит вызывающий, —
// невозможность прочитать файл; испорченное содержимое разбирается на
// лучшее усилие и никогда не фатально.
func (uc *ProcessChatUseCase) ProcessChat(ctx context.Context, filePath, sourceName string) (*domain.Chat, *domain.ImportReport, error) {
	fileHash, err := cache.CalculateFileHash(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("не удалось вычислить хеш файла %s: %w", filePath, err)
	}

	// Проверка кеша: повторный разбор того же файла не выполняется
	if cachedItem, found := uc.cacheStore.Get(fileHash); found {
		slog.Info("Попадание в кеш для файла", "path", filePath, "hash", fileHash)
		return cachedItem.Chat, cachedItem.Report, nil
	}

	// Прерванную задачу можно просто бросить: разбор не пишет никакого
	// промежуточного состояния.
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	slog.Info("Обработка файла", "path", filePath)

	ds := source.NewFileSource(filePath)
	data, err := ds.Fetch()
	if err != nil {
		return nil, nil, fmt.Errorf("не удалось извлечь данные из %s: %w", filePath, err)
	}

	if sourceName == "" {
		sourceName = ds.Name()
	}
	chat, report, err := uc.parser.Parse(data, sourceName)
	if err != nil {
		return nil, nil, fmt.Errorf("не удалось разобрать данные из %s: %w", filePath, err)
	}

	slog.Info("Разобран чат",
		"path", filePath,
		"title", chat.Title,
		"message_count", len(chat.Messages),
		"user_count", len(chat.Users),
		"total_lines", report.Stats.TotalLines,
		"noise_lines", report.Stats.NoiseLines,
		"window_rejections", report.Stats.WindowRejections,
		"quality_ok", report.Validation.QualityOK)

	// Кеширование окончательного результата
	ttl := uc.cfg.Processing.CacheTTL
	uc.cacheStore.Put(fileHash, chat, report, ttl)
	slog.Info("Результат кеширован для файла", "hash", fileHash, "ttl", ttl.String())

	return chat, report, nil
}
