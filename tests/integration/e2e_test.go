package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsapp-chat-parser/internal/adapters/parser"
	"whatsapp-chat-parser/internal/cache"
	"whatsapp-chat-parser/internal/domain"
	"whatsapp-chat-parser/internal/pkg/config"
	"whatsapp-chat-parser/internal/server/usecase"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newUseCase() (*usecase.ProcessChatUseCase, *cache.CacheStore) {
	cfg := &config.Config{Processing: config.Processing{CacheTTL: 10 * time.Minute}}
	cacheStore := cache.NewCacheStore()
	return usecase.NewProcessChatUseCase(cfg, parser.NewImportParser(), cacheStore), cacheStore
}

func TestEndToEnd_TextTranscript(t *testing.T) {
	transcript := strings.Join([]string{
		"Messages to this chat and calls are now secured with end-to-end encryption.",
		"01/01/22, 09:00 - Alice: Good morning!",
		"01/01/22, 09:01 - Bob: Morning",
		"still waking up",
		"01/01/22, 09:02 - Alice: <Media omitted>",
		"01/01/22, 09:05 - Alice added Carol",
		"[02/01/22, 10:15:30] Carol: hi everyone",
	}, "\n")

	uc, _ := newUseCase()
	path := writeFixture(t, "WhatsApp Chat with Family.txt", transcript)

	chat, report, err := uc.ProcessChat(context.Background(), path, "")
	require.NoError(t, err)

	assert.Equal(t, "Family", chat.Title)

	// Баннер шифрования и строка добавления участника отброшены
	require.Len(t, chat.Messages, 4)
	assert.Equal(t, "Good morning!", chat.Messages[0].Content)
	assert.Equal(t, "Morning\nstill waking up", chat.Messages[1].Content)
	assert.Equal(t, "<Media>", chat.Messages[2].Content)
	assert.Equal(t, domain.MessageTypeImage, chat.Messages[2].Type)
	assert.Equal(t, "hi everyone", chat.Messages[3].Content)

	// Скобочная грамматика читает дату день-первым
	assert.Equal(t, time.Date(2022, time.January, 2, 10, 15, 30, 0, time.Local), chat.Messages[3].Timestamp)

	names := make([]string, 0, len(chat.Users))
	for _, u := range chat.Users {
		names = append(names, u.Name)
	}
	assert.ElementsMatch(t, []string{"Alice", "Bob", "Carol"}, names)

	assert.Equal(t, chat.Messages[0].Timestamp, chat.FirstMessageAt)
	assert.Equal(t, chat.Messages[3].Timestamp, chat.LastMessageAt)
	assert.Positive(t, report.Stats.NoiseLines)
	assert.Equal(t, 1, report.Stats.Continuations)
}

func TestEndToEnd_CacheRoundTrip(t *testing.T) {
	uc, cacheStore := newUseCase()
	path := writeFixture(t, "chat.txt", "01/01/22, 09:00 - Alice: Hello")

	first, _, err := uc.ProcessChat(context.Background(), path, "")
	require.NoError(t, err)

	hash, err := cache.CalculateFileHash(path)
	require.NoError(t, err)
	_, found := cacheStore.Get(hash)
	require.True(t, found)

	// Повторная обработка того же файла возвращает кешированный чат как есть
	second, _, err := uc.ProcessChat(context.Background(), path, "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestEndToEnd_GarbageNeverFails(t *testing.T) {
	uc, _ := newUseCase()
	garbage := string([]byte{0xff, 0xfe, 0x81, 0x00, 0x9f}) + "\nnot a transcript at all\n"
	path := writeFixture(t, "garbage.bin", garbage)

	chat, report, err := uc.ProcessChat(context.Background(), path, "")
	require.NoError(t, err)

	require.Len(t, chat.Messages, 1)
	assert.Equal(t, "No messages could be parsed from this file", chat.Messages[0].Content)
	assert.Equal(t, "true", chat.Messages[0].Metadata[domain.PlaceholderMetadataKey])
	assert.Equal(t, 0, report.Validation.OriginalMessageCount)
}

func TestEndToEnd_MarkupTranscript(t *testing.T) {
	doc := `<!DOCTYPE html>
<html><head><title>WhatsApp Chat with Team</title></head><body>
<div class="message">
  <div class="from_name">Alice</div>
  <div class="date" title="01.01.2022 09:00:00">09:00</div>
  <div class="text">deploy is green</div>
</div>
<div class="message">
  <div class="from_name">Bob</div>
  <div class="date" title="01.01.2022 09:05:00">09:05</div>
  <div class="text">shipping it</div>
</div>
</body></html>`

	uc, _ := newUseCase()
	path := writeFixture(t, "export.html", doc)

	chat, _, err := uc.ProcessChat(context.Background(), path, "")
	require.NoError(t, err)

	assert.Equal(t, "Team", chat.Title)
	require.Len(t, chat.Messages, 2)
	assert.Equal(t, "deploy is green", chat.Messages[0].Content)
	assert.Equal(t, "shipping it", chat.Messages[1].Content)
}

func TestEndToEnd_TempFileKeepsOriginalTitle(t *testing.T) {
	// Сервер сохраняет загрузку как transcript_<taskID>_<имя>; заголовок
	// при этом выводится из исходного имени, а не из имени на диске
	uc, _ := newUseCase()
	tempName := "transcript_3f6a1f2e-9d7e-4c1b-8f5a-0a1b2c3d4e5f_WhatsApp Chat with Family.txt"
	path := writeFixture(t, tempName, "01/01/22, 09:00 - Alice: Hello")

	chat, _, err := uc.ProcessChat(context.Background(), path, "WhatsApp Chat with Family.txt")
	require.NoError(t, err)

	assert.Equal(t, "Family", chat.Title)
}
