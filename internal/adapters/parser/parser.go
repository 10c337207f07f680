package parser

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"whatsapp-chat-parser/internal/core/assembler"
	"whatsapp-chat-parser/internal/core/encoding"
	"whatsapp-chat-parser/internal/core/grammar"
	"whatsapp-chat-parser/internal/core/services"
	"whatsapp-chat-parser/internal/domain"
	"whatsapp-chat-parser/internal/ports"
)

// ImportParser реализует интерфейс ChatParser для текстовых и HTML экспортов
// переписки. Все компоненты конвейера либо без состояния, либо создаются
// на один вызов Parse, поэтому независимые разборы могут идти параллельно.
type ImportParser struct {
	matcher    *grammar.Matcher
	assembler  *assembler.Assembler
	classifier *services.Classifier
	filter     *services.SystemFilter
	gate       *services.ValidationGate
}

// NewImportParser создает новый экземпляр ImportParser с явной сборкой
// всех компонентов конвейера.
func NewImportParser() *ImportParser {
	matcher := grammar.NewMatcher()
	filter := services.NewSystemFilter()
	return &ImportParser{
		matcher:    matcher,
		assembler:  assembler.New(matcher),
		classifier: services.NewClassifier(),
		filter:     filter,
		gate:       services.NewValidationGate(filter),
	}
}

var _ ports.ChatParser = (*ImportParser)(nil)

// Parse преобразует сырые байты экспорта в нормализованную модель чата.
// Испорченное содержимое никогда не приводит к ошибке: кодировка
// восстанавливается каскадом, нераспознанные строки сворачиваются или
// отбрасываются, а пустой результат заменяется заглушкой.
func (p *ImportParser) Parse(data []byte, sourceName string) (*domain.Chat, *domain.ImportReport, error) {
	text := encoding.Recover(data)

	var records []assembler.Record
	var stats domain.ParseStats
	title := deriveTextTitle(sourceName)

	if isMarkup(text) {
		var markupTitle string
		records, stats, markupTitle = p.extractFromMarkup(text)
		if markupTitle != "" {
			title = markupTitle
		}
	} else {
		records, stats = p.extractFromText(text)
	}

	chat := p.buildChat(records, title, time.Now())
	report := &domain.ImportReport{Stats: stats}
	report.Validation = p.finalize(chat)
	return chat, report, nil
}

// extractFromText разбивает восстановленный текст на строки и сворачивает
// их автоматом сборки.
func (p *ImportParser) extractFromText(text string) ([]assembler.Record, domain.ParseStats) {
	return p.assembler.Assemble(strings.Split(text, "\n"))
}

// buildChat превращает собранные записи в модель чата: классификация
// содержимого и разрешение идентичности отправителей.
func (p *ImportParser) buildChat(records []assembler.Record, title string, importedAt time.Time) *domain.Chat {
	resolver := services.NewIdentityResolver()

	messages := make([]domain.Message, 0, len(records))
	for _, rec := range records {
		messageType, content, placeholder := p.classifier.Classify(rec.Content)
		msg := domain.Message{
			ID:        uuid.NewString(),
			SenderID:  resolver.Resolve(rec.Sender),
			Timestamp: rec.Timestamp,
			Content:   content,
			Type:      messageType,
		}
		if placeholder {
			msg.Metadata = map[string]string{domain.PlaceholderMetadataKey: "true"}
		}
		messages = append(messages, msg)
	}

	return &domain.Chat{
		ID:         uuid.NewString(),
		Title:      title,
		ImportedAt: importedAt,
		Users:      resolver.Users(),
		Messages:   messages,
	}
}

// finalize прогоняет чат через валидационный шлюз и выставляет производные
// границы переписки.
func (p *ImportParser) finalize(chat *domain.Chat) domain.ValidationResult {
	result := p.gate.Validate(chat.Messages, chat.Users, chat.ImportedAt)
	chat.Messages = result.Messages
	chat.Users = result.Users

	if len(chat.Messages) > 0 {
		chat.FirstMessageAt = chat.Messages[0].Timestamp
		chat.LastMessageAt = chat.Messages[len(chat.Messages)-1].Timestamp
	} else {
		chat.FirstMessageAt = chat.ImportedAt
		chat.LastMessageAt = chat.ImportedAt
	}
	return result
}
