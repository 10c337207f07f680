package services

import (
	"strings"

	"whatsapp-chat-parser/internal/core/encoding"
	"whatsapp-chat-parser/internal/domain"
)

// classificationRule — одна проверка подстроки с каноническим заполнителем.
type classificationRule struct {
	phrases     []string
	messageType domain.MessageType
	placeholder string
}

// Упорядоченная таблица проверок; побеждает первое совпадение.
// Для типов с заполнителем многословная фраза источника заменяется
// коротким каноническим тегом.
var classificationRules = []classificationRule{
	{
		phrases:     []string{"image omitted", "photo omitted", "media omitted", "image absente"},
		messageType: domain.MessageTypeImage,
		placeholder: "<Media>",
	},
	{
		phrases:     []string{"video omitted", "gif omitted", "video note omitted"},
		messageType: domain.MessageTypeVideo,
		placeholder: "<Video>",
	},
	{
		phrases:     []string{"audio omitted", "voice message omitted", "ptt omitted"},
		messageType: domain.MessageTypeAudio,
		placeholder: "<Audio>",
	},
	{
		phrases:     []string{"document omitted", "file omitted", "file attached"},
		messageType: domain.MessageTypeDocument,
		placeholder: "<Document>",
	},
	{
		phrases:     []string{"contact card omitted", "contact omitted", ".vcf"},
		messageType: domain.MessageTypeContact,
		placeholder: "<Contact>",
	},
	{
		// Координаты — данные, а не шаблонная фраза, поэтому содержимое
		// местоположения сохраняется как есть.
		phrases:     []string{"location:", "live location shared", "maps.google.com"},
		messageType: domain.MessageTypeLocation,
	},
	{
		phrases:     []string{"sticker omitted"},
		messageType: domain.MessageTypeSticker,
		placeholder: "<Sticker>",
	},
}

// Classifier определяет тип сообщения и очищает его содержимое.
type Classifier struct{}

// NewClassifier создает новый экземпляр Classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify очищает содержимое от невидимых меток и определяет тип
// по упорядоченной таблице подстрок без учета регистра. Третий результат
// сообщает, было ли содержимое заменено каноническим заполнителем.
func (c *Classifier) Classify(rawContent string) (domain.MessageType, string, bool) {
	cleaned := encoding.Normalize(rawContent)
	lowered := strings.ToLower(cleaned)

	for _, rule := range classificationRules {
		for _, phrase := range rule.phrases {
			if strings.Contains(lowered, phrase) {
				if rule.placeholder != "" {
					return rule.messageType, rule.placeholder, true
				}
				return rule.messageType, cleaned, false
			}
		}
	}

	return domain.MessageTypeText, cleaned, false
}
