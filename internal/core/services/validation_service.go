package services

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"whatsapp-chat-parser/internal/core/grammar"
	"whatsapp-chat-parser/internal/domain"
)

// Имена пользователей, совпадающие по подстроке с этим списком,
// отбрасываются как служебные учетки.
var systemLikeUserNames = []string{"whatsapp", "system", "bot", "broadcast"}

// fallbackMessageContent — содержимое сообщения-заглушки, когда из файла
// не удалось разобрать ни одного сообщения.
const fallbackMessageContent = "No messages could be parsed from this file"

// ValidationGate — финальная проверка собранных списков: отбор выживших
// сообщений и пользователей, метрики качества, заглушка пустого результата
// и стабильная сортировка по времени.
type ValidationGate struct {
	filter *SystemFilter
	now    func() time.Time
}

// NewValidationGate создает новый экземпляр ValidationGate.
func NewValidationGate(filter *SystemFilter) *ValidationGate {
	return &ValidationGate{filter: filter, now: time.Now}
}

// Validate выполняет финальный проход по сообщениям и пользователям.
// Возвращаемый результат всегда содержит хотя бы одно сообщение.
func (g *ValidationGate) Validate(messages []domain.Message, users []domain.User, importedAt time.Time) domain.ValidationResult {
	result := domain.ValidationResult{
		OriginalMessageCount: len(messages),
		OriginalUserCount:    len(users),
	}

	nameByID := make(map[string]string, len(users))
	for _, u := range users {
		nameByID[u.ID] = u.Name
	}

	earliest := grammar.EarliestExportDate
	latest := g.now().Add(grammar.ClockSkewTolerance)

	// Пользователи отбираются первыми: сообщение живо только вместе со своим
	// отправителем, иначе senderId указывал бы на несуществующего пользователя.
	validUsers := make([]domain.User, 0, len(users))
	validUserIDs := make(map[string]struct{}, len(users))
	for _, user := range users {
		if user.ID == "" || user.Name == "" {
			continue
		}
		if len(user.Name) > domain.MaxUserNameLength {
			continue
		}
		if isSystemLikeUserName(user.Name) {
			continue
		}
		validUsers = append(validUsers, user)
		validUserIDs[user.ID] = struct{}{}
	}

	validMessages := make([]domain.Message, 0, len(messages))
	for _, msg := range messages {
		if msg.ID == "" || msg.SenderID == "" {
			continue
		}
		if _, ok := validUserIDs[msg.SenderID]; !ok {
			continue
		}
		if len(msg.Content) > domain.MaxContentLength {
			continue
		}
		if msg.Timestamp.Before(earliest) || msg.Timestamp.After(latest) {
			continue
		}
		// Повторная проверка шума: здесь фильтр авторитетен.
		if g.filter.IsNoise(nameByID[msg.SenderID], msg.Content) {
			continue
		}
		validMessages = append(validMessages, msg)
	}

	// Заглушка пустого результата: потребители никогда не получают чат
	// без сообщений.
	if len(validMessages) == 0 {
		placeholder := domain.User{ID: uuid.NewString(), Name: domain.UnknownUserName}
		validUsers = append(validUsers, placeholder)
		validMessages = append(validMessages, domain.Message{
			ID:        uuid.NewString(),
			SenderID:  placeholder.ID,
			Timestamp: importedAt,
			Content:   fallbackMessageContent,
			Type:      domain.MessageTypeText,
			Metadata:  map[string]string{domain.PlaceholderMetadataKey: "true"},
		})
	}

	// Стабильная сортировка: относительный порядок при равных временах
	// сохраняется.
	sort.SliceStable(validMessages, func(i, j int) bool {
		return validMessages[i].Timestamp.Before(validMessages[j].Timestamp)
	})

	result.ValidMessageCount = len(validMessages)
	result.ValidUserCount = len(validUsers)
	result.MessageValidityRate = validityRate(result.ValidMessageCount, result.OriginalMessageCount)
	result.UserValidityRate = validityRate(result.ValidUserCount, result.OriginalUserCount)
	result.QualityOK = result.MessageValidityRate > 0.7 && result.UserValidityRate > 0.7
	result.Messages = validMessages
	result.Users = validUsers
	return result
}

func validityRate(valid, original int) float64 {
	if original == 0 {
		return 1
	}
	return float64(valid) / float64(original)
}

func isSystemLikeUserName(name string) bool {
	lowered := strings.ToLower(name)
	for _, candidate := range systemLikeUserNames {
		if strings.Contains(lowered, candidate) {
			return true
		}
	}
	return false
}
