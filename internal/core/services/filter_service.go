package services

import "strings"

// Фиксированный список фраз служебных сообщений: изменения состава группы,
// баннеры шифрования, уведомления о звонках и удалении сообщений.
var systemPhrases = []string{
	"end-to-end encrypted",
	"created group",
	"created this group",
	"changed the subject",
	"changed this group's icon",
	"changed their phone number",
	"changed to a new number",
	"joined using this group's invite link",
	"security code changed",
	"you were added",
	" added ",
	" removed ",
	" left",
	"missed voice call",
	"missed video call",
	"started a call",
	"this message was deleted",
	"you deleted this message",
	"blocked this contact",
	"unblocked this contact",
	"pinned a message",
}

// SystemFilter распознает административные/шумовые сообщения.
type SystemFilter struct{}

// NewSystemFilter создает новый экземпляр SystemFilter.
func NewSystemFilter() *SystemFilter {
	return &SystemFilter{}
}

// IsNoise возвращает true, если сообщение следует отбросить: его содержимое
// содержит фразу из списка служебных сообщений либо имя отправителя само
// похоже на системный идентификатор. Зарезервированный отправитель System
// не освобождается от проверки — его строки проходят тот же список.
func (f *SystemFilter) IsNoise(sender, content string) bool {
	if isSystemLikeName(sender) {
		return true
	}

	lowered := strings.ToLower(content)
	for _, phrase := range systemPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// isSystemLikeName распознает имена-идентификаторы: точное "system" без
// учета регистра или длинный токен, перегруженный дефисами (внутренние
// идентификаторы экспорта).
func isSystemLikeName(sender string) bool {
	name := strings.TrimSpace(sender)
	if strings.EqualFold(name, "system") {
		return true
	}
	return len(name) > 20 && strings.Count(name, "-") >= 3
}
