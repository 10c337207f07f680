package domain

import "time"

// MessageType классифицирует содержимое сообщения.
type MessageType string

const (
	MessageTypeText     MessageType = "text"
	MessageTypeImage    MessageType = "image"
	MessageTypeVideo    MessageType = "video"
	MessageTypeAudio    MessageType = "audio"
	MessageTypeDocument MessageType = "document"
	MessageTypeContact  MessageType = "contact"
	MessageTypeLocation MessageType = "location"
	MessageTypeSticker  MessageType = "sticker"
)

const (
	// MaxContentLength — верхняя граница длины содержимого одного сообщения.
	MaxContentLength = 65536
	// MaxUserNameLength — верхняя граница длины отображаемого имени.
	MaxUserNameLength = 100
	// SystemSenderName — зарезервированное имя отправителя для служебных строк
	// без сегмента "отправитель:".
	SystemSenderName = "System"
	// UnknownUserName — имя, присваиваемое отправителю с пустым именем.
	UnknownUserName = "Unknown User"
	// PlaceholderMetadataKey помечает сообщения, чье содержимое заменено
	// каноническим тегом-заполнителем.
	PlaceholderMetadataKey = "placeholder"
)

// Chat представляет нормализованный результат импорта: участники,
// упорядоченные по времени сообщения и производные границы переписки.
type Chat struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	ImportedAt     time.Time `json:"imported_at"`
	FirstMessageAt time.Time `json:"first_message_at"`
	LastMessageAt  time.Time `json:"last_message_at"`
	Users          []User    `json:"users"`
	Messages       []Message `json:"messages"`
}

// User представляет участника чата. Имя уникально в пределах одного чата
// после обрезки пробелов; идентификатор стабилен в рамках одного разбора.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// Message представляет одно сообщение в чате.
type Message struct {
	ID        string            `json:"id"`
	SenderID  string            `json:"sender_id"`
	Timestamp time.Time         `json:"timestamp"`
	Content   string            `json:"content"`
	Type      MessageType       `json:"type"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// ParsedLineKind — дискриминант вариантного типа ParsedLine.
type ParsedLineKind int

const (
	// LineNoise — строка не несет содержимого (шум до первого сообщения).
	LineNoise ParsedLineKind = iota
	// LineNewMessage — строка открывает новое сообщение.
	LineNewMessage
	// LineContinuation — строка продолжает тело предыдущего сообщения.
	LineContinuation
)

// ParsedLine — закрытый вариантный тип исхода разбора одной строки.
// Живет только внутри одного вызова парсера и никогда не сохраняется.
type ParsedLine struct {
	Kind      ParsedLineKind
	Timestamp time.Time
	Sender    string
	Content   string
	System    bool
}

// ParseStats агрегирует построчные исходы разбора вместо их молчаливого
// отбрасывания: сколько строк открыло сообщение, сколько свернуто как
// продолжение, сколько отброшено как шум или из-за неправдоподобной даты.
type ParseStats struct {
	TotalLines       int `json:"total_lines"`
	MessageStarts    int `json:"message_starts"`
	Continuations    int `json:"continuations"`
	NoiseLines       int `json:"noise_lines"`
	WindowRejections int `json:"window_rejections"`
}

// ValidationResult описывает итог финальной проверки собранных списков.
type ValidationResult struct {
	OriginalMessageCount int     `json:"original_message_count"`
	ValidMessageCount    int     `json:"valid_message_count"`
	OriginalUserCount    int     `json:"original_user_count"`
	ValidUserCount       int     `json:"valid_user_count"`
	MessageValidityRate  float64 `json:"message_validity_rate"`
	UserValidityRate     float64 `json:"user_validity_rate"`
	// QualityOK — эвристический флаг общего качества разбора (оба показателя
	// выше 0.7). Только диагностика, результат из-за него не отклоняется.
	QualityOK bool `json:"quality_ok"`

	// Отфильтрованные списки; наружу не сериализуются.
	Messages []Message `json:"-"`
	Users    []User    `json:"-"`
}

// ImportReport объединяет построчную статистику и итог валидации
// для диагностических конечных точек.
type ImportReport struct {
	Stats      ParseStats       `json:"stats"`
	Validation ValidationResult `json:"validation"`
}
