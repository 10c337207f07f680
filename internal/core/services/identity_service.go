package services

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"whatsapp-chat-parser/internal/domain"
)

// IdentityResolver сопоставляет отображаемые имена отправителей со
// стабильными записями пользователей. Ключ — точное имя после обрезки
// пробелов, с учетом регистра, без нечеткого сопоставления: два участника
// с одинаковым именем не разделяются, один участник с двумя написаниями
// имени не объединяется.
type IdentityResolver struct {
	byName map[string]string
	users  []domain.User
}

// NewIdentityResolver создает новый экземпляр IdentityResolver.
// Состояние живет в рамках одного разбора.
func NewIdentityResolver() *IdentityResolver {
	return &IdentityResolver{byName: make(map[string]string)}
}

var phoneNameRegex = regexp.MustCompile(`^\+?[\d][\d\s().-]{6,}\d$`)

// Resolve возвращает идентификатор пользователя для отображаемого имени.
// Первое вхождение создает нового пользователя, последующие возвращают
// существующий идентификатор. Пустое имя канонизируется в Unknown User.
func (r *IdentityResolver) Resolve(displayName string) string {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = domain.UnknownUserName
	}

	if id, exists := r.byName[name]; exists {
		return id
	}

	user := domain.User{
		ID:   uuid.NewString(),
		Name: name,
	}
	// В групповых экспортах несохраненные контакты видны как номер телефона.
	if phoneNameRegex.MatchString(name) {
		user.Phone = canonicalPhone(name)
	}

	r.byName[name] = user.ID
	r.users = append(r.users, user)
	return user.ID
}

// Users возвращает пользователей в порядке первого появления.
func (r *IdentityResolver) Users() []domain.User {
	return r.users
}

// canonicalPhone оставляет от номера только знак плюса и цифры.
func canonicalPhone(name string) string {
	var b strings.Builder
	for i, c := range name {
		if c >= '0' && c <= '9' || c == '+' && i == 0 {
			b.WriteRune(c)
		}
	}
	return b.String()
}
