package parser

import "strings"

// defaultChatTitle — заголовок по умолчанию, когда из имени источника
// ничего не осталось.
const defaultChatTitle = "Imported Chat"

var titleExtensions = []string{".txt", ".html", ".htm", ".log"}

var titlePrefixes = []string{
	"whatsapp chat with ",
	"whatsapp chat - ",
	"exported chat with ",
	"chat with ",
}

// deriveTextTitle выводит заголовок чата из имени файла: отрезает известное
// расширение и один из известных литеральных префиксов.
func deriveTextTitle(sourceName string) string {
	title := strings.TrimSpace(sourceName)
	for _, ext := range titleExtensions {
		if strings.HasSuffix(strings.ToLower(title), ext) {
			title = title[:len(title)-len(ext)]
			break
		}
	}
	title = stripTitlePrefix(title)
	if title == "" {
		return defaultChatTitle
	}
	return title
}

// deriveMarkupTitle выводит заголовок из поля title документа.
func deriveMarkupTitle(documentTitle string) string {
	title := stripTitlePrefix(strings.TrimSpace(documentTitle))
	if title == "" {
		return ""
	}
	return title
}

func stripTitlePrefix(title string) string {
	lowered := strings.ToLower(title)
	for _, prefix := range titlePrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return strings.TrimSpace(title[len(prefix):])
		}
	}
	return strings.TrimSpace(title)
}
