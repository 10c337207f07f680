package parser

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"whatsapp-chat-parser/internal/core/assembler"
	"whatsapp-chat-parser/internal/domain"
)

// Баннеры, по которым узнаются HTML-экспорты мессенджеров.
var markupBanners = []string{
	"<html",
	"<!doctype html",
	"exported from whatsapp",
	"whatsapp chat export",
}

// isMarkup проверяет небольшой образец начала файла на корневой тег
// разметки или известный баннер экспорта.
func isMarkup(text string) bool {
	sample := text
	if len(sample) > 512 {
		sample = sample[:512]
	}
	sample = strings.ToLower(sample)
	for _, banner := range markupBanners {
		if strings.Contains(sample, banner) {
			return true
		}
	}
	return false
}

// extractFromMarkup — структурный фронтенд для HTML-экспортов. Каскад
// стратегий, побеждает первый непустой результат:
//  1. элементы с явными подполями отправителя/содержимого/времени;
//  2. блочные элементы, чей текст проходит таблицу грамматик;
//  3. сведение всего документа к тексту через обычный сборщик;
//  4. страница-сводка: синтез двух сообщений-границ.
//
// Логика дат нигде не дублируется: стратегии 2 и 3 используют тот же
// сборщик и ту же таблицу грамматик, что и текстовый путь.
func (p *ImportParser) extractFromMarkup(text string) ([]assembler.Record, domain.ParseStats, string) {
	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		// Структурный сбой всего файла не фатален: деградируем до
		// текстового пути.
		records, stats := p.extractFromText(text)
		return records, stats, ""
	}

	title := deriveMarkupTitle(documentTitle(doc))

	if records := structuredRecords(doc); len(records) > 0 {
		return records, domain.ParseStats{TotalLines: len(records), MessageStarts: len(records)}, title
	}

	if records, stats := p.assembleLines(blockTexts(doc)); len(records) > 0 {
		return records, stats, title
	}

	flattened := flattenText(doc)
	if records, stats := p.assembleLines(strings.Split(flattened, "\n")); len(records) > 0 {
		return records, stats, title
	}

	if records := summaryRecords(flattened); len(records) > 0 {
		return records, domain.ParseStats{TotalLines: len(records), MessageStarts: len(records)}, title
	}

	// Ни одна стратегия не дала сообщений; заглушку добавит валидационный шлюз.
	return nil, domain.ParseStats{}, title
}

func (p *ImportParser) assembleLines(lines []string) ([]assembler.Record, domain.ParseStats) {
	return p.assembler.Assemble(lines)
}

var senderClasses = []string{"from_name", "sender", "author"}
var contentClasses = []string{"text", "body", "message-text", "content"}
var timeClasses = []string{"date", "time", "timestamp"}

// Форматы времени, встречающиеся в атрибутах и подписях HTML-экспортов.
var markupTimeLayouts = []string{
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006, 15:04",
	"1/2/2006, 3:04 PM",
}

// structuredRecords — стратегия 1: контейнеры сообщений с явными
// подэлементами. Свертка не нужна, разметка уже разделяет сообщения.
func structuredRecords(doc *html.Node) []assembler.Record {
	var records []assembler.Record
	lastSender := ""

	for _, node := range findAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && hasClassToken(n, "message")
	}) {
		sender := firstClassText(node, senderClasses)
		content := firstClassText(node, contentClasses)
		ts, ok := nodeTimestamp(node)
		if !ok || content == "" {
			continue
		}

		// Сгруппированные сообщения одного автора опускают имя;
		// наследуем последнего известного отправителя.
		if sender == "" {
			sender = lastSender
		}
		lastSender = sender

		records = append(records, assembler.Record{
			Sender:    sender,
			Timestamp: ts,
			Content:   content,
		})
	}
	return records
}

// blockTexts — стратегия 2: плоский текст блочных элементов построчно.
func blockTexts(doc *html.Node) []string {
	var lines []string
	for _, node := range findAll(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		switch n.Data {
		case "p", "li", "td", "pre", "blockquote":
			return true
		}
		return false
	}) {
		for _, line := range strings.Split(flattenText(node), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines
}

var summaryFirstRegex = regexp.MustCompile(`(?i)first message[:\s]+([0-9][0-9./: -]+[0-9])`)
var summaryLastRegex = regexp.MustCompile(`(?i)last message[:\s]+([0-9][0-9./: -]+[0-9])`)

// summaryRecords — стратегия 4: экспорт-сводка без самих сообщений,
// только агрегатные счетчики и даты границ. Синтезируем ровно два
// сообщения-границы по извлеченным датам.
func summaryRecords(flattened string) []assembler.Record {
	first, okFirst := findSummaryDate(flattened, summaryFirstRegex)
	last, okLast := findSummaryDate(flattened, summaryLastRegex)
	if !okFirst || !okLast {
		return nil
	}

	return []assembler.Record{
		{Sender: domain.UnknownUserName, Timestamp: first, Content: "Chat begins"},
		{Sender: domain.UnknownUserName, Timestamp: last, Content: "Chat ends"},
	}
}

func findSummaryDate(text string, re *regexp.Regexp) (time.Time, bool) {
	sub := re.FindStringSubmatch(text)
	if sub == nil {
		return time.Time{}, false
	}
	return parseMarkupTime(strings.TrimSpace(sub[1]))
}

// nodeTimestamp извлекает время сообщения: сначала атрибут title элемента
// даты, затем его текст.
func nodeTimestamp(node *html.Node) (time.Time, bool) {
	for _, timeNode := range findAll(node, func(n *html.Node) bool {
		return n.Type == html.ElementNode && hasAnyClass(n, timeClasses)
	}) {
		if title := attrValue(timeNode, "title"); title != "" {
			if ts, ok := parseMarkupTime(title); ok {
				return ts, true
			}
		}
		if ts, ok := parseMarkupTime(strings.TrimSpace(flattenText(timeNode))); ok {
			return ts, true
		}
	}
	return time.Time{}, false
}

func parseMarkupTime(value string) (time.Time, bool) {
	for _, layout := range markupTimeLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// documentTitle возвращает текст элемента title документа.
func documentTitle(doc *html.Node) string {
	for _, node := range findAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "title"
	}) {
		return strings.TrimSpace(flattenText(node))
	}
	return ""
}

// flattenText сводит поддерево к тексту; блочные элементы разделяются
// переводами строк.
func flattenText(node *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "script", "style":
				return
			case "br", "p", "div", "li", "tr":
				b.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)
	return b.String()
}

// findAll возвращает все узлы поддерева, удовлетворяющие предикату.
func findAll(node *html.Node, pred func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if pred(n) {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)
	return found
}

func firstClassText(node *html.Node, classes []string) string {
	for _, n := range findAll(node, func(n *html.Node) bool {
		return n.Type == html.ElementNode && hasAnyClass(n, classes)
	}) {
		if text := strings.TrimSpace(flattenText(n)); text != "" {
			return text
		}
	}
	return ""
}

func attrValue(node *html.Node, key string) string {
	for _, attr := range node.Attr {
		if attr.Key == key {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

func classTokens(node *html.Node) []string {
	return strings.Fields(strings.ToLower(attrValue(node, "class")))
}

func hasClassToken(node *html.Node, token string) bool {
	for _, cls := range classTokens(node) {
		if cls == token {
			return true
		}
	}
	return false
}

func hasAnyClass(node *html.Node, classes []string) bool {
	for _, cls := range classTokens(node) {
		for _, want := range classes {
			if cls == want {
				return true
			}
		}
	}
	return false
}
