// Package grammar распознает строки начала сообщения в текстовом экспорте переписки.
package grammar

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Outcome — исход сопоставления строки с таблицей грамматик.
type Outcome int

const (
	// OutcomeNoMatch — строка не соответствует ни одной грамматике.
	OutcomeNoMatch Outcome = iota
	// OutcomeMatched — строка открывает новое сообщение.
	OutcomeMatched
	// OutcomeOutOfWindow — структура распознана, но дата вне окна правдоподобия.
	OutcomeOutOfWindow
)

// Match — извлеченные поля строки, открывающей новое сообщение.
type Match struct {
	Timestamp time.Time
	Sender    string
	Content   string
	// System — строка без сегмента "отправитель:"; отправителем назначается
	// зарезервированное имя System.
	System bool
}

// EarliestExportDate — самая ранняя возможная дата экспорта платформы.
// Совпадения раньше нее отклоняются как ложные срабатывания грамматики.
var EarliestExportDate = time.Date(2009, time.January, 1, 0, 0, 0, 0, time.Local)

// ClockSkewTolerance — допуск на рассинхронизацию часов для дат из будущего.
const ClockSkewTolerance = 24 * time.Hour

// lineGrammar описывает один шаблон строки и правило извлечения полей.
// Порядок день/месяц фиксирован для каждой грамматики и никогда не
// выводится из содержимого файла: слэш-даты без скобок читаются как
// месяц/день, скобочный вариант и даты с точками — как день/месяц.
type lineGrammar struct {
	re       *regexp.Regexp
	dayFirst bool // порядок день/месяц
	iso      bool // дата в формате yyyy-mm-dd
	meridiem bool // 12-часовое время с AM/PM
	system   bool // грамматика без отправителя
}

// Таблица грамматик с фиксированным приоритетом. Сопоставление идет строго
// по порядку таблицы и останавливается на первом структурном совпадении.
var grammarTable = []lineGrammar{
	// 1. 12-часовое время с AM/PM, слэш-дата, явный отправитель:
	//    "12/31/21, 11:59 PM - Alice: text"
	{
		re:       regexp.MustCompile(`^(?P<a>\d{1,2})/(?P<b>\d{1,2})/(?P<year>\d{2,4}),\s+(?P<hour>\d{1,2}):(?P<minute>\d{2})\s*(?P<ampm>[AaPp])\.?[Mm]\.?\s+[-\x{2013}\x{2014}]\s+(?P<sender>[^:]+):\s(?P<content>.*)$`),
		meridiem: true,
	},
	// 2. 24-часовое время, слэш-дата, явный отправитель.
	{
		re: regexp.MustCompile(`^(?P<a>\d{1,2})/(?P<b>\d{1,2})/(?P<year>\d{2,4}),\s+(?P<hour>\d{1,2}):(?P<minute>\d{2})\s+[-\x{2013}\x{2014}]\s+(?P<sender>[^:]+):\s(?P<content>.*)$`),
	},
	// 3. 24-часовое время, дата через точки (день.месяц.год).
	{
		re:       regexp.MustCompile(`^(?P<a>\d{1,2})\.(?P<b>\d{1,2})\.(?P<year>\d{2,4}),?\s+(?P<hour>\d{1,2}):(?P<minute>\d{2})\s+[-\x{2013}\x{2014}]\s+(?P<sender>[^:]+):\s(?P<content>.*)$`),
		dayFirst: true,
	},
	// 4. ISO-дата (yyyy-mm-dd).
	{
		re:  regexp.MustCompile(`^(?P<year>\d{4})-(?P<a>\d{2})-(?P<b>\d{2}),?\s+(?P<hour>\d{1,2}):(?P<minute>\d{2})\s+[-\x{2013}\x{2014}]\s+(?P<sender>[^:]+):\s(?P<content>.*)$`),
		iso: true,
	},
	// 5. Скобочная дата с необязательными секундами:
	//    "[31/12/21, 23:59:45] Alice: text"
	{
		re:       regexp.MustCompile(`^\[(?P<a>\d{1,2})/(?P<b>\d{1,2})/(?P<year>\d{2,4}),?\s+(?P<hour>\d{1,2}):(?P<minute>\d{2})(?::(?P<second>\d{2}))?\]\s+(?P<sender>[^:]+):\s(?P<content>.*)$`),
		dayFirst: true,
	},
	// 6. Слэш-дата с четырехзначным годом без запятой (вариант отдельного вендора).
	{
		re: regexp.MustCompile(`^(?P<a>\d{1,2})/(?P<b>\d{1,2})/(?P<year>\d{4})\s+(?P<hour>\d{1,2}):(?P<minute>\d{2})\s+[-\x{2013}\x{2014}]\s+(?P<sender>[^:]+):\s(?P<content>.*)$`),
	},
	// 7. Служебное сообщение: тот же префикс даты/времени, но без сегмента
	//    "отправитель:". Порядок день/месяц зависит от разделителя даты.
	{
		re:     regexp.MustCompile(`^(?P<a>\d{1,2})(?P<sep>[/.])(?P<b>\d{1,2})[/.](?P<year>\d{2,4}),\s+(?P<hour>\d{1,2}):(?P<minute>\d{2})\s+[-\x{2013}\x{2014}]\s+(?P<content>[^:]+)$`),
		system: true,
	},
}

// Matcher сопоставляет строки с упорядоченной таблицей грамматик.
type Matcher struct {
	now func() time.Time
}

// NewMatcher создает новый экземпляр Matcher.
func NewMatcher() *Matcher {
	return &Matcher{now: time.Now}
}

// Match пробует грамматики строго в порядке таблицы и останавливается на
// первом структурном совпадении. Совпадение с датой вне окна правдоподобия
// отклоняется как OutcomeOutOfWindow.
func (m *Matcher) Match(line string) (Match, Outcome) {
	for i := range grammarTable {
		g := &grammarTable[i]
		sub := g.re.FindStringSubmatch(line)
		if sub == nil {
			continue
		}
		fields := namedGroups(g.re, sub)
		ts, ok := g.buildTimestamp(fields)
		if !ok {
			continue
		}
		if !m.withinWindow(ts) {
			return Match{}, OutcomeOutOfWindow
		}
		match := Match{Timestamp: ts, Content: strings.TrimSpace(fields["content"])}
		if g.system {
			match.Sender = "System"
			match.System = true
		} else {
			match.Sender = strings.TrimSpace(fields["sender"])
		}
		return match, OutcomeMatched
	}
	return Match{}, OutcomeNoMatch
}

// withinWindow проверяет окно правдоподобия: не раньше самой ранней
// возможной даты экспорта и не больше суток в будущем.
func (m *Matcher) withinWindow(ts time.Time) bool {
	if ts.Before(EarliestExportDate) {
		return false
	}
	return !ts.After(m.now().Add(ClockSkewTolerance))
}

// buildTimestamp собирает время из извлеченных полей. Дата, не проходящая
// обратную проверку календаря (например месяц 31), отклоняется.
func (g *lineGrammar) buildTimestamp(fields map[string]string) (time.Time, bool) {
	year := pivotYear(fields["year"])
	a, _ := strconv.Atoi(fields["a"])
	b, _ := strconv.Atoi(fields["b"])

	day, month := a, b
	switch {
	case g.iso:
		month, day = a, b
	case g.dayFirst:
		day, month = a, b
	case g.system && fields["sep"] == ".":
		day, month = a, b
	default:
		month, day = a, b
	}

	hour, _ := strconv.Atoi(fields["hour"])
	minute, _ := strconv.Atoi(fields["minute"])
	second := 0
	if s := fields["second"]; s != "" {
		second, _ = strconv.Atoi(s)
	}

	if g.meridiem {
		switch strings.ToLower(fields["ampm"]) {
		case "p":
			if hour != 12 {
				hour += 12
			}
		case "a":
			if hour == 12 {
				hour = 0
			}
		}
	}

	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}

	ts := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.Local)
	// time.Date нормализует переполнение (31 февраля -> 3 марта);
	// такие даты считаем ложным совпадением.
	if ts.Day() != day || ts.Month() != time.Month(month) || ts.Year() != year {
		return time.Time{}, false
	}
	return ts, true
}

// pivotYear нормализует двухзначный год: меньше 50 — 2000-е, иначе 1900-е.
func pivotYear(raw string) int {
	year, _ := strconv.Atoi(raw)
	if len(raw) == 2 {
		if year < 50 {
			return 2000 + year
		}
		return 1900 + year
	}
	return year
}

// namedGroups раскладывает подсовпадения по именам групп выражения.
func namedGroups(re *regexp.Regexp, sub []string) map[string]string {
	fields := make(map[string]string, len(sub))
	for i, name := range re.SubexpNames() {
		if name != "" && i < len(sub) {
			fields[name] = sub[i]
		}
	}
	return fields
}
