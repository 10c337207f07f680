// Package assembler сворачивает строки экспорта в дискретные записи сообщений.
package assembler

import (
	"strings"
	"time"

	"whatsapp-chat-parser/internal/core/grammar"
	"whatsapp-chat-parser/internal/domain"
)

// Record — одно собранное сообщение до классификации и валидации.
type Record struct {
	Sender    string
	Timestamp time.Time
	Content   string
	System    bool
}

// Assembler — двухсостоянийный автомат свертки строк: Idle и Accumulating.
// Строка, открывающая сообщение, завершает накопленный буфер; строка без
// совпадения приклеивается к буферу как продолжение многострочного тела;
// строки до первого сообщения отбрасываются как шум.
type Assembler struct {
	matcher *grammar.Matcher
}

// New создает новый экземпляр Assembler.
func New(matcher *grammar.Matcher) *Assembler {
	return &Assembler{matcher: matcher}
}

// Assemble сворачивает строки в записи сообщений в порядке следования строк
// (еще не отсортированные по времени) и возвращает построчную статистику.
func (a *Assembler) Assemble(lines []string) ([]Record, domain.ParseStats) {
	var records []Record
	var stats domain.ParseStats

	accumulating := false
	var current Record
	var buffer []string

	flush := func() {
		if !accumulating {
			return
		}
		current.Content = strings.Join(buffer, "\n")
		records = append(records, current)
		accumulating = false
		buffer = buffer[:0]
	}

	for _, line := range lines {
		stats.TotalLines++

		match, outcome := a.matcher.Match(line)
		switch outcome {
		case grammar.OutcomeMatched:
			flush()
			current = Record{
				Sender:    match.Sender,
				Timestamp: match.Timestamp,
				System:    match.System,
			}
			buffer = append(buffer, match.Content)
			accumulating = true
			stats.MessageStarts++
		case grammar.OutcomeOutOfWindow:
			// Неправдоподобная дата: строка не фатальна, разбор продолжается.
			stats.WindowRejections++
			if accumulating {
				buffer = append(buffer, line)
			}
		default:
			if accumulating {
				buffer = append(buffer, line)
				stats.Continuations++
			} else {
				stats.NoiseLines++
			}
		}
	}

	flush()
	return records, stats
}
