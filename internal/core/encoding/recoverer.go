// Package encoding восстанавливает текст из байтового буфера неизвестной кодировки.
package encoding

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Recover превращает произвольный байтовый буфер в декодированную строку.
// Каскад, первый успех побеждает: строгий UTF-8; UTF-8 с заменой некорректных
// последовательностей; Latin-1; ASCII с отбрасыванием некорректных байтов;
// в крайнем случае — фильтрация до печатного ASCII. Пути с ошибкой нет:
// любой буфер дает строку, пустой буфер дает пустую строку.
func Recover(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	text, ok := decodeStrictUTF8(data)
	if !ok {
		text, ok = decodeUTF8Replace(data)
	}
	if !ok {
		text, ok = decodeLatin1(data)
	}
	if !ok {
		text, ok = decodeASCIIDrop(data)
	}
	if !ok {
		text = filterPrintable(data)
	}

	return Normalize(text)
}

// Normalize приводит переводы строк CRLF/CR к LF и удаляет невидимые
// управляющие и bidi-метки. Применяется и декодером, и классификатором
// содержимого.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return StripInvisible(text)
}

// StripInvisible удаляет небольшой набор невидимых меток Unicode,
// которыми мессенджеры размечают направление текста и переносы.
func StripInvisible(text string) string {
	return strings.Map(func(r rune) rune {
		if isInvisibleMark(r) {
			return -1
		}
		return r
	}, text)
}

func isInvisibleMark(r rune) bool {
	switch {
	case r >= 0x200B && r <= 0x200F: // zero-width space/joiner, LRM, RLM
		return true
	case r >= 0x202A && r <= 0x202E: // bidi embedding/override
		return true
	case r >= 0x2060 && r <= 0x2064: // word joiner, invisible operators
		return true
	case r == 0xFEFF: // BOM
		return true
	case r == 0x00AD: // soft hyphen
		return true
	}
	return false
}

func decodeStrictUTF8(data []byte) (string, bool) {
	if !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}

// decodeUTF8Replace декодирует UTF-8, заменяя некорректные последовательности.
// Отказывается, если замен слишком много: такой буфер почти наверняка
// однобайтовая кодировка, а не побитый UTF-8.
func decodeUTF8Replace(data []byte) (string, bool) {
	var b strings.Builder
	b.Grow(len(data))
	replaced := 0
	total := 0
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			replaced++
		}
		b.WriteRune(r)
		data = data[size:]
		total++
	}
	if replaced*3 > total {
		return "", false
	}
	return b.String(), true
}

// decodeLatin1 декодирует буфер как ISO-8859-1. Отказывается при наличии
// байтов из диапазона управляющих символов C1: осмысленный текст Latin-1
// их не содержит.
func decodeLatin1(data []byte) (string, bool) {
	for _, c := range data {
		if c >= 0x80 && c <= 0x9F {
			return "", false
		}
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	return string(decoded), true
}

// decodeASCIIDrop отбрасывает не-ASCII байты. Отказывается, если выживает
// меньше половины буфера.
func decodeASCIIDrop(data []byte) (string, bool) {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		if c < 0x80 {
			b.WriteByte(c)
		}
	}
	if b.Len()*2 < len(data) {
		return "", false
	}
	return b.String(), true
}

// filterPrintable — последний рубеж: печатный ASCII плюс CR/LF/TAB.
func filterPrintable(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		if (c >= 0x20 && c <= 0x7E) || c == '\n' || c == '\r' || c == '\t' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
