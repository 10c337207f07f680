package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestPhoneMaskerHandler_Handle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "mask international number in message",
			input:    "user +79161234567 joined",
			expected: "user +***masked-number*** joined",
		},
		{
			name:     "mask formatted number",
			input:    "sender is +1 (555) 123-4567 today",
			expected: "sender is +***masked-number*** today",
		},
		{
			name:     "no number in message",
			input:    "This is a normal log message without numbers",
			expected: "This is a normal log message without numbers",
		},
		{
			name:     "multiple numbers in message",
			input:    "from +79161234567 to +442071234567",
			expected: "from +***masked-number*** to +***masked-number***",
		},
		{
			name:     "plain integer stays untouched",
			input:    "processed 1234567 lines",
			expected: "processed 1234567 lines",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel() // Добавляем параллельное выполнение для выявления гонок
			var buf bytes.Buffer
			originalHandler := slog.NewJSONHandler(&buf, nil)
			maskerHandler := NewPhoneMaskerHandler(originalHandler)

			logger := slog.New(maskerHandler)

			logger.Info(tt.input)

			output := buf.String()
			if !strings.Contains(output, tt.expected) {
				t.Errorf("expected output to contain %q, got %q", tt.expected, output)
			}
		})
	}
}

func TestPhoneMaskerHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	originalHandler := slog.NewJSONHandler(&buf, nil)
	maskerHandler := NewPhoneMaskerHandler(originalHandler)

	logger := slog.New(maskerHandler)

	phone := "+79161234567"
	logger = logger.With(slog.String("phone", phone))

	logger.Info("message with number in attr")

	output := buf.String()
	if strings.Contains(output, phone) {
		t.Errorf("expected output to not contain original number %q, but it did", phone)
	}
	if !strings.Contains(output, "***masked-number***") {
		t.Errorf("expected output to contain masked number, got %q", output)
	}
}

func TestPhoneMaskerHandler_ErrorAttr(t *testing.T) {
	var buf bytes.Buffer
	maskerHandler := NewPhoneMaskerHandler(slog.NewJSONHandler(&buf, nil))
	logger := slog.New(maskerHandler)

	err := errors.New("failed to notify +79161234567")
	logger.Error("notification failed", "error", err)

	output := buf.String()
	if strings.Contains(output, "+79161234567") {
		t.Errorf("expected error text to be masked, got %q", output)
	}
	if !strings.Contains(output, "***masked-number***") {
		t.Errorf("expected output to contain masked number, got %q", output)
	}
}

func TestPhoneMaskerHandler_Group(t *testing.T) {
	var buf bytes.Buffer
	maskerHandler := NewPhoneMaskerHandler(slog.NewJSONHandler(&buf, nil))
	logger := slog.New(maskerHandler)

	logger.Info("grouped",
		slog.Group("sender",
			slog.String("phone", "+79161234567"),
			slog.String("name", "Alice"),
		))

	output := buf.String()
	if strings.Contains(output, "+79161234567") {
		t.Errorf("expected grouped number to be masked, got %q", output)
	}
	if !strings.Contains(output, "Alice") {
		t.Errorf("expected untouched attr to survive, got %q", output)
	}
}

func TestMaskPhones(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"+79161234567", "+***masked-number***"},
		{"+1 (555) 123-4567", "+***masked-number***"},
		{"+44 20 7123 4567", "+***masked-number***"},
		{"no numbers here", "no numbers here"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := maskPhones(tt.input); got != tt.expected {
			t.Errorf("maskPhones(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
