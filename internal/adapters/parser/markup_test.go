package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsapp-chat-parser/internal/domain"
)

func TestIsMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"html root tag", "<html><body></body></html>", true},
		{"doctype", "<!DOCTYPE html>\n<html></html>", true},
		{"export banner", "Exported from WhatsApp\nsome text", true},
		{"plain transcript", "01/01/22, 09:00 - Alice: Hello", false},
		{"empty", "", false},
		{"angle bracket deep in file", "line\n" + string(make([]byte, 600)) + "<html>", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isMarkup(tc.in))
		})
	}
}

func TestImportParser_Parse_Markup(t *testing.T) {
	p := NewImportParser()

	t.Run("structured export with sender and time fields", func(t *testing.T) {
		doc := `<!DOCTYPE html>
<html><head><title>WhatsApp Chat with Alice</title></head><body>
<div class="message">
  <div class="from_name">Alice</div>
  <div class="date" title="01.01.2022 09:00:00">09:00</div>
  <div class="text">Hello Bob</div>
</div>
<div class="message">
  <div class="date" title="01.01.2022 09:01:00">09:01</div>
  <div class="text">Still me</div>
</div>
<div class="message">
  <div class="from_name">Bob</div>
  <div class="date" title="01.01.2022 09:02:00">09:02</div>
  <div class="text">Hi Alice</div>
</div>
</body></html>`

		chat, _, err := p.Parse([]byte(doc), "chat.html")
		require.NoError(t, err)

		require.Len(t, chat.Messages, 3)
		assert.Equal(t, "Hello Bob", chat.Messages[0].Content)
		assert.Equal(t, time.Date(2022, time.January, 1, 9, 0, 0, 0, time.Local), chat.Messages[0].Timestamp)

		// Второе сообщение без имени наследует отправителя первого
		require.Len(t, chat.Users, 2)
		assert.Equal(t, chat.Messages[0].SenderID, chat.Messages[1].SenderID)
		assert.NotEqual(t, chat.Messages[0].SenderID, chat.Messages[2].SenderID)

		assert.Equal(t, "Alice", chat.Title)
	})

	t.Run("generic blocks fall back to the grammar table", func(t *testing.T) {
		doc := `<html><body>
<p>01/01/22, 09:00 - Alice: Hello from markup</p>
<p>01/01/22, 09:05 - Bob: And back</p>
</body></html>`

		chat, _, err := p.Parse([]byte(doc), "chat.html")
		require.NoError(t, err)

		require.Len(t, chat.Messages, 2)
		assert.Equal(t, "Hello from markup", chat.Messages[0].Content)
		assert.Equal(t, "And back", chat.Messages[1].Content)
	})

	t.Run("summary page synthesizes two boundary messages", func(t *testing.T) {
		doc := `<html><body>
<div>Messages exchanged: 14823</div>
<div>First message: 01.01.2021 09:00</div>
<div>Last message: 31.12.2021 23:59</div>
</body></html>`

		chat, _, err := p.Parse([]byte(doc), "chat.html")
		require.NoError(t, err)

		require.Len(t, chat.Messages, 2)
		assert.Equal(t, "Chat begins", chat.Messages[0].Content)
		assert.Equal(t, "Chat ends", chat.Messages[1].Content)
		assert.Equal(t, time.Date(2021, time.January, 1, 9, 0, 0, 0, time.Local), chat.Messages[0].Timestamp)
		assert.Equal(t, time.Date(2021, time.December, 31, 23, 59, 0, 0, time.Local), chat.Messages[1].Timestamp)

		require.Len(t, chat.Users, 1)
		assert.Equal(t, domain.UnknownUserName, chat.Users[0].Name)
	})

	t.Run("markup without messages yields the placeholder", func(t *testing.T) {
		doc := `<html><body><div>nothing useful here</div></body></html>`

		chat, _, err := p.Parse([]byte(doc), "chat.html")
		require.NoError(t, err)

		require.Len(t, chat.Messages, 1)
		assert.Equal(t, "No messages could be parsed from this file", chat.Messages[0].Content)
	})

	t.Run("broken markup degrades without failing", func(t *testing.T) {
		doc := "<html><body><<<>>>01/01/22, 09:00 - Alice: survived</body>"

		chat, _, err := p.Parse([]byte(doc), "chat.html")
		require.NoError(t, err)
		assert.NotEmpty(t, chat.Messages)
	})
}
