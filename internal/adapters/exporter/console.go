package exporter

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"whatsapp-chat-parser/internal/domain"
	"whatsapp-chat-parser/internal/ports"
)

// ConsoleExporter реализует интерфейс Exporter для вывода сводки чата в консоль.
type ConsoleExporter struct {
	out io.Writer
}

// NewConsoleExporter создает новый экземпляр ConsoleExporter.
func NewConsoleExporter() ports.Exporter {
	return &ConsoleExporter{out: os.Stdout}
}

// NewConsoleExporterTo создает экспортер с произвольным приемником вывода.
func NewConsoleExporterTo(out io.Writer) ports.Exporter {
	return &ConsoleExporter{out: out}
}

// Export выводит заголовок, участников и сводку сообщений чата.
func (e *ConsoleExporter) Export(chat *domain.Chat) error {
	if chat == nil {
		return fmt.Errorf("чат не задан")
	}

	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(e.out, "%s %s\n", boldGreen("Chat:"), chat.Title)
	fmt.Fprintf(e.out, "Time span: %s — %s\n",
		chat.FirstMessageAt.Format("2006-01-02 15:04"),
		chat.LastMessageAt.Format("2006-01-02 15:04"))

	fmt.Fprintf(e.out, "%s\n", boldCyan("Participants:"))
	for i, user := range chat.Users {
		if user.Phone != "" {
			fmt.Fprintf(e.out, "%d. %s (%s)\n", i+1, user.Name, user.Phone)
		} else {
			fmt.Fprintf(e.out, "%d. %s\n", i+1, user.Name)
		}
	}

	byType := make(map[domain.MessageType]int)
	for _, msg := range chat.Messages {
		byType[msg.Type]++
	}

	fmt.Fprintf(e.out, "%s %d\n", boldCyan("Messages:"), len(chat.Messages))
	for _, t := range []domain.MessageType{
		domain.MessageTypeText, domain.MessageTypeImage, domain.MessageTypeVideo,
		domain.MessageTypeAudio, domain.MessageTypeDocument, domain.MessageTypeContact,
		domain.MessageTypeLocation, domain.MessageTypeSticker,
	} {
		if byType[t] > 0 {
			fmt.Fprintf(e.out, "  %s %d\n", yellow(string(t)+":"), byType[t])
		}
	}

	return nil
}
