package ports

import "whatsapp-chat-parser/internal/domain"

// DataSource определяет интерфейс для получения исходных данных чата.
type DataSource interface {
	// Fetch загружает данные из источника и возвращает их в виде байтового среза.
	Fetch() ([]byte, error)
	// Name возвращает имя источника (обычно имя файла); используется только
	// для вывода заголовка чата.
	Name() string
}

// ChatParser определяет интерфейс разбора файла экспорта переписки.
type ChatParser interface {
	// Parse преобразует сырые байты экспорта в нормализованную модель чата
	// вместе с диагностическим отчетом. Ошибка возможна только при
	// невозможности построить результат; испорченное содержимое ошибкой
	// не считается.
	Parse(data []byte, sourceName string) (*domain.Chat, *domain.ImportReport, error)
}

// Exporter определяет интерфейс для вывода результата.
type Exporter interface {
	// Export выводит итоговую модель чата.
	Export(chat *domain.Chat) error
}
