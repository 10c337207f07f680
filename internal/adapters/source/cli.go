package source

import (
	"fmt"
	"os"
	"path/filepath"

	"whatsapp-chat-parser/internal/ports"
)

// FileSource реализует интерфейс DataSource для чтения данных из файла,
// указанного в командной строке.
type FileSource struct {
	filePath string
}

// NewFileSource создает новый экземпляр FileSource.
func NewFileSource(filePath string) ports.DataSource {
	return &FileSource{filePath: filePath}
}

// Fetch читает файл по указанному пути и возвращает его содержимое.
// Это единственная ошибка конвейера, видимая вызывающему: без байтов
// источника строить нечего.
func (s *FileSource) Fetch() ([]byte, error) {
	if s.filePath == "" {
		return nil, fmt.Errorf("не указан путь к файлу")
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", s.filePath, err)
	}

	return data, nil
}

// Name возвращает имя файла без каталога; используется для заголовка чата.
func (s *FileSource) Name() string {
	return filepath.Base(s.filePath)
}
