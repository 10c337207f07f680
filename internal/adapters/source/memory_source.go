package source

import (
	"fmt"

	"whatsapp-chat-parser/internal/ports"
)

// MemorySource реализует интерфейс DataSource для чтения данных из памяти.
type MemorySource struct {
	data []byte
	name string
}

// NewMemorySource создает новый экземпляр MemorySource.
func NewMemorySource(data []byte, name string) ports.DataSource {
	return &MemorySource{data: data, name: name}
}

// Fetch возвращает данные из памяти.
func (s *MemorySource) Fetch() ([]byte, error) {
	if s.data == nil {
		return nil, fmt.Errorf("данные не установлены")
	}

	// Возвращаем копию данных, чтобы избежать изменений оригинальных данных
	dataCopy := make([]byte, len(s.data))
	copy(dataCopy, s.data)

	return dataCopy, nil
}

// Name возвращает имя источника.
func (s *MemorySource) Name() string {
	return s.name
}
