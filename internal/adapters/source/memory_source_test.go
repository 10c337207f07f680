package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemorySource(t *testing.T) {
	t.Run("NewMemorySource создает корректный экземпляр", func(t *testing.T) {
		src := NewMemorySource([]byte("test data"), "chat.txt")

		assert.NotNil(t, src)
	})

	t.Run("Fetch возвращает установленные данные", func(t *testing.T) {
		expectedData := []byte("test data")
		src := NewMemorySource(expectedData, "chat.txt")

		actualData, err := src.Fetch()

		assert.NoError(t, err)
		assert.Equal(t, expectedData, actualData)
	})

	t.Run("Fetch возвращает ошибку для nil данных", func(t *testing.T) {
		src := NewMemorySource(nil, "chat.txt")

		actualData, err := src.Fetch()

		assert.Error(t, err)
		assert.Nil(t, actualData)
	})

	t.Run("Fetch возвращает копию данных", func(t *testing.T) {
		originalData := []byte("test data")
		src := NewMemorySource(originalData, "chat.txt")

		fetchedData, err := src.Fetch()

		assert.NoError(t, err)
		assert.Equal(t, originalData, fetchedData)

		// Изменяем полученные данные
		fetchedData[0] = 'X'

		// Проверяем, что оригинальные данные не изменились
		assert.NotEqual(t, fetchedData, originalData)
		assert.Equal(t, []byte("test data"), originalData)
	})

	t.Run("Name возвращает имя источника", func(t *testing.T) {
		src := NewMemorySource([]byte("x"), "WhatsApp Chat with Bob.txt")

		assert.Equal(t, "WhatsApp Chat with Bob.txt", src.Name())
	})
}
