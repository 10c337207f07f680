package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemFilter_IsNoise(t *testing.T) {
	f := NewSystemFilter()

	t.Run("group membership changes are noise", func(t *testing.T) {
		assert.True(t, f.IsNoise("System", "Carol added Dave"))
		assert.True(t, f.IsNoise("System", "Dave left"))
		assert.True(t, f.IsNoise("Alice", "You removed Bob"))
	})

	t.Run("encryption banner is noise", func(t *testing.T) {
		assert.True(t, f.IsNoise("System", "Messages and calls are end-to-end encrypted."))
	})

	t.Run("call notices are noise", func(t *testing.T) {
		assert.True(t, f.IsNoise("Alice", "Missed voice call"))
		assert.True(t, f.IsNoise("Alice", "Missed video call"))
	})

	t.Run("deletion notices are noise", func(t *testing.T) {
		assert.True(t, f.IsNoise("Alice", "This message was deleted"))
		assert.True(t, f.IsNoise("Alice", "You deleted this message"))
	})

	t.Run("reserved System sender is not exempt", func(t *testing.T) {
		// Отправитель System отбрасывается сам по себе, даже без фразы из списка
		assert.True(t, f.IsNoise("System", "anything at all"))
		assert.True(t, f.IsNoise("system", "anything at all"))
	})

	t.Run("hyphen-heavy long sender is noise", func(t *testing.T) {
		assert.True(t, f.IsNoise("export-chunk-0001-meta-id", "hello"))
	})

	t.Run("regular message is kept", func(t *testing.T) {
		assert.False(t, f.IsNoise("Alice", "Happy New Year!"))
		assert.False(t, f.IsNoise("Bob-Smith", "short hyphen name is fine"))
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		assert.True(t, f.IsNoise("Alice", "MESSAGES AND CALLS ARE END-TO-END ENCRYPTED"))
	})
}
