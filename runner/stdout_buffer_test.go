package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTailBuffer(t *testing.T) {
	t.Run("keeps everything below the limit", func(t *testing.T) {
		b := newTailBuffer(16)
		_, err := b.Write([]byte("hello"))
		require.NoError(t, err)
		assert.Equal(t, "hello", string(b.Bytes()))
		assert.False(t, b.Truncated())
		assert.Equal(t, "hello", b.snippet())
	})

	t.Run("keeps the most recent bytes", func(t *testing.T) {
		b := newTailBuffer(8)
		_, _ = b.Write([]byte("0123456789"))
		_, _ = b.Write([]byte("abc"))
		assert.Equal(t, "56789abc", string(b.Bytes()))
		assert.Equal(t, int64(13), b.TotalBytes())
		assert.True(t, b.Truncated())
		assert.True(t, strings.HasPrefix(b.snippet(), "... (output truncated) ..."))
		assert.True(t, strings.HasSuffix(b.snippet(), "56789abc"))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, newTailBuffer(0).snippet())
	})
}
