package runner

import (
	"sync"
)

const defaultOutputTailBytes = 64 * 1024 // 64KB of output logged on a failed command

// tailBuffer keeps only the last N bytes written to it so a failed command can
// log a representative snippet of its output without flooding the log.
type tailBuffer struct {
	maxBytes int

	mu       sync.Mutex
	total    int64
	contents []byte
}

func newTailBuffer(maxBytes int) *tailBuffer {
	if maxBytes <= 0 {
		maxBytes = defaultOutputTailBytes
	}
	return &tailBuffer{
		maxBytes: maxBytes,
		contents: make([]byte, 0, min(maxBytes, 4096)),
	}
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.total += int64(len(p))
	b.contents = append(b.contents, p...)
	if len(b.contents) > b.maxBytes {
		// Trim the front to keep the most recent bytes
		b.contents = append(b.contents[:0], b.contents[len(b.contents)-b.maxBytes:]...)
	}
	return len(p), nil
}

func (b *tailBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	cp := make([]byte, len(b.contents))
	copy(cp, b.contents)
	return cp
}

func (b *tailBuffer) TotalBytes() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}

func (b *tailBuffer) Truncated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return int64(len(b.contents)) < b.total
}

// snippet returns the buffered tail, marked when earlier output was dropped.
func (b *tailBuffer) snippet() string {
	data := b.Bytes()
	if len(data) == 0 {
		return ""
	}
	if b.Truncated() {
		return "... (output truncated) ...\n" + string(data)
	}
	return string(data)
}
