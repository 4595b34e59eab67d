package util

import "sync"

// MaxStderrSize bounds how much stderr of a child process is retained.
const MaxStderrSize = 16 * 1024

// BoundedBuffer is an io.Writer that keeps only the most recent maxSize bytes.
// It is safe for concurrent use.
type BoundedBuffer struct {
	data    []byte
	maxSize int
	mu      sync.Mutex
}

// NewBoundedBuffer creates a bounded buffer holding at most maxSize bytes.
func NewBoundedBuffer(maxSize int) *BoundedBuffer {
	return &BoundedBuffer{
		data:    make([]byte, 0, maxSize),
		maxSize: maxSize,
	}
}

// NewStderrBuffer creates a bounded buffer sized for capture process stderr.
func NewStderrBuffer() *BoundedBuffer {
	return NewBoundedBuffer(MaxStderrSize)
}

// Write implements io.Writer. Older bytes are dropped to make room.
func (b *BoundedBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n = len(p)
	if n >= b.maxSize {
		b.data = append(b.data[:0], p[n-b.maxSize:]...)
		return n, nil
	}

	if over := len(b.data) + n - b.maxSize; over > 0 {
		b.data = b.data[over:]
	}
	b.data = append(b.data, p...)
	return n, nil
}

// String returns the retained bytes.
func (b *BoundedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.data)
}

// LastLine returns the last non-empty line, truncated to 200 characters.
func (b *BoundedBuffer) LastLine() string {
	return LastLine(b.String())
}

// Reset discards all retained bytes.
func (b *BoundedBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = b.data[:0]
}
