package output

import (
	"bufio"
	"io"
	"strconv"
)

// ReadingWriter prints one whole-dB reading per line. It bypasses the
// animator and the lights, so downstream tools see the raw meter input.
type ReadingWriter struct {
	w *bufio.Writer
}

// NewReadingWriter returns a ReadingWriter on w.
func NewReadingWriter(w io.Writer) *ReadingWriter {
	return &ReadingWriter{w: bufio.NewWriter(w)}
}

// WriteReading writes db truncated toward zero and flushes the line.
func (r *ReadingWriter) WriteReading(db float64) error {
	buf := strconv.AppendInt(nil, int64(int(db)), 10)
	buf = append(buf, '\n')
	if _, err := r.w.Write(buf); err != nil {
		return err
	}
	return r.w.Flush()
}
