package logger

import (
	"bytes"
	"strings"
	"sync"
)

// LineWriter is an io.Writer that emits one debug entry per complete line.
// It is used to forward a child process's stderr into the structured log.
type LineWriter struct {
	mu     sync.Mutex
	log    *Logger
	source string
	buf    bytes.Buffer
}

// NewLineWriter creates a LineWriter tagging every entry with source.
func NewLineWriter(l *Logger, source string) *LineWriter {
	return &LineWriter{log: l, source: source}
}

// Write buffers p and logs each complete line.
func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// incomplete line stays buffered
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.emit(line)
	}
	return len(p), nil
}

// Flush logs any buffered partial line.
func (w *LineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

func (w *LineWriter) emit(line string) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return
	}
	w.log.Debug(line, Fields("source", w.source))
}
