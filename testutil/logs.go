package testutil

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/fyaic/multimedia-to-note/logger"
)

// LogBuffer is a concurrency-safe sink for JSON log lines.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything written so far.
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Entries decodes every JSON line written so far.
func (b *LogBuffer) Entries(t testing.TB) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(b.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

// Find returns the first entry whose message equals msg.
func (b *LogBuffer) Find(t testing.TB, msg string) (map[string]any, bool) {
	t.Helper()
	for _, e := range b.Entries(t) {
		if e["message"] == msg {
			return e, true
		}
	}
	return nil, false
}

// NewLogger returns a debug-level JSON logger writing into a LogBuffer.
func NewLogger(service string) (*logger.Logger, *LogBuffer) {
	buf := &LogBuffer{}
	cfg := &logger.Config{Level: "debug", Format: "json"}
	return logger.NewWithWriter(cfg, service, buf), buf
}
