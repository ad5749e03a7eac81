// Package testhelpers routes application logs into the test log.
package testhelpers

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/myrjola/fitplan/internal/logging"
)

// NewLogger creates a debug level logger that writes to logSink through the context handler used in production.
func NewLogger(logSink io.Writer) *slog.Logger {
	return slog.New(logging.NewContextHandler(slog.NewTextHandler(logSink, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	})))
}

// Writer forwards each write to t.Log so that logs only show up for failed or verbose tests.
type Writer struct {
	t    testing.TB
	mu   sync.Mutex
	done bool
}

// NewWriter returns a Writer for t. Writes arriving after t has finished are discarded because background
// goroutines such as the database optimizer may still log while the test tears down.
func NewWriter(t testing.TB) io.Writer {
	w := &Writer{t: t, mu: sync.Mutex{}, done: false}
	t.Cleanup(func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.done = true
	})
	return w
}

func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.done {
		if line := bytes.TrimRight(p, "\n"); len(line) > 0 {
			w.t.Log(string(line))
		}
	}
	return len(p), nil
}
