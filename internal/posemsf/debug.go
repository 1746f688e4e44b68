package posemsf

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu         sync.RWMutex
	opsLogger  *log.Logger
	diagLogger *log.Logger
)

func init() {
	SetLogWriters(os.Stderr, nil)
}

// SetLogWriters configures the logging streams for the posemsf package.
// Pass nil for any writer to disable that stream.
func SetLogWriters(ops, diag io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	opsLogger = newLogger("[posemsf] ", ops)
	diagLogger = newLogger("[posemsf] ", diag)
}

func newLogger(prefix string, w io.Writer) *log.Logger {
	if w == nil {
		return nil
	}
	return log.New(w, prefix, log.LstdFlags|log.Lmicroseconds)
}

// opsf logs to the ops stream (warnings, divergence, init summaries).
func opsf(format string, args ...interface{}) {
	mu.RLock()
	l := opsLogger
	mu.RUnlock()
	if l != nil {
		l.Printf(format, args...)
	}
}

// diagf logs to the diag stream (config deliveries, tuning context).
func diagf(format string, args ...interface{}) {
	mu.RLock()
	l := diagLogger
	mu.RUnlock()
	if l != nil {
		l.Printf(format, args...)
	}
}
