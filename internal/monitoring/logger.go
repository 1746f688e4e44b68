package monitoring

import (
	"log"
	"os"
)

// Logf is the shared diagnostic logger for storage and setup code that sits
// outside the filter packages' own log streams. It writes to stderr by
// default and may be replaced by SetLogger.
var Logf func(format string, v ...interface{}) = log.New(os.Stderr, "[monitoring] ", log.LstdFlags|log.Lmicroseconds).Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
