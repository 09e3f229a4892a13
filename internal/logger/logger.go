package logger

import "sync"

// Log levels accepted by Get and the log.level config key.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	global *Logger
	once   sync.Once
)

// Get returns the process-wide logger. The first call fixes the level;
// later calls return the same instance regardless of the argument.
func Get(level string) *Logger {
	once.Do(func() {
		global = newZapLogger(level)
	})
	return global
}
