package log

import "sync/atomic"

// defaultLogger is the process-wide fallback used by components whose
// logger was not injected, such as a Decomposer built without WithLogger.
var defaultLogger atomic.Pointer[Logger]

// SetDefaultLogger installs the process-wide default logger. The CLI
// calls this once after the logging config is resolved.
func SetDefaultLogger(logger *Logger) {
	defaultLogger.Store(logger)
}

// DefaultLogger returns the process-wide default logger, initializing
// one with standard settings on first use.
func DefaultLogger() *Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	defaultLogger.CompareAndSwap(nil, Default())
	return defaultLogger.Load()
}
