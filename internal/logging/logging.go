// Package logging holds the process-wide structured logger used across
// mu's packages. It defaults to a no-op logger so library consumers pay
// nothing unless they opt in with SetLogger.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the process-wide logger, initializing it to a no-op
// logger on first use if SetLogger has not been called yet.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger installs l as the process-wide logger. Call it once during
// startup, before any package has called Logger.
func SetLogger(l *zap.Logger) {
	logger = l
}
