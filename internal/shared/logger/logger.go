package logger

import (
	"log"
	"os"
)

// Logger is an alias used by packages for dependency injection.
type Logger = log.Logger

// New returns a standard logger with a consistent subsystem prefix.
func New(subsystem string) *Logger {
	return log.New(os.Stdout, "["+subsystem+"] ", log.LstdFlags|log.Lmicroseconds|log.LUTC)
}
