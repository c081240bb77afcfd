package logging

import (
	"bytes"
	"log"
)

// StdAdapter exposes a Logger as an io.Writer so it can back a stdlib
// *log.Logger, e.g. http.Server.ErrorLog. Each Write becomes one entry at
// the configured level.
type StdAdapter struct {
	logger Logger
	level  Level
}

// NewStdAdapter creates a writer that logs each line at the given level
func NewStdAdapter(logger Logger, level Level) *StdAdapter {
	return &StdAdapter{logger: logger, level: level}
}

// Write implements io.Writer
func (a *StdAdapter) Write(p []byte) (int, error) {
	msg := string(bytes.TrimRight(p, "\n"))

	switch a.level {
	case DebugLevel:
		a.logger.Debug(msg)
	case WarnLevel:
		a.logger.Warn(msg)
	case ErrorLevel, FatalLevel:
		a.logger.Error(msg)
	default:
		a.logger.Info(msg)
	}

	return len(p), nil
}

// NewStdLogger returns a stdlib *log.Logger that forwards to logger at the
// given level. Useful for libraries that only accept *log.Logger.
func NewStdLogger(logger Logger, level Level) *log.Logger {
	return log.New(NewStdAdapter(logger, level), "", 0)
}
