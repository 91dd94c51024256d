// Package logging owns the process-wide leveled logger. Every package
// logs through it rather than the standard library logger so output stays
// uniformly leveled and timestamped.
package logging

import (
	"strings"

	"github.com/mborders/logmatic"
)

var logger *logmatic.Logger

func init() {
	logger = logmatic.NewLogger()
	logger.SetLevel(logmatic.INFO)
	logger.ExitOnFatal = false
}

// SetLevel adjusts verbosity. Accepts trace, debug, info, warn, error;
// anything else leaves the level at info.
func SetLevel(level string) {
	switch strings.ToLower(level) {
	case "trace":
		logger.SetLevel(logmatic.TRACE)
	case "debug":
		logger.SetLevel(logmatic.DEBUG)
	case "info":
		logger.SetLevel(logmatic.INFO)
	case "warn":
		logger.SetLevel(logmatic.WARN)
	case "error":
		logger.SetLevel(logmatic.ERROR)
	default:
		logger.SetLevel(logmatic.INFO)
	}
}

func Tracef(format string, args ...interface{}) {
	logger.Trace(format, args...)
}

func Debugf(format string, args ...interface{}) {
	logger.Debug(format, args...)
}

func Infof(format string, args ...interface{}) {
	logger.Info(format, args...)
}

func Warnf(format string, args ...interface{}) {
	logger.Warn(format, args...)
}

func Errorf(format string, args ...interface{}) {
	logger.Error(format, args...)
}
