// Package log is a thin leveled logging facade over logrus.
package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Setup configures the process-wide logger. Debug output is enabled with
// verbose; quiet drops everything below the error level (used by --pipe and
// the query actions so stdout stays parseable).
func Setup(verbose, quiet bool) {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	switch {
	case quiet:
		logrus.SetLevel(logrus.ErrorLevel)
	case verbose:
		logrus.SetLevel(logrus.DebugLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// SetOutput redirects log output, primarily for tests.
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

func Debug(args ...interface{}) {
	logrus.Debug(args...)
}

func Debugf(format string, args ...interface{}) {
	logrus.Debugf(format, args...)
}

func Info(args ...interface{}) {
	logrus.Info(args...)
}

func Infof(format string, args ...interface{}) {
	logrus.Infof(format, args...)
}

func Warn(args ...interface{}) {
	logrus.Warn(args...)
}

func Warnf(format string, args ...interface{}) {
	logrus.Warnf(format, args...)
}

func Error(args ...interface{}) {
	logrus.Error(args...)
}

func Errorf(format string, args ...interface{}) {
	logrus.Errorf(format, args...)
}
