// Package log wraps logrus behind go-logr/logr, the same indirection the
// teacher repo uses so call sites depend on the structured logr.Logger
// interface rather than a concrete logging library.
package log

import (
	"log"
	"os"
	"strings"

	"github.com/bombsimon/logrusr/v2"
	"github.com/go-logr/logr"
	"github.com/sirupsen/logrus"
)

// Logger exposes logging capabilities using
// https://pkg.go.dev/github.com/go-logr/logr.
type Logger struct {
	*logr.Logger
}

// New creates an instance of *Logger. In production (runEnv=="production")
// it emits single-line JSON suitable for a log aggregator; otherwise it
// emits logrus's human-readable text formatter.
func New(logLevel Level, runEnv string) *Logger {
	logrusLog := logrus.New()
	logrusLog.SetLevel(parseLogrusLevel(logLevel))

	if runEnv == "production" {
		logrusLog.SetOutput(os.Stdout)
		logrusLog.SetFormatter(&logrus.JSONFormatter{FieldMap: logrus.FieldMap{
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		}})
	}

	return NewLogrusLogger(logrusLog)
}

// NewLogrusLogger creates an instance of *Logger backed by the supplied
// logrusLog instance.
func NewLogrusLogger(logrusLog *logrus.Logger) *Logger {
	logrLogger := logrusr.New(logrusLog)
	return &Logger{&logrLogger}
}

// ParseLevel takes a string level and returns the Level constant. Unknown
// levels default to InfoLevel, to swallow config typos rather than fail
// startup over a logging knob.
func ParseLevel(lvl string) Level {
	switch strings.ToLower(lvl) {
	case "panic":
		return PanicLevel
	case "fatal":
		return FatalLevel
	case "error":
		return ErrorLevel
	case "warn":
		return WarnLevel
	case "info":
		return InfoLevel
	case "debug":
		return DebugLevel
	case "trace":
		return TraceLevel
	}
	return DefaultLevel
}

// Level is a string representation of a log level.
type Level string

// Log levels.
const (
	DefaultLevel       = InfoLevel
	TraceLevel   Level = "trace"
	DebugLevel   Level = "debug"
	InfoLevel    Level = "info"
	WarnLevel    Level = "warn"
	ErrorLevel   Level = "error"
	PanicLevel   Level = "panic"
	FatalLevel   Level = "fatal"
)

func (l Level) String() string {
	return string(l)
}

func parseLogrusLevel(lvl Level) logrus.Level {
	logrusLevel, err := logrus.ParseLevel(lvl.String())
	if err != nil {
		log.Printf("defaulting to INFO log level, as %s is not a valid log level: %+v", lvl, err)
		return logrus.InfoLevel
	}
	return logrusLevel
}
