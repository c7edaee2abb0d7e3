package log

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogLevel is a three-level scheme (trace/info/error) on top of a
// logrus.Logger, giving call sites elsewhere in the tree structured
// fields (WithFields) for connection id, version, and state.
type LogLevel int

const (
	NoneLevel LogLevel = iota
	ErrorLevel
	InfoLevel
	TraceLevel
)

var (
	// Level gates which of Trace/Info/Error actually emit.
	Level = NoneLevel

	base = logrus.New()
)

func init() {
	base.SetOutput(os.Stderr)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	base.SetLevel(logrus.ErrorLevel)

	if lvl := os.Getenv("BOLT_DRIVER_LOG"); lvl != "" {
		SetLevel(lvl)
	}
}

// SetLevel sets the active log level from a string ("trace", "info", "error").
// Any other value (including "") disables logging entirely.
func SetLevel(level string) {
	switch strings.ToLower(level) {
	case "trace":
		Level = TraceLevel
		base.SetLevel(logrus.TraceLevel)
	case "info":
		Level = InfoLevel
		base.SetLevel(logrus.InfoLevel)
	case "error":
		Level = ErrorLevel
		base.SetLevel(logrus.ErrorLevel)
	default:
		Level = NoneLevel
		base.SetLevel(logrus.PanicLevel)
	}
}

// Fields is a structured-logging field set, re-exported so callers don't
// need to import logrus directly.
type Fields = logrus.Fields

// WithFields returns a logrus.Entry carrying the given structured fields,
// for call sites that want to attach connection id / version / state.
func WithFields(fields Fields) *logrus.Entry {
	return base.WithFields(fields)
}

func Trace(args ...interface{}) {
	if Level >= TraceLevel {
		base.Trace(args...)
	}
}

func Tracef(msg string, args ...interface{}) {
	if Level >= TraceLevel {
		base.Tracef(msg, args...)
	}
}

func Info(args ...interface{}) {
	if Level >= InfoLevel {
		base.Info(args...)
	}
}

func Infof(msg string, args ...interface{}) {
	if Level >= InfoLevel {
		base.Infof(msg, args...)
	}
}

func Error(args ...interface{}) {
	if Level >= ErrorLevel {
		base.Error(args...)
	}
}

func Errorf(msg string, args ...interface{}) {
	if Level >= ErrorLevel {
		base.Errorf(msg, args...)
	}
}

func Fatal(args ...interface{}) {
	if Level >= ErrorLevel {
		base.Fatal(args...)
	}
}

func Fatalf(msg string, args ...interface{}) {
	if Level >= ErrorLevel {
		base.Fatalf(msg, args...)
	}
}

func Panic(args ...interface{}) {
	if Level >= ErrorLevel {
		base.Panic(args...)
	}
}

func Panicf(msg string, args ...interface{}) {
	if Level >= ErrorLevel {
		base.Panicf(msg, args...)
	}
}
