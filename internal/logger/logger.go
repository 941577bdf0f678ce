package logger

import (
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Logger is the run-scoped logger handed from main to every component.
// Fields attached with WithRun/WithComponent ride along on each line.
type Logger struct {
	*logrus.Entry
}

func New() *Logger {
	return NewWithOutput(os.Stdout)
}

// NewWithOutput is New with a caller-supplied sink, mostly for tests.
func NewWithOutput(w io.Writer) *Logger {
	base := logrus.New()
	base.SetOutput(w)
	base.SetFormatter(formatterFor(os.Getenv("ENVIRONMENT"), w == os.Stdout))
	base.SetLevel(levelFor(os.Getenv("LOG_LEVEL")))
	return &Logger{Entry: logrus.NewEntry(base)}
}

// Or returns l, or a fresh logger when l is nil.
func Or(l *Logger) *Logger {
	if l == nil {
		return New()
	}
	return l
}

// Local env = pretty console; others = JSON
func formatterFor(env string, tty bool) logrus.Formatter {
	if env == "" || env == "local" {
		return &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339Nano,
			ForceColors:     tty,
		}
	}
	return &logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano}
}

func levelFor(s string) logrus.Level {
	switch s {
	case "debug", "warn", "error":
		lvl, _ := logrus.ParseLevel(s)
		return lvl
	}
	return logrus.InfoLevel
}

// WithRun tags every line of one enrichment run with a fresh run_id.
func (l *Logger) WithRun() *Logger {
	return &Logger{Entry: l.Entry.WithField("run_id", uuid.New().String())}
}

// RunID returns the run_id attached by WithRun, if any.
func (l *Logger) RunID() string {
	id, _ := l.Entry.Data["run_id"].(string)
	return id
}

// WithComponent scopes the logger to a named component, keeping run fields.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{Entry: l.Entry.WithField("component", name)}
}

// WithError standardizes error logging
func (l *Logger) WithError(err error) *logrus.Entry {
	if err == nil {
		return l.Entry
	}
	return l.Entry.WithField("error", err.Error())
}
