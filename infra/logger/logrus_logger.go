package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var logrusBase = newLogrusBase(os.Stdout)

func newLogrusBase(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	return l
}

// LogrusLogger implements Logger on a shared sirupsen/logrus logger.
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger tags the shared JSON logrus logger with component.
func NewLogrusLogger(component string) *LogrusLogger {
	return &LogrusLogger{entry: logrusBase.WithField("component", component)}
}

func (l *LogrusLogger) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }

func (l *LogrusLogger) Debugw(msg string, fields map[string]any) {
	l.entry.WithFields(logrus.Fields(fields)).Debug(msg)
}

func (l *LogrusLogger) Infof(format string, args ...any)  { l.entry.Infof(format, args...) }
func (l *LogrusLogger) Warnf(format string, args ...any)  { l.entry.Warnf(format, args...) }
func (l *LogrusLogger) Errorf(format string, args ...any) { l.entry.Errorf(format, args...) }
