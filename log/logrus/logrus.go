// Package logrus adapts a *logrus.Entry to postcard.Logger.
package logrus

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/postcard"
)

var _ postcard.Logger = LogrusLogger{}

type LogrusLogger struct{ E *logrus.Entry }

// New builds a text logger writing to w at level.
func New(w io.Writer, level string, json bool) (LogrusLogger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return LogrusLogger{}, err
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	if json {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	return LogrusLogger{E: logrus.NewEntry(l)}, nil
}

func (l LogrusLogger) With(f postcard.Fields) LogrusLogger {
	return LogrusLogger{E: l.E.WithFields(logrus.Fields(f))}
}

func (l LogrusLogger) Debug(msg string, f postcard.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}
func (l LogrusLogger) Info(msg string, f postcard.Fields) { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l LogrusLogger) Warn(msg string, f postcard.Fields) { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l LogrusLogger) Error(msg string, f postcard.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}
