// Package slog adapts a *slog.Logger to postcard.Logger.
package slog

import (
	"context"
	"io"
	stdslog "log/slog"
	"sort"
	"strings"

	"github.com/unkn0wn-root/postcard"
)

var _ postcard.Logger = Logger{}

type Logger struct{ L *stdslog.Logger }

// New builds a text or JSON handler logger writing to w at level.
func New(w io.Writer, level string, json bool) (Logger, error) {
	var lvl stdslog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return Logger{}, err
	}
	opts := &stdslog.HandlerOptions{Level: lvl}
	var h stdslog.Handler = stdslog.NewTextHandler(w, opts)
	if json {
		h = stdslog.NewJSONHandler(w, opts)
	}
	return Logger{L: stdslog.New(h)}, nil
}

func (s Logger) With(f postcard.Fields) Logger {
	args := make([]any, 0, len(f))
	for _, a := range attrs(f) {
		args = append(args, a)
	}
	return Logger{L: s.L.With(args...)}
}

func (s Logger) Debug(msg string, f postcard.Fields) {
	s.L.LogAttrs(context.Background(), stdslog.LevelDebug, msg, attrs(f)...)
}
func (s Logger) Info(msg string, f postcard.Fields) {
	s.L.LogAttrs(context.Background(), stdslog.LevelInfo, msg, attrs(f)...)
}
func (s Logger) Warn(msg string, f postcard.Fields) {
	s.L.LogAttrs(context.Background(), stdslog.LevelWarn, msg, attrs(f)...)
}
func (s Logger) Error(msg string, f postcard.Fields) {
	s.L.LogAttrs(context.Background(), stdslog.LevelError, msg, attrs(f)...)
}

func attrs(f postcard.Fields) []stdslog.Attr {
	if len(f) == 0 {
		return nil
	}
	out := make([]stdslog.Attr, 0, len(f))
	for k, v := range f {
		out = append(out, stdslog.Any(k, v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
