// Package zap adapts a *zap.Logger to postcard.Logger.
package zap

import (
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/postcard"
)

var _ postcard.Logger = ZapLogger{}

type ZapLogger struct{ L *zap.Logger }

// New builds a production JSON logger writing to stderr at level
// ("debug", "info", "warn", "error").
func New(level string, development bool) (ZapLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return ZapLogger{}, err
	}
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	l, err := cfg.Build()
	if err != nil {
		return ZapLogger{}, err
	}
	return ZapLogger{L: l}, nil
}

// With returns a logger that adds f to every record.
func (z ZapLogger) With(f postcard.Fields) ZapLogger { return ZapLogger{L: z.L.With(zf(f)...)} }

func (z ZapLogger) Debug(msg string, f postcard.Fields) { z.L.Debug(msg, zf(f)...) }
func (z ZapLogger) Info(msg string, f postcard.Fields)  { z.L.Info(msg, zf(f)...) }
func (z ZapLogger) Warn(msg string, f postcard.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z ZapLogger) Error(msg string, f postcard.Fields) { z.L.Error(msg, zf(f)...) }

// Sync flushes buffered records.
func (z ZapLogger) Sync() error { return z.L.Sync() }

func zf(f postcard.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(f))
	for _, k := range keys {
		if err, ok := f[k].(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, f[k]))
	}
	return out
}
