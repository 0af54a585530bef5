package main

import (
	"io"

	"github.com/google/uuid"

	"github.com/unkn0wn-root/postcard"
	asynchook "github.com/unkn0wn-root/postcard/hooks/async"
	pclogrus "github.com/unkn0wn-root/postcard/log/logrus"
	pcslog "github.com/unkn0wn-root/postcard/log/slog"
	pczap "github.com/unkn0wn-root/postcard/log/zap"
	"github.com/unkn0wn-root/postcard/sloghooks"
)

type runtime struct {
	runID string
	log   postcard.Logger
	hooks *asynchook.Hooks
	flush func()
}

func (r *runtime) close() {
	r.hooks.Close()
	r.flush()
}

// newRuntime builds the logger for the configured backend, tagged with a
// fresh run id, and the golden store hooks, which log through the same
// backend. zap always writes to stderr.
func newRuntime(cfg logConfig, stderr io.Writer) (*runtime, error) {
	r := &runtime{runID: uuid.NewString(), flush: func() {}}
	tag := postcard.Fields{"run_id": r.runID}

	switch cfg.Backend {
	case "logrus":
		l, err := pclogrus.New(stderr, cfg.Level, cfg.JSON)
		if err != nil {
			return nil, err
		}
		r.log = l.With(tag)
	case "slog":
		l, err := pcslog.New(stderr, cfg.Level, cfg.JSON)
		if err != nil {
			return nil, err
		}
		r.log = l.With(tag)
	default:
		l, err := pczap.New(cfg.Level, false)
		if err != nil {
			return nil, err
		}
		zl := l.With(tag)
		r.log = zl
		r.flush = func() { _ = zl.Sync() }
	}

	raw := sloghooks.NewLogger(r.log, sloghooks.Options{SelfHealEvery: 1})
	r.hooks = asynchook.New(raw, 1, 256)
	return r, nil
}
