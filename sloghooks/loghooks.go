// Package sloghooks reports golden store events as log records. New takes a
// *slog.Logger; NewLogger takes any postcard.Logger, so events can share the
// backend of the rest of the program.
package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/postcard"
	"github.com/unkn0wn-root/postcard/golden"
	pcslog "github.com/unkn0wn-root/postcard/log/slog"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	SelfHealEvery     uint64
	BundleRejectEvery uint64
	// Optional key rewriter, e.g. to shorten namespaced keys.
	Redact func(string) string
}

type Hooks struct {
	l    postcard.Logger
	opts Options

	selfHealCtr     atomic.Uint64
	bundleRejectCtr atomic.Uint64
}

var _ golden.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	if l == nil {
		return &Hooks{opts: opts}
	}
	return &Hooks{l: pcslog.Logger{L: l}, opts: opts}
}

// NewLogger is New over a postcard.Logger; a nil l drops every event.
func NewLogger(l postcard.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	return k
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) SelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Warn("golden.self_heal", postcard.Fields{
		"key":    h.redact(storageKey),
		"reason": reason,
	})
}

func (h *Hooks) BundleRejected(ns string, requested int, reason string) {
	if h.l == nil || !sample(h.opts.BundleRejectEvery, &h.bundleRejectCtr) {
		return
	}
	h.l.Info("golden.bundle_rejected", postcard.Fields{
		"ns":        ns,
		"requested": requested,
		"reason":    reason,
	})
}

func (h *Hooks) ProviderSetRejected(storageKey string, isBundle bool) {
	if h.l == nil {
		return
	}
	h.l.Warn("golden.provider_set_rejected", postcard.Fields{
		"key":       h.redact(storageKey),
		"is_bundle": isBundle,
	})
}

func (h *Hooks) VerifyFailed(name string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("golden.verify_failed", postcard.Fields{
		"name": name,
		"err":  err,
	})
}
