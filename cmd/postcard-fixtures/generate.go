package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/unkn0wn-root/postcard"
	"github.com/unkn0wn-root/postcard/fixtures"
	"github.com/unkn0wn-root/postcard/golden"
)

func runGenerate(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("generate", stderr)
	cfg, rt, err := setup(fs, args, stderr)
	if err != nil {
		return err
	}
	defer rt.close()

	dir, err := openDir(cfg, rt)
	if err != nil {
		return err
	}
	defer dir.Close(ctx)

	extra, err := openExtra(ctx, cfg, rt)
	if err != nil {
		return err
	}
	if extra != nil {
		defer extra.Close(ctx)
	}

	m := golden.NewManifest(cfg.Namespace, rt.runID, time.Now().UTC())
	all := fixtures.All()
	arts := make([]golden.Artifact, 0, len(all))
	total := 0
	for _, f := range all {
		if err := ctx.Err(); err != nil {
			return err
		}
		b, err := dir.PutFixture(ctx, f)
		if err != nil {
			return err
		}
		m.Add(f.Name, f.Schema.TypeName(), b)
		arts = append(arts, golden.Artifact{Name: f.Name, Payload: b})
		total += len(b)
		rt.log.Debug("fixture written", postcard.Fields{"name": f.Name, "type": f.Schema.TypeName(), "size": len(b)})
		fmt.Fprintf(stdout, "%-20s %8s  %s\n", f.Name, humanize.Bytes(uint64(len(b))), f.Schema.TypeName())
	}

	if err := dir.PutManifest(ctx, m, cfg.Manifest); err != nil {
		return err
	}

	if cfg.Bundle != "" {
		raw, err := golden.Pack(arts, cfg.compression())
		if err != nil {
			return err
		}
		if err := os.WriteFile(cfg.Bundle, raw, 0o644); err != nil {
			return fmt.Errorf("write bundle: %w", err)
		}
		rt.log.Info("bundle written", postcard.Fields{
			"path":        cfg.Bundle,
			"compression": cfg.compression().String(),
			"size":        humanize.Bytes(uint64(len(raw))),
		})
	}

	if extra != nil {
		key, err := extra.PutBundle(ctx, arts)
		if err != nil {
			return err
		}
		if err := extra.PutManifest(ctx, m, cfg.Manifest); err != nil {
			return err
		}
		rt.log.Info("fixtures published", postcard.Fields{"store": cfg.Store, "bundle_key": key, "count": len(arts)})
	}

	rt.log.Info("fixtures generated", postcard.Fields{
		"dir":   cfg.Dir,
		"count": len(arts),
		"total": humanize.Bytes(uint64(total)),
	})
	return nil
}
