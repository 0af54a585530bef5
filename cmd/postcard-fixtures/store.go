package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/unkn0wn-root/postcard"
	"github.com/unkn0wn-root/postcard/golden"
	"github.com/unkn0wn-root/postcard/provider"
	pbigcache "github.com/unkn0wn-root/postcard/provider/bigcache"
	pbolt "github.com/unkn0wn-root/postcard/provider/bolt"
	"github.com/unkn0wn-root/postcard/provider/fsdir"
	predis "github.com/unkn0wn-root/postcard/provider/redis"
	pristretto "github.com/unkn0wn-root/postcard/provider/ristretto"
)

// openDir opens the fixture directory as an unframed store.
func openDir(cfg config, rt *runtime) (*golden.Store, error) {
	p, err := fsdir.New(fsdir.Config{Dir: cfg.Dir, MaxSize: int64(cfg.MaxFileSize)})
	if err != nil {
		return nil, err
	}
	return newStore(cfg, rt, p, golden.FramingNone)
}

// openExtra opens the store named by cfg.Store, or returns nil when there is
// none besides the directory.
func openExtra(ctx context.Context, cfg config, rt *runtime) (*golden.Store, error) {
	var (
		p   provider.Provider
		err error
	)
	switch cfg.Store {
	case "", "fsdir":
		return nil, nil
	case "bolt":
		path := cfg.Bolt.Path
		if path == "" {
			path = filepath.Join(cfg.Dir, "golden.db")
		}
		p, err = pbolt.New(pbolt.Config{Path: path, Bucket: cfg.Bolt.Bucket})
	case "bigcache":
		p, err = pbigcache.New(ctx, pbigcache.Config{})
	case "ristretto":
		p, err = pristretto.New(pristretto.DefaultConfig(int64(cfg.MaxFileSize) * 64))
	case "redis":
		if cfg.Redis.Address == "" {
			return nil, fmt.Errorf("redis store needs --redis-addr")
		}
		p, err = predis.Dial(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	return newStore(cfg, rt, p, golden.FramingWire)
}

func newStore(cfg config, rt *runtime, p provider.Provider, framing golden.Framing) (*golden.Store, error) {
	order, err := cfg.mapOrder()
	if err != nil {
		return nil, err
	}
	return golden.New(golden.Options{
		Namespace:   cfg.Namespace,
		Provider:    p,
		Logger:      rt.log,
		Hooks:       rt.hooks,
		Framing:     framing,
		Compression: cfg.compression(),
		Encode:      postcard.EncodeOptions{MapOrder: order},
	})
}
