// Package fsdir stores each key as a plain file in one directory. It is the
// provider behind golden file directories shared with other implementations,
// so files hold exactly the bytes passed to Set.
package fsdir

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	pr "github.com/unkn0wn-root/postcard/provider"
)

var (
	ErrBadKey   = errors.New("fsdir: key is not a plain file name")
	ErrTooLarge = errors.New("fsdir: file exceeds size limit")
)

type Provider struct {
	dir     string
	perm    fs.FileMode
	maxSize int64
}

var (
	_ pr.Provider = (*Provider)(nil)
	_ pr.Lister   = (*Provider)(nil)
)

type Config struct {
	Dir string
	// Perm for created files; 0 => 0o644.
	Perm fs.FileMode
	// MaxSize caps the bytes Get will read; 0 => unbounded.
	MaxSize int64
}

// New creates Dir if needed.
func New(cfg Config) (*Provider, error) {
	if cfg.Dir == "" {
		return nil, errors.New("fsdir: dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("fsdir: %w", err)
	}
	perm := cfg.Perm
	if perm == 0 {
		perm = 0o644
	}
	if cfg.MaxSize < 0 {
		return nil, errors.New("fsdir: max size must be >= 0")
	}
	return &Provider{dir: cfg.Dir, perm: perm, maxSize: cfg.MaxSize}, nil
}

func (p *Provider) Dir() string { return p.dir }

func (p *Provider) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".tmp-") {
		return "", fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	return filepath.Join(p.dir, key), nil
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	path, err := p.path(key)
	if err != nil {
		return nil, false, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer f.Close()
	b, err := p.read(f, key)
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// read checks the size before reading and reads at most maxSize+1 bytes, so
// a file that grows after the stat is still refused.
func (p *Provider) read(f *os.File, key string) ([]byte, error) {
	if p.maxSize == 0 {
		return io.ReadAll(f)
	}
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() > p.maxSize {
		return nil, fmt.Errorf("%w: %q is %d bytes, limit %d", ErrTooLarge, key, fi.Size(), p.maxSize)
	}
	b, err := io.ReadAll(io.LimitReader(f, p.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > p.maxSize {
		return nil, fmt.Errorf("%w: %q, limit %d", ErrTooLarge, key, p.maxSize)
	}
	return b, nil
}

// Set writes through a temporary file and a rename so readers never see a
// partial file. TTL and cost are ignored.
func (p *Provider) Set(_ context.Context, key string, value []byte, _ int64, _ time.Duration) (bool, error) {
	path, err := p.path(key)
	if err != nil {
		return false, err
	}
	tmp, err := os.CreateTemp(p.dir, ".tmp-*")
	if err != nil {
		return false, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return false, err
	}
	if err := tmp.Close(); err != nil {
		return false, err
	}
	if err := os.Chmod(tmp.Name(), p.perm); err != nil {
		return false, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	path, err := p.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (p *Provider) Keys(_ context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || strings.HasPrefix(name, ".tmp-") || !strings.HasPrefix(name, prefix) {
			continue
		}
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys, nil
}

func (p *Provider) Close(context.Context) error { return nil }
