package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/unkn0wn-root/postcard"
	"github.com/unkn0wn-root/postcard/codec"
	"github.com/unkn0wn-root/postcard/fixtures"
	"github.com/unkn0wn-root/postcard/inspect"
)

func runInspect(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("inspect", stderr)
	format := fs.StringP("format", "f", string(inspect.FormatJSON), "output format: json|cbor|msgpack|proto")
	cfg, rt, err := setup(fs, args, stderr)
	if err != nil {
		return err
	}
	defer rt.close()

	if fs.NArg() < 1 || fs.NArg() > 2 {
		return fmt.Errorf("inspect: want <name> [file], got %d argument(s)", fs.NArg())
	}
	f, ok := fixtures.Lookup(fs.Arg(0))
	if !ok {
		return fmt.Errorf("inspect: unknown fixture %q", fs.Arg(0))
	}
	out, err := inspect.ParseFormat(*format)
	if err != nil {
		return err
	}

	payload, err := loadPayload(ctx, cfg, rt, f, fs.Arg(1))
	if err != nil {
		return err
	}
	pc, err := codec.NewPostcard(f.Schema, postcard.EncodeOptions{})
	if err != nil {
		return err
	}
	v, err := pc.Decode(payload)
	if err != nil {
		return fmt.Errorf("decode %s: %w", f.Name, err)
	}
	b, err := inspect.Export(v, f.Schema, out)
	if err != nil {
		return err
	}
	if _, err := stdout.Write(b); err != nil {
		return err
	}
	if out == inspect.FormatJSON {
		_, err = io.WriteString(stdout, "\n")
	}
	return err
}

// loadPayload reads the artifact from file, from the configured store, or
// from the fixture directory, in that order of preference.
func loadPayload(ctx context.Context, cfg config, rt *runtime, f fixtures.Fixture, file string) ([]byte, error) {
	if file != "" {
		return readFile(file, cfg.MaxFileSize)
	}
	extra, err := openExtra(ctx, cfg, rt)
	if err != nil {
		return nil, err
	}
	if extra == nil {
		return readFile(filepath.Join(cfg.Dir, f.Name), cfg.MaxFileSize)
	}
	defer extra.Close(ctx)
	b, ok, err := extra.Get(ctx, f.Name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s not found in %s store", f.Name, cfg.Store)
	}
	return b, nil
}
