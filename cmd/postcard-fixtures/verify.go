package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/unkn0wn-root/postcard"
	"github.com/unkn0wn-root/postcard/codec"
	"github.com/unkn0wn-root/postcard/fixtures"
	"github.com/unkn0wn-root/postcard/golden"
)

var errVerify = errors.New("verification failed")

// report collects per-artifact outcomes for one source.
type report struct {
	source string
	failed map[string]error
	okN    int
}

func newReport(source string) *report {
	return &report{source: source, failed: map[string]error{}}
}

func (r *report) add(name string, err error) {
	if err != nil {
		r.failed[name] = err
		return
	}
	r.okN++
}

func (r *report) print(w io.Writer) {
	names := make([]string, 0, len(r.failed))
	for n := range r.failed {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "FAIL %s %s: %v\n", r.source, n, r.failed[n])
	}
	fmt.Fprintf(w, "%s: %d ok, %d failed\n", r.source, r.okN, len(r.failed))
}

func runVerify(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("verify", stderr)
	cfg, rt, err := setup(fs, args, stderr)
	if err != nil {
		return err
	}
	defer rt.close()

	if _, err := os.Stat(cfg.Dir); err != nil {
		return err
	}
	dir, err := openDir(cfg, rt)
	if err != nil {
		return err
	}
	defer dir.Close(ctx)

	all := fixtures.All()
	var reports []*report

	r, err := verifyDir(ctx, cfg, rt, dir, all)
	if err != nil {
		return err
	}
	reports = append(reports, r)

	if cfg.Bundle != "" {
		r, err := verifyBundle(cfg, all)
		if err != nil {
			return err
		}
		reports = append(reports, r)
	}

	extra, err := openExtra(ctx, cfg, rt)
	if err != nil {
		return err
	}
	if extra != nil {
		defer extra.Close(ctx)
		r, err := verifyStore(ctx, cfg.Store, extra, all)
		if err != nil {
			return err
		}
		reports = append(reports, r)
	}

	failed := 0
	for _, r := range reports {
		r.print(stdout)
		failed += len(r.failed)
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d artifact(s)", errVerify, failed)
	}
	return nil
}

// verifyDir checks the golden files and, when present, the manifest digests.
func verifyDir(ctx context.Context, cfg config, rt *runtime, dir *golden.Store, all []fixtures.Fixture) (*report, error) {
	m, ok, err := dir.GetManifest(ctx, cfg.Manifest)
	if err != nil {
		return nil, err
	}
	if !ok {
		rt.log.Warn("manifest not found", postcard.Fields{"dir": cfg.Dir, "format": cfg.Manifest})
	}

	r := newReport(cfg.Dir)
	for _, f := range all {
		if err := dir.Verify(ctx, f); err != nil {
			r.add(f.Name, err)
			continue
		}
		payload, _, err := dir.Get(ctx, f.Name)
		if err != nil {
			return nil, err
		}
		err = checkTyped(f.Name, payload)
		if err == nil && m != nil {
			err = m.Check(f.Name, payload)
		}
		r.add(f.Name, err)
	}
	return r, nil
}

// verifyBundle checks every fixture inside a bundle file.
func verifyBundle(cfg config, all []fixtures.Fixture) (*report, error) {
	raw, err := readFile(cfg.Bundle, cfg.MaxFileSize)
	if err != nil {
		return nil, err
	}
	arts, err := golden.Unpack(raw)
	if err != nil {
		return nil, fmt.Errorf("bundle %s: %w", cfg.Bundle, err)
	}
	byName := make(map[string][]byte, len(arts))
	for _, a := range arts {
		byName[a.Name] = a.Payload
	}
	canon := postcard.NewEncoder(postcard.EncodeOptions{MapOrder: postcard.MapOrderInsertion})
	r := newReport(cfg.Bundle)
	for _, f := range all {
		payload, ok := byName[f.Name]
		if !ok {
			r.add(f.Name, golden.ErrMissing)
			continue
		}
		r.add(f.Name, golden.CheckWith(canon, f, payload))
	}
	return r, nil
}

// verifyStore reads every fixture back from a published store.
func verifyStore(ctx context.Context, name string, s *golden.Store, all []fixtures.Fixture) (*report, error) {
	names := make([]string, len(all))
	for i, f := range all {
		names[i] = f.Name
	}
	got, missing, err := s.GetMany(ctx, names)
	if err != nil {
		return nil, err
	}
	r := newReport(name)
	for _, n := range missing {
		r.add(n, golden.ErrMissing)
	}
	for _, f := range all {
		if payload, ok := got[f.Name]; ok {
			r.add(f.Name, s.Check(f, payload))
		}
	}
	return r, nil
}

// typedChecks re-read artifacts that have a hand-written Go type.
var typedChecks = map[string]func([]byte) error{
	"primitives.bin": func(b []byte) error {
		return golden.CheckCodec[fixtures.PrimitivesT](codec.Typed[fixtures.PrimitivesT, *fixtures.PrimitivesT]{}, b)
	},
}

func checkTyped(name string, payload []byte) error {
	check, ok := typedChecks[name]
	if !ok {
		return nil
	}
	if err := check(payload); err != nil {
		return fmt.Errorf("typed: %w", err)
	}
	return nil
}

// readFile reads path, refusing files larger than limit bytes. At most
// limit+1 bytes are read.
func readFile(path string, limit int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	b, err := io.ReadAll(io.LimitReader(f, int64(limit)+1))
	if err != nil {
		return nil, err
	}
	lim := codec.Limit[[]byte]{Inner: codec.Bytes{}, MaxDecode: limit}
	out, err := lim.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}
