package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/unkn0wn-root/postcard"
	"github.com/unkn0wn-root/postcard/codec"
	"github.com/unkn0wn-root/postcard/fixtures"
)

func runList(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("list", stderr)
	cfg, rt, err := setup(fs, args, stderr)
	if err != nil {
		return err
	}
	defer rt.close()

	onDisk := map[string]bool{}
	if _, err := os.Stat(cfg.Dir); err == nil {
		dir, err := openDir(cfg, rt)
		if err != nil {
			return err
		}
		defer dir.Close(ctx)
		names, err := dir.List(ctx)
		if err != nil {
			return err
		}
		for _, n := range names {
			onDisk[n] = true
		}
	}

	order, err := cfg.mapOrder()
	if err != nil {
		return err
	}
	opts := postcard.EncodeOptions{MapOrder: order}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tKIND\tSIZE\tON DISK")
	for _, name := range fixtures.Names() {
		f, _ := fixtures.Lookup(name)
		b, err := codec.MustPostcard(f.Schema, opts).Encode(f.Value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		present := "no"
		if onDisk[name] {
			present = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", name, f.Schema.TypeName(), f.Schema.Kind, humanize.Bytes(uint64(len(b))), present)
	}
	return tw.Flush()
}
