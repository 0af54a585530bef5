// postcard-fixtures generates, verifies and inspects the golden artifacts of
// the postcard sample set.
//
// Usage:
//
//	postcard-fixtures generate [flags]
//	postcard-fixtures verify [flags]
//	postcard-fixtures inspect [flags] <name> [file]
//	postcard-fixtures list [flags]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

const usage = `usage: postcard-fixtures <command> [flags]

commands:
  generate   encode every sample and write the golden files
  verify     check golden files against the samples
  inspect    decode one artifact and print it as json, cbor, msgpack or proto
  list       show the sample names and their types
`

type command func(ctx context.Context, args []string, stdout, stderr io.Writer) error

var commands = map[string]command{
	"generate": runGenerate,
	"verify":   runVerify,
	"inspect":  runInspect,
	"list":     runList,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errors.New("no command")
	}
	switch args[0] {
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usage)
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
	err := cmd(ctx, args[1:], stdout, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	return err
}

func newFlagSet(name string, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// setup parses flags and builds the logger shared by every command.
func setup(fs *pflag.FlagSet, args []string, stderr io.Writer) (config, *runtime, error) {
	cfg, err := parseFlags(fs, args)
	if err != nil {
		return cfg, nil, err
	}
	rt, err := newRuntime(cfg.Log, stderr)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, rt, nil
}
