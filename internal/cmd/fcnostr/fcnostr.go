// Package fcnostr implements the fcnostr debugging CLI: version reporting,
// one-off action encoding and decoding, and journal inspection.
package fcnostr

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	entrypoint "github.com/louisbranch/freeciv-nostr/internal/platform/cmd"
	"github.com/louisbranch/freeciv-nostr/internal/platform/logging"
	"github.com/louisbranch/freeciv-nostr/internal/services/game/domain/action"
)

// Config holds environment defaults shared by every subcommand.
type Config struct {
	Format      string `env:"FORMAT" envDefault:"json/v1"`
	JournalPath string `env:"JOURNAL_PATH"`
	Log         logging.Config
}

// ParseConfig loads Config from FREECIV_NOSTR_* variables.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IO bundles the streams a command reads and writes.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// ErrUsage marks invocation mistakes; the message is followed by usage text.
var ErrUsage = errors.New("usage")

const usageText = `usage: fcnostr <command> [flags]

commands:
  version                         print the build version
  encode  -turn N -payload HEX    encode an action
  decode  [-format F] [-hex]      decode an action read from stdin
  journal new|append|import|list|verify
`

type command func(ctx context.Context, env *runEnv, args []string) error

var commands = map[string]command{
	"version": runVersion,
	"encode":  runEncode,
	"decode":  runDecode,
	"journal": runJournal,
}

// runEnv is the per-invocation state handed to subcommands.
type runEnv struct {
	cfg    Config
	io     IO
	logger zerolog.Logger
}

// Run dispatches args[0] to its subcommand under telemetry.
func Run(ctx context.Context, cfg Config, args []string, streams IO) error {
	if streams.Out == nil {
		return errors.New("output is required")
	}
	if streams.Err == nil {
		streams.Err = io.Discard
	}
	if streams.In == nil {
		streams.In = strings.NewReader("")
	}
	if len(args) == 0 {
		fmt.Fprint(streams.Err, usageText)
		return fmt.Errorf("%w: command is required", ErrUsage)
	}
	name := args[0]
	if name == "-h" || name == "-help" || name == "help" {
		fmt.Fprint(streams.Out, usageText)
		return nil
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprint(streams.Err, usageText)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, name)
	}

	logger := logging.Component(logging.New(cfg.Log, streams.Err), entrypoint.ServiceCLI)
	env := &runEnv{cfg: cfg, io: streams, logger: logger}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceCLI, entrypoint.RunOptions{Logger: &logger}, func(ctx context.Context) error {
		return cmd(ctx, env, args[1:])
	})
}

// newFlagSet returns a quiet flag set; parse errors are returned, not printed
// twice.
func (e *runEnv) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("fcnostr "+name, flag.ContinueOnError)
	fs.SetOutput(e.io.Err)
	return fs
}

// codec resolves a -format flag value, falling back to the configured default.
func (e *runEnv) codec(raw string) (action.Codec, error) {
	if strings.TrimSpace(raw) == "" {
		raw = e.cfg.Format
	}
	format, err := action.ParseFormat(raw)
	if err != nil {
		return nil, err
	}
	return action.DefaultRegistry().Lookup(format)
}
