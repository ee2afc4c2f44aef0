// fvwmdebug-replay renders a packet capture recorded by fvwmdebug as if the
// packets had just arrived from the window manager.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/fvwmdebug/internal/logging"
	"github.com/danmuck/fvwmdebug/internal/protocol/frame"
	"github.com/danmuck/fvwmdebug/internal/protocol/session"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var hexPrefix bool
	var logLevel string
	var maxPayload uint64

	flagSet := pflag.NewFlagSet("fvwmdebug-replay", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.BoolVar(&hexPrefix, "hex-prefix", false, "render hex values with a 0x prefix")
	flagSet.StringVar(&logLevel, "log-level", "warn", "operational log level")
	flagSet.Uint64Var(&maxPayload, "max-payload-words", frame.DefaultLimits().MaxPayloadWords, "largest payload accepted, in words")
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "usage: fvwmdebug-replay [flags] <capture>\n")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 1
	}
	if flagSet.NArg() != 1 {
		flagSet.Usage()
		return 1
	}
	limits := frame.Limits{MaxPayloadWords: maxPayload}
	if err := limits.Validate(); err != nil {
		fmt.Fprintf(stderr, "fvwmdebug-replay: --max-payload-words: %v\n", err)
		return 1
	}
	level, ok := logging.ParseLevel(logLevel)
	if !ok {
		fmt.Fprintf(stderr, "fvwmdebug-replay: unknown log level %q\n", logLevel)
		return 1
	}

	lcfg := logging.DefaultConfig(logging.ProfileRuntime)
	lcfg.Out = stderr
	lcfg.Level = level
	logging.ApplyEnvOverrides(&lcfg)
	logger := logging.New(lcfg).With().Str("module", "fvwmdebug-replay").Logger()

	path := flagSet.Arg(0)
	cr, err := session.OpenCapture(path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("open capture")
		return 1
	}
	defer cr.Close()

	cfg := session.DefaultConfig()
	cfg.Layout = cr.Layout
	cfg.Limits = limits
	cfg.Present.HexPrefix = hexPrefix

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	params := session.Params{Name: "*fvwmdebug-replay"}
	if err := session.New(cfg, params, stdout, logger).Consume(ctx, cr); err != nil {
		logger.Error().Err(err).Str("path", path).Msg("replay failed")
		return 1
	}
	return 0
}
