package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/fvwmdebug/internal/logging"
	"github.com/danmuck/fvwmdebug/internal/protocol/session"
	"github.com/danmuck/fvwmdebug/internal/tools"
)

var version = "2.6.0"

func main() {
	os.Exit(run(os.Args, os.Stderr))
}

// run returns the process exit code: 0 whenever the host ends the session,
// 1 for bad startup parameters or a broken transport.
func run(argv []string, stderr io.Writer) int {
	params, err := session.ParseArgs(argv)
	if err != nil {
		fmt.Fprintf(stderr, "%s Version %s should only be executed by fvwm!\n", params.Name, version)
		return 1
	}

	mcfg := defaultModuleConfig()
	if path := os.Getenv(envConfig); path != "" {
		mcfg, err = loadConfig(path)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", params.Name, err)
			return 1
		}
	}
	lcfg := logging.DefaultConfig(logging.ProfileRuntime)
	lcfg.Out = stderr
	if mcfg.LogLevelSet {
		lcfg.Level = mcfg.LogLevel
	}
	logging.ApplyEnvOverrides(&lcfg)
	logger := logging.New(lcfg).With().Str("module", params.Name).Logger()
	cfg := mcfg.Session
	logger.Debug().
		Str("window", fmt.Sprintf("0x%x", uint64(params.WindowID))).
		Str("context", params.Context).
		Str("alias", params.Alias).
		Str("host_config", params.HostConfig).
		Msg("launched")

	// SIGPIPE means the host died.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGPIPE, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	trace := stderr
	if cfg.Tee.Enabled {
		tee, err := tools.StartTee(cfg.Tee)
		if err != nil {
			logger.Warn().Err(err).Msg("companion filter disabled")
		} else {
			defer func() {
				if err := tee.Close(); err != nil {
					logger.Warn().Err(err).Msg("companion filter")
				}
			}()
			logger.Debug().Int("pid", tee.Pid()).Str("command", cfg.Tee.Command).Msg("companion filter started")
			trace = tee
		}
	}

	transport, err := session.OpenTransport(params)
	if err != nil {
		logger.Error().Err(err).Msg("open transport")
		return 1
	}
	defer transport.Close()

	s := session.New(cfg, params, trace, logger)
	if cfg.CapturePath != "" {
		cw, err := session.CreateCapture(cfg.CapturePath, cfg.Layout)
		if err != nil {
			logger.Warn().Err(err).Msg("capture disabled")
		} else {
			defer cw.Close()
			s.SetCapture(cw)
		}
	}

	if err := s.Run(ctx, transport); err != nil {
		logger.Error().Err(err).Msg("session ended")
		return 1
	}
	return 0
}
