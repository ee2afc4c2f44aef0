package testlog

import (
	"testing"

	"github.com/danmuck/fvwmdebug/internal/logging"
	"github.com/rs/zerolog"
)

// Start returns a debug-level logger that writes through t.Log.
func Start(t *testing.T) zerolog.Logger {
	t.Helper()
	cfg := logging.DefaultConfig(logging.ProfileTest)
	cfg.Out = zerolog.NewTestWriter(t)
	logger := logging.New(cfg)
	logger.Info().Str("test", t.Name()).Msg("start")
	return logger
}
