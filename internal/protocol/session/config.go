package session

import (
	"github.com/danmuck/fvwmdebug/internal/present"
	"github.com/danmuck/fvwmdebug/internal/protocol"
	"github.com/danmuck/fvwmdebug/internal/protocol/frame"
	"github.com/danmuck/fvwmdebug/internal/tools"
)

// Config defines the session's wire and output settings.
type Config struct {
	Layout      protocol.WordLayout
	Limits      frame.Limits
	Present     present.Options
	Tee         tools.TeeConfig
	CapturePath string
}

// DefaultConfig returns settings for a host built for this machine, with
// the companion filter and capture off.
func DefaultConfig() Config {
	return Config{
		Layout: protocol.NativeLayout(),
		Limits: frame.DefaultLimits(),
		Tee:    tools.DefaultTeeConfig(),
	}
}
