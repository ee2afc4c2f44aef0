package schema

import (
	"slices"

	"github.com/danmuck/fvwmdebug/internal/protocol"
	"github.com/danmuck/fvwmdebug/internal/protocol/event"
	"github.com/rs/zerolog"
)

// layouts binds each decodable message type to exactly one layout. Legacy
// and current window packets are separate entries.
var layouts = map[protocol.MessageType]event.Layout{
	protocol.MsgOldAddWindow:       event.LegacyWindowLayout,
	protocol.MsgOldConfigureWindow: event.LegacyWindowLayout,
	protocol.MsgAddWindow:          event.WindowLayout,
	protocol.MsgConfigureWindow:    event.WindowLayout,

	protocol.MsgDestroyWindow: event.RefLayout,
	protocol.MsgFocusChange:   event.RefLayout,
	protocol.MsgRaiseWindow:   event.RefLayout,
	protocol.MsgLowerWindow:   event.RefLayout,
	protocol.MsgMap:           event.RefLayout,
	protocol.MsgDeiconify:     event.RefLayout,

	protocol.MsgIconify:      event.IconLayout,
	protocol.MsgIconLocation: event.IconLayout,

	protocol.MsgWindowName: event.TextLayout,
	protocol.MsgIconName:   event.TextLayout,
	protocol.MsgResClass:   event.TextLayout,
	protocol.MsgResName:    event.TextLayout,

	protocol.MsgNewPage:       event.PageLayout,
	protocol.MsgNewDesk:       event.DeskLayout,
	protocol.MsgEndWindowList: event.EndLayout,
}

// Lookup returns the layout bound to t.
func Lookup(t protocol.MessageType) (event.Layout, bool) {
	l, ok := layouts[t]
	return l, ok
}

// Registered lists every decodable type in code order.
func Registered() []protocol.MessageType {
	out := make([]protocol.MessageType, 0, len(layouts))
	for t := range layouts {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Dispatcher routes a packet body to the layout registered for its type.
// It never decodes anything itself.
type Dispatcher struct {
	log zerolog.Logger
}

func NewDispatcher(log zerolog.Logger) *Dispatcher {
	return &Dispatcher{log: log}
}

// Dispatch decodes body as type t. Types without a layout come back as
// event.Unknown with a nil error; a short payload comes back as a
// *protocol.PayloadTooShortError.
func (d *Dispatcher) Dispatch(t protocol.MessageType, body protocol.Body) (event.Event, error) {
	l, ok := layouts[t]
	if !ok {
		d.log.Info().
			Uint64("code", uint64(t)).
			Str("type", t.String()).
			Int("words", body.Len()).
			Msg("unknown message type, decode skipped")
		return event.Unknown{Code: t}, nil
	}
	d.log.Debug().Str("type", t.String()).Int("words", body.Len()).Msg("dispatch")
	ev, err := l.Decode(t, body)
	if err != nil {
		d.log.Warn().Err(err).Str("type", t.String()).Msg("decode failed")
		return nil, err
	}
	return ev, nil
}
