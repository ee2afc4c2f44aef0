package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/danmuck/fvwmdebug/internal/present"
	"github.com/danmuck/fvwmdebug/internal/protocol"
	"github.com/danmuck/fvwmdebug/internal/protocol/frame"
	"github.com/danmuck/fvwmdebug/internal/protocol/schema"
	"github.com/rs/zerolog"
)

// Commands sent to the host during the handshake.
const (
	CmdSendWindowList  = "Send_WindowList"
	CmdFinishedStartup = "NOP FINISHED STARTUP"
)

var ErrTransportIO = errors.New("session: transport i/o")

// Session is one module instance attached to one host. It holds no state
// about windows; every packet is decoded, rendered and dropped.
type Session struct {
	cfg        Config
	params     Params
	log        zerolog.Logger
	dispatcher *schema.Dispatcher
	trace      *present.Presenter
	capture    io.Writer
}

// New builds a session that renders its trace to trace.
func New(cfg Config, params Params, trace io.Writer, log zerolog.Logger) *Session {
	return &Session{
		cfg:        cfg,
		params:     params,
		log:        log,
		dispatcher: schema.NewDispatcher(log),
		trace:      present.New(trace, cfg.Present),
	}
}

// SetCapture tees every raw packet read into w.
func (s *Session) SetCapture(w io.Writer) {
	s.capture = w
}

// Run echoes the launch parameters, performs the handshake and consumes
// packets until the host goes away. It returns nil for every normal end:
// stream closed, peer dead, or ctx cancelled.
func (s *Session) Run(ctx context.Context, t *Transport) error {
	if err := s.cfg.Layout.Validate(); err != nil {
		return err
	}
	if err := s.trace.Startup(s.params.Window, s.params.Context); err != nil {
		s.log.Warn().Err(err).Msg("trace write failed")
	}
	for _, cmd := range []string{CmdSendWindowList, CmdFinishedStartup} {
		if err := frame.WriteCommand(t.Out, s.cfg.Layout, 0, cmd); err != nil {
			if errors.Is(err, protocol.ErrPeerClosed) {
				s.log.Info().Err(err).Str("command", cmd).Msg("host gone during handshake")
				return nil
			}
			return fmt.Errorf("%w: send %q: %w", ErrTransportIO, cmd, err)
		}
		s.log.Debug().Str("command", cmd).Msg("sent")
	}
	return s.Consume(ctx, t.In)
}

type deadliner interface {
	SetReadDeadline(time.Time) error
}

// Consume runs the read, dispatch, present loop over in. When in supports
// read deadlines, cancelling ctx interrupts a pending read.
func (s *Session) Consume(ctx context.Context, in io.Reader) error {
	if d, ok := in.(deadliner); ok {
		stop := context.AfterFunc(ctx, func() {
			d.SetReadDeadline(time.Now())
		})
		defer stop()
	}
	reader := frame.NewReader(in, s.cfg.Layout, s.cfg.Limits)
	count := 0
	for {
		if ctx.Err() != nil {
			s.deadPipe(count)
			return nil
		}
		pkt, err := reader.Next()
		if err != nil {
			if ctx.Err() != nil {
				s.deadPipe(count)
				return nil
			}
			if errors.Is(err, protocol.ErrNoMoreMessages) {
				s.log.Info().Int("packets", count).Msg("host closed stream")
				return nil
			}
			s.log.Error().Err(err).Int("packets", count).Msg("transport failed")
			return fmt.Errorf("%w: %w", ErrTransportIO, err)
		}
		count++
		s.record(pkt)
		s.handle(pkt)
	}
}

func (s *Session) handle(pkt frame.Packet) {
	ev, err := s.dispatcher.Dispatch(pkt.Header.Type, pkt.Body)
	var tooShort *protocol.PayloadTooShortError
	switch {
	case errors.As(err, &tooShort):
		err = s.trace.Truncated(tooShort.Type, tooShort.Have, tooShort.Need)
	case err != nil:
		s.log.Warn().Err(err).Str("type", pkt.Header.Type.String()).Msg("packet skipped")
		return
	default:
		err = s.trace.RenderEvent(ev)
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("trace write failed")
	}
}

func (s *Session) record(pkt frame.Packet) {
	if s.capture == nil {
		return
	}
	if _, err := s.capture.Write(pkt.Raw); err != nil {
		s.log.Warn().Err(err).Msg("capture write failed, capture disabled")
		s.capture = nil
	}
}

func (s *Session) deadPipe(count int) {
	s.log.Info().Str("module", s.params.Name).Int("packets", count).Msg("DeadPipe")
}
