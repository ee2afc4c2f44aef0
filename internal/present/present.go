// Package present renders decoded events as the line-oriented diagnostic
// trace: a header line naming the event, then one tab-indented line per
// field.
package present

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/danmuck/fvwmdebug/internal/protocol"
	"github.com/danmuck/fvwmdebug/internal/protocol/event"
)

type Options struct {
	// HexPrefix renders hex values as 0x1f instead of 1f.
	HexPrefix bool
}

// Presenter writes one block per event. It does not buffer across calls.
type Presenter struct {
	w    io.Writer
	opts Options
}

func New(w io.Writer, opts Options) *Presenter {
	return &Presenter{w: w, opts: opts}
}

// Render writes a header line followed by the fields.
func (p *Presenter) Render(label string, fields []event.Field) error {
	bw := bufio.NewWriter(p.w)
	bw.WriteString(label)
	bw.WriteByte('\n')
	for _, f := range fields {
		bw.WriteString("\t ")
		bw.WriteString(f.Label)
		bw.WriteByte(' ')
		bw.WriteString(p.Format(f.Value))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// RenderEvent writes ev. Unknown packets collapse to a single line carrying
// the code.
func (p *Presenter) RenderEvent(ev event.Event) error {
	if u, ok := ev.(event.Unknown); ok {
		_, err := fmt.Fprintf(p.w, "%s 0x%x\n", u.Label(), uint64(u.Code))
		return err
	}
	return p.Render(ev.Label(), ev.Fields())
}

// Truncated notes a packet that was skipped for being shorter than its
// layout.
func (p *Presenter) Truncated(t protocol.MessageType, have, need int) error {
	_, err := fmt.Fprintf(p.w, "%s (truncated: have %d words, need %d)\n", event.Label(t), have, need)
	return err
}

// Startup echoes the parameters the host launched the module with.
func (p *Presenter) Startup(window, context string) error {
	_, err := fmt.Fprintf(p.w, "Application Window 0x%s\nApplication Context %s\n", window, context)
	return err
}

// Format renders a single value the way the trace shows it.
func (p *Presenter) Format(v event.Value) string {
	switch v.Kind {
	case event.KindHex:
		s := strconv.FormatUint(v.Uint, 16)
		if p.opts.HexPrefix {
			return "0x" + s
		}
		return s
	case event.KindInt:
		return strconv.FormatInt(v.Int, 10)
	case event.KindText:
		return v.Text
	default:
		return "?"
	}
}
