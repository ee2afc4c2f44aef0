package present

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/danmuck/fvwmdebug/internal/protocol"
	"github.com/danmuck/fvwmdebug/internal/protocol/event"
	"github.com/danmuck/fvwmdebug/internal/testutil/testlog"
)

var layout = protocol.WordLayout{Size: 8, Order: binary.LittleEndian}

func TestRenderDestroyBlock(t *testing.T) {
	testlog.Start(t)
	ev, err := event.RefLayout.Decode(protocol.MsgDestroyWindow, protocol.Words(layout, 0x100, 0x200, 0x300))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var buf bytes.Buffer
	if err := New(&buf, Options{}).RenderEvent(ev); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "destroy\n\t ID 100\n\t frame ID 200\n\t fvwm ptr 300\n"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}
}

func TestRenderHexPrefix(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	p := New(&buf, Options{HexPrefix: true})
	if err := p.Render("destroy", []event.Field{{Label: "ID", Value: event.Hex(0x100)}}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "destroy\n\t ID 0x100\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestRenderNewPageSigned(t *testing.T) {
	testlog.Start(t)
	ev := event.PageEvent{X: 5, Y: -3, Desk: 2}
	var buf bytes.Buffer
	if err := New(&buf, Options{}).RenderEvent(ev); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "new page\n\t x 5\n\t y -3\n\t desk 2\n"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}
}

func TestRenderUnknownAndEnd(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	p := New(&buf, Options{})
	if err := p.RenderEvent(event.Unknown{Code: protocol.MsgDefaultIcon}); err != nil {
		t.Fatalf("render unknown: %v", err)
	}
	if err := p.RenderEvent(event.EndWindowList{}); err != nil {
		t.Fatalf("render end: %v", err)
	}
	want := "Unknown packet type 0x200000\nSend_WindowList End\n"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}
}

func TestTruncatedAndStartup(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	p := New(&buf, Options{})
	if err := p.Startup("1a00003", "ROOT"); err != nil {
		t.Fatalf("startup: %v", err)
	}
	if err := p.Truncated(protocol.MsgNewPage, 2, 3); err != nil {
		t.Fatalf("truncated: %v", err)
	}
	want := "Application Window 0x1a00003\nApplication Context ROOT\nnew page (truncated: have 2 words, need 3)\n"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}
}

func TestFormatText(t *testing.T) {
	p := New(nil, Options{HexPrefix: true})
	if got := p.Format(event.Text("xterm")); got != "xterm" {
		t.Fatalf("got %q", got)
	}
	if got := p.Format(event.Int(-42)); got != "-42" {
		t.Fatalf("got %q", got)
	}
}
