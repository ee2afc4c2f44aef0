package session

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/fvwmdebug/internal/protocol"
	"github.com/danmuck/fvwmdebug/internal/protocol/frame"
	"github.com/danmuck/fvwmdebug/internal/testutil/testlog"
	"go.uber.org/goleak"
)

var layout = protocol.WordLayout{Size: 8, Order: binary.LittleEndian}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Layout = layout
	return cfg
}

func testParams() Params {
	return Params{Name: "*FvwmDebug", Window: "1a00003", Context: "ROOT"}
}

func packet(t protocol.MessageType, words ...uint64) []byte {
	return frame.EncodePacket(layout, t, 0, protocol.Words(layout, words...).Bytes())
}

func signed(v int64) uint64 { return uint64(v) }

type hostPipes struct {
	toModule   *os.File
	fromHost   *os.File
	toHost     *os.File
	fromModule *os.File
}

func newHostPipes(t *testing.T) hostPipes {
	t.Helper()
	fromHost, toModule, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	fromModule, toHost, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	t.Cleanup(func() {
		for _, f := range []*os.File{fromHost, toModule, fromModule, toHost} {
			f.Close()
		}
	})
	return hostPipes{toModule: toModule, fromHost: fromHost, toHost: toHost, fromModule: fromModule}
}

func readCommands(t *testing.T, r io.Reader) []string {
	t.Helper()
	var cmds []string
	for {
		var head [12]byte
		if _, err := io.ReadFull(r, head[:]); err != nil {
			return cmds
		}
		n := binary.LittleEndian.Uint32(head[8:12])
		body := make([]byte, n+4)
		if _, err := io.ReadFull(r, body); err != nil {
			t.Fatalf("short command: %v", err)
		}
		cmds = append(cmds, string(body[:n]))
	}
}

func TestRunHandshakeThenImmediateClose(t *testing.T) {
	log := testlog.Start(t)
	p := newHostPipes(t)
	p.toModule.Close()

	var trace bytes.Buffer
	s := New(testConfig(), testParams(), &trace, log)
	if err := s.Run(context.Background(), &Transport{In: p.fromHost, Out: p.toHost}); err != nil {
		t.Fatalf("run: %v", err)
	}
	p.toHost.Close()

	cmds := readCommands(t, p.fromModule)
	if len(cmds) != 2 || cmds[0] != CmdSendWindowList || cmds[1] != CmdFinishedStartup {
		t.Fatalf("unexpected handshake %q", cmds)
	}
	want := "Application Window 0x1a00003\nApplication Context ROOT\n"
	if trace.String() != want {
		t.Fatalf("trace=%q", trace.String())
	}
}

func TestRunRendersHostPackets(t *testing.T) {
	log := testlog.Start(t)
	p := newHostPipes(t)
	p.toModule.Write(packet(protocol.MsgDestroyWindow, 0x100, 0x200, 0x300))
	p.toModule.Write(packet(protocol.MsgNewPage, 5, signed(-3), 2))
	p.toModule.Write(packet(protocol.MsgDefaultIcon))
	p.toModule.Write(packet(protocol.MsgEndWindowList))
	p.toModule.Close()

	var trace bytes.Buffer
	s := New(testConfig(), testParams(), &trace, log)
	if err := s.Run(context.Background(), &Transport{In: p.fromHost, Out: p.toHost}); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := strings.Join([]string{
		"Application Window 0x1a00003",
		"Application Context ROOT",
		"destroy",
		"\t ID 100",
		"\t frame ID 200",
		"\t fvwm ptr 300",
		"new page",
		"\t x 5",
		"\t y -3",
		"\t desk 2",
		"Unknown packet type 0x200000",
		"Send_WindowList End",
		"",
	}, "\n")
	if trace.String() != want {
		t.Fatalf("trace mismatch:\ngot  %q\nwant %q", trace.String(), want)
	}
}

func TestRunPeerClosedDuringHandshake(t *testing.T) {
	log := testlog.Start(t)
	p := newHostPipes(t)
	p.fromModule.Close()

	s := New(testConfig(), testParams(), io.Discard, log)
	if err := s.Run(context.Background(), &Transport{In: p.fromHost, Out: p.toHost}); err != nil {
		t.Fatalf("broken pipe must end cleanly, got %v", err)
	}
}

func TestConsumeCancelInterruptsBlockedRead(t *testing.T) {
	defer goleak.VerifyNone(t)
	log := testlog.Start(t)
	p := newHostPipes(t)
	p.toModule.Write(packet(protocol.MsgNewDesk, 3))

	ctx, cancel := context.WithCancel(context.Background())
	var trace bytes.Buffer
	s := New(testConfig(), testParams(), &trace, log)
	done := make(chan error, 1)
	go func() { done <- s.Consume(ctx, p.fromHost) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("cancelled consume: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("consume did not observe cancellation")
	}
	if trace.String() != "new desk\n\t desk 3\n" {
		t.Fatalf("trace=%q", trace.String())
	}
}

func TestConsumeCancelledBeforeStart(t *testing.T) {
	log := testlog.Start(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := bytes.NewReader(packet(protocol.MsgNewDesk, 3))
	var trace bytes.Buffer
	if err := New(testConfig(), testParams(), &trace, log).Consume(ctx, in); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if trace.Len() != 0 {
		t.Fatalf("nothing may be decoded after cancellation, got %q", trace.String())
	}
}

func TestConsumeShortPayloadIsSkipped(t *testing.T) {
	log := testlog.Start(t)
	var in bytes.Buffer
	in.Write(packet(protocol.MsgNewPage, 1, 2))
	in.Write(packet(protocol.MsgNewDesk, 4))
	var trace bytes.Buffer
	if err := New(testConfig(), testParams(), &trace, log).Consume(context.Background(), &in); err != nil {
		t.Fatalf("consume: %v", err)
	}
	want := "new page (truncated: have 2 words, need 3)\nnew desk\n\t desk 4\n"
	if trace.String() != want {
		t.Fatalf("trace=%q", trace.String())
	}
}

func TestConsumeDesyncIsFatal(t *testing.T) {
	log := testlog.Start(t)
	raw := packet(protocol.MsgNewDesk, 4)
	raw[0] = 0x7f
	err := New(testConfig(), testParams(), io.Discard, log).Consume(context.Background(), bytes.NewReader(raw))
	if !errors.Is(err, ErrTransportIO) || !errors.Is(err, frame.ErrBadStartMarker) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestConsumeTruncatedStreamIsFatal(t *testing.T) {
	log := testlog.Start(t)
	raw := packet(protocol.MsgNewDesk, 4)
	err := New(testConfig(), testParams(), io.Discard, log).Consume(context.Background(), bytes.NewReader(raw[:len(raw)-2]))
	if !errors.Is(err, ErrTransportIO) || !errors.Is(err, frame.ErrTruncated) {
		t.Fatalf("expected truncated transport error, got %v", err)
	}
}

func TestRunRejectsInvalidLayout(t *testing.T) {
	log := testlog.Start(t)
	cfg := testConfig()
	cfg.Layout.Size = 3
	err := New(cfg, testParams(), io.Discard, log).Run(context.Background(), &Transport{In: bytes.NewReader(nil), Out: io.Discard})
	if !errors.Is(err, protocol.ErrInvalidWordSize) {
		t.Fatalf("expected ErrInvalidWordSize, got %v", err)
	}
}
