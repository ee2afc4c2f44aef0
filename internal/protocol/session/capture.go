package session

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danmuck/fvwmdebug/internal/protocol"
	"github.com/klauspost/compress/zstd"
)

// A capture is a preamble followed by packets exactly as the host sent
// them. The preamble records the word layout so replay needs no flags.
const captureMagic = "FVWMDBG1"

const capturePreambleLen = len(captureMagic) + 2

var ErrBadCapture = errors.New("session: bad capture")

// CaptureWriter appends raw packets to a capture stream.
type CaptureWriter struct {
	w       io.Writer
	closers []io.Closer
}

// NewCaptureWriter writes the preamble for layout to w.
func NewCaptureWriter(w io.Writer, layout protocol.WordLayout) (*CaptureWriter, error) {
	order := byte('B')
	if layout.Order.Uint16([]byte{1, 0}) == 1 {
		order = 'L'
	}
	pre := append([]byte(captureMagic), byte(layout.Size), order)
	if _, err := w.Write(pre); err != nil {
		return nil, fmt.Errorf("session: write capture preamble: %w", err)
	}
	return &CaptureWriter{w: w}, nil
}

// CreateCapture creates path; a .zst suffix compresses the stream.
func CreateCapture(path string, layout protocol.WordLayout) (*CaptureWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("session: create capture: %w", err)
	}
	var w io.Writer = f
	closers := []io.Closer{f}
	if strings.HasSuffix(path, ".zst") {
		enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("session: capture encoder: %w", err)
		}
		w = enc
		closers = []io.Closer{enc, f}
	}
	cw, err := NewCaptureWriter(w, layout)
	if err != nil {
		for _, c := range closers {
			c.Close()
		}
		return nil, err
	}
	cw.closers = closers
	return cw, nil
}

func (c *CaptureWriter) Write(p []byte) (int, error) {
	return c.w.Write(p)
}

// Close flushes the compressor, if any, and closes the file.
func (c *CaptureWriter) Close() error {
	var errs []error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CaptureReader yields the packet stream of a capture.
type CaptureReader struct {
	io.Reader
	Layout protocol.WordLayout

	close func() error
}

// NewCaptureReader consumes the preamble from r.
func NewCaptureReader(r io.Reader) (*CaptureReader, error) {
	pre := make([]byte, capturePreambleLen)
	if _, err := io.ReadFull(r, pre); err != nil {
		return nil, fmt.Errorf("%w: preamble: %v", ErrBadCapture, err)
	}
	if string(pre[:len(captureMagic)]) != captureMagic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadCapture, pre[:len(captureMagic)])
	}
	layout := protocol.WordLayout{Size: int(pre[len(captureMagic)])}
	switch pre[len(captureMagic)+1] {
	case 'L':
		layout.Order = binary.LittleEndian
	case 'B':
		layout.Order = binary.BigEndian
	default:
		return nil, fmt.Errorf("%w: byte order %q", ErrBadCapture, pre[len(captureMagic)+1])
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadCapture, err)
	}
	return &CaptureReader{Reader: r, Layout: layout, close: func() error { return nil }}, nil
}

// OpenCapture opens a capture file, decompressing .zst files.
func OpenCapture(path string) (*CaptureReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("session: open capture: %w", err)
	}
	var r io.Reader = f
	closeAll := f.Close
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: %v", ErrBadCapture, err)
		}
		r = dec
		closeAll = func() error {
			dec.Close()
			return f.Close()
		}
	}
	cr, err := NewCaptureReader(r)
	if err != nil {
		closeAll()
		return nil, err
	}
	cr.close = closeAll
	return cr, nil
}

func (c *CaptureReader) Close() error {
	return c.close()
}
