package frame

import (
	"errors"
	"fmt"
	"io"

	"github.com/danmuck/fvwmdebug/internal/protocol"
	"golang.org/x/sys/unix"
)

// HeaderWords is the fixed packet header: start marker, type, total size
// in words, timestamp.
const HeaderWords = 4

// StartMarker opens every packet. The host stores the 32-bit value in an
// unsigned long, so 8-byte hosts send it zero-extended.
const StartMarker = 0xffffffff

// MaxPayloadCeiling bounds Limits.MaxPayloadWords. The host never sends
// more than 256 words per packet.
const MaxPayloadCeiling = 64 * 256

var (
	ErrBadStartMarker  = errors.New("frame: bad start marker")
	ErrSizeTooSmall    = errors.New("frame: size smaller than header")
	ErrPayloadTooLarge = errors.New("frame: payload too large")
	ErrTruncated       = errors.New("frame: truncated packet")
	ErrTextTooLarge    = errors.New("frame: command text too large")
	ErrBadLimits       = errors.New("frame: bad limits")
)

// Header is the fixed wire header, one host word per field.
type Header struct {
	Marker    uint64
	Type      protocol.MessageType
	Size      uint64
	Timestamp uint64
}

// Packet is one complete message from the host. Raw holds the packet
// exactly as read, header included.
type Packet struct {
	Header Header
	Body   protocol.Body
	Raw    []byte
}

// Limits constrains decode memory use.
type Limits struct {
	MaxPayloadWords uint64
}

func DefaultLimits() Limits {
	return Limits{MaxPayloadWords: 4096}
}

// Validate rejects a payload limit of zero or above MaxPayloadCeiling.
func (l Limits) Validate() error {
	if l.MaxPayloadWords == 0 || l.MaxPayloadWords > MaxPayloadCeiling {
		return fmt.Errorf("%w: max payload words %d not in 1..%d", ErrBadLimits, l.MaxPayloadWords, MaxPayloadCeiling)
	}
	return nil
}

// Reader pulls whole packets off a host stream, one at a time.
type Reader struct {
	r      io.Reader
	layout protocol.WordLayout
	limits Limits
}

// NewReader clamps limits to MaxPayloadCeiling so a size word can never
// drive an allocation past it.
func NewReader(r io.Reader, layout protocol.WordLayout, limits Limits) *Reader {
	limits.MaxPayloadWords = min(limits.MaxPayloadWords, MaxPayloadCeiling)
	return &Reader{r: r, layout: layout, limits: limits}
}

// Next blocks for the next packet. A stream closed on a packet boundary
// yields protocol.ErrNoMoreMessages. Anything else that stops the read
// leaves the stream unusable.
func (r *Reader) Next() (Packet, error) {
	ws := r.layout.Size
	head := make([]byte, HeaderWords*ws)
	n, err := readFull(r.r, head)
	if err != nil {
		if n == 0 && isClosed(err) {
			return Packet{}, protocol.ErrNoMoreMessages
		}
		return Packet{}, wrapRead("header", err)
	}

	h := DecodeHeader(r.layout, head)
	if h.Marker != StartMarker {
		return Packet{}, fmt.Errorf("%w: 0x%x", ErrBadStartMarker, h.Marker)
	}
	if h.Size < HeaderWords {
		return Packet{}, fmt.Errorf("%w: %d", ErrSizeTooSmall, h.Size)
	}
	words := h.Size - HeaderWords
	if words > r.limits.MaxPayloadWords {
		return Packet{}, fmt.Errorf("%w: %d words", ErrPayloadTooLarge, words)
	}

	raw := make([]byte, len(head)+int(words)*ws)
	copy(raw, head)
	if words > 0 {
		if _, err := readFull(r.r, raw[len(head):]); err != nil {
			return Packet{}, wrapRead("payload", err)
		}
	}
	return Packet{
		Header: h,
		Body:   protocol.NewBody(r.layout, raw[len(head):]),
		Raw:    raw,
	}, nil
}

// DecodeHeader reads the fixed header from b, which must hold HeaderWords words.
func DecodeHeader(layout protocol.WordLayout, b []byte) Header {
	ws := layout.Size
	return Header{
		Marker:    layout.Uint(b[0:ws]),
		Type:      protocol.MessageType(layout.Uint(b[ws : 2*ws])),
		Size:      layout.Uint(b[2*ws : 3*ws]),
		Timestamp: layout.Uint(b[3*ws : 4*ws]),
	}
}

// EncodePacket lays out a packet the way the host does. The module never
// sends these; fake hosts and capture tooling do.
func EncodePacket(layout protocol.WordLayout, t protocol.MessageType, timestamp uint64, payload []byte) []byte {
	words := (len(payload) + layout.Size - 1) / layout.Size
	buf := make([]byte, 0, (HeaderWords+words)*layout.Size)
	buf = layout.AppendUint(buf, StartMarker)
	buf = layout.AppendUint(buf, uint64(t))
	buf = layout.AppendUint(buf, uint64(HeaderWords+words))
	buf = layout.AppendUint(buf, timestamp)
	buf = append(buf, payload...)
	for pad := words*layout.Size - len(payload); pad > 0; pad-- {
		buf = append(buf, 0)
	}
	return buf
}

// WriteCommand sends one text command to the host: window word, int32
// length, text, int32 continue flag.
func WriteCommand(w io.Writer, layout protocol.WordLayout, window protocol.Handle, text string) error {
	if len(text) > 1<<20 {
		return ErrTextTooLarge
	}
	buf := make([]byte, 0, layout.Size+8+len(text))
	buf = layout.AppendUint(buf, uint64(window))
	buf = layout.AppendUint32(buf, uint32(len(text)))
	buf = append(buf, text...)
	buf = layout.AppendUint32(buf, 1)
	for len(buf) > 0 {
		n, err := w.Write(buf)
		buf = buf[n:]
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			if errors.Is(err, unix.EPIPE) {
				return fmt.Errorf("%w: %v", protocol.ErrPeerClosed, err)
			}
			return err
		}
	}
	return nil
}

// readFull is io.ReadFull that retries interrupted reads.
func readFull(r io.Reader, buf []byte) (int, error) {
	off := 0
	for off < len(buf) {
		n, err := r.Read(buf[off:])
		off += n
		if err == nil {
			continue
		}
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if errors.Is(err, io.EOF) && off > 0 && off < len(buf) {
			return off, io.ErrUnexpectedEOF
		}
		if off == len(buf) {
			return off, nil
		}
		return off, err
	}
	return off, nil
}

func isClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, unix.ECONNRESET)
}

func wrapRead(part string, err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) || isClosed(err) {
		return fmt.Errorf("%w: %s: %v", ErrTruncated, part, err)
	}
	return fmt.Errorf("frame: read %s: %w", part, err)
}
