package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
)

// WordLayout describes how the host packs an unsigned long on the wire.
type WordLayout struct {
	Size  int
	Order binary.ByteOrder
}

// NativeLayout matches a host built for the same machine as this module.
func NativeLayout() WordLayout {
	return WordLayout{Size: strconv.IntSize / 8, Order: binary.NativeEndian}
}

func (l WordLayout) Validate() error {
	if l.Size != 4 && l.Size != 8 {
		return fmt.Errorf("%w: %d", ErrInvalidWordSize, l.Size)
	}
	if l.Order == nil {
		return fmt.Errorf("%w: missing byte order", ErrInvalidWordSize)
	}
	return nil
}

// Uint reads one word from the start of b.
func (l WordLayout) Uint(b []byte) uint64 {
	if l.Size == 4 {
		return uint64(l.Order.Uint32(b))
	}
	return l.Order.Uint64(b)
}

// Int reads one word from the start of b as a signed long.
func (l WordLayout) Int(b []byte) int64 {
	if l.Size == 4 {
		return int64(int32(l.Order.Uint32(b)))
	}
	return int64(l.Order.Uint64(b))
}

// AppendUint appends v as one word.
func (l WordLayout) AppendUint(b []byte, v uint64) []byte {
	var buf [8]byte
	if l.Size == 4 {
		l.Order.PutUint32(buf[:4], uint32(v))
	} else {
		l.Order.PutUint64(buf[:], v)
	}
	return append(b, buf[:l.Size]...)
}

// AppendUint32 appends a 32-bit int in the layout's byte order, as used by
// the length fields of module commands.
func (l WordLayout) AppendUint32(b []byte, v uint32) []byte {
	var buf [4]byte
	l.Order.PutUint32(buf[:], v)
	return append(b, buf[:]...)
}

// Body is a packet payload: whole host words backed by the raw bytes so
// embedded strings can be read without reinterpreting memory.
type Body struct {
	layout WordLayout
	raw    []byte
}

// NewBody wraps raw payload bytes. Trailing bytes that do not fill a word
// are not addressable as words but remain part of embedded text.
func NewBody(layout WordLayout, raw []byte) Body {
	return Body{layout: layout, raw: raw}
}

// Words builds a body from word values, mostly for tests and replay tooling.
func Words(layout WordLayout, words ...uint64) Body {
	raw := make([]byte, 0, len(words)*layout.Size)
	for _, w := range words {
		raw = layout.AppendUint(raw, w)
	}
	return Body{layout: layout, raw: raw}
}

func (b Body) Layout() WordLayout { return b.layout }

// Len is the number of whole words in the payload.
func (b Body) Len() int {
	if b.layout.Size == 0 {
		return 0
	}
	return len(b.raw) / b.layout.Size
}

// Bytes returns the raw payload. Callers must not modify it.
func (b Body) Bytes() []byte { return b.raw }

// Uint returns word i. The caller checks Len first.
func (b Body) Uint(i int) uint64 {
	off := i * b.layout.Size
	return b.layout.Uint(b.raw[off : off+b.layout.Size])
}

// Int returns word i as a signed long.
func (b Body) Int(i int) int64 {
	off := i * b.layout.Size
	return b.layout.Int(b.raw[off : off+b.layout.Size])
}

// Handle returns word i as a host handle.
func (b Body) Handle(i int) Handle {
	return Handle(b.Uint(i))
}

// Text returns the NUL-terminated string starting at word i. The read
// stops at the payload end when no terminator is present.
func (b Body) Text(i int) string {
	off := i * b.layout.Size
	if off >= len(b.raw) {
		return ""
	}
	s := b.raw[off:]
	if n := bytes.IndexByte(s, 0); n >= 0 {
		s = s[:n]
	}
	return string(s)
}
