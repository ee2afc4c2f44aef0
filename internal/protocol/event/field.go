package event

import "github.com/danmuck/fvwmdebug/internal/protocol"

// Kind selects how a field value is rendered.
type Kind uint8

const (
	KindHex Kind = iota + 1
	KindInt
	KindText
)

// Value is one rendered-as-is field value.
type Value struct {
	Kind Kind
	Uint uint64
	Int  int64
	Text string
}

func Hex(v uint64) Value { return Value{Kind: KindHex, Uint: v} }
func HandleValue(h protocol.Handle) Value { return Hex(uint64(h)) }
func Int(v int64) Value { return Value{Kind: KindInt, Int: v} }
func Text(s string) Value { return Value{Kind: KindText, Text: s} }

// Field is one labelled line of a decoded event.
type Field struct {
	Label string
	Value Value
}
