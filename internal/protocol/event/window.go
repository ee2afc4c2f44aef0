package event

import "github.com/danmuck/fvwmdebug/internal/protocol"

// SizeHints are the ICCCM normal hints the host forwards with a window.
type SizeHints struct {
	Base      protocol.Size
	Increment protocol.Size
	Min       protocol.Size
	Max       protocol.Size
}

// WindowConfig is the full window description sent for add and configure
// events. Legacy layouts end at Gravity; current layouts append colours
// and a second flags word, and no longer show the word-8 flags.
type WindowConfig struct {
	Kind        protocol.MessageType
	Ref         WindowRef
	Frame       protocol.Geometry
	Desk        int64
	Flags       uint64
	TitleHeight int64
	BorderWidth int64
	Hints       SizeHints
	IconLabel   protocol.Handle
	IconPixmap  protocol.Handle
	Gravity     uint64

	// Current layout only.
	Fore       uint64
	Back       uint64
	StyleFlags uint64

	// Legacy is set by the decoder that read the pre-colour layout.
	Legacy bool
}

func (e WindowConfig) Type() protocol.MessageType { return e.Kind }
func (e WindowConfig) Label() string { return Label(e.Kind) }

func (e WindowConfig) Fields() []Field {
	f := e.Ref.fields()
	f = append(f,
		Field{"frame x", Int(e.Frame.X)},
		Field{"frame y", Int(e.Frame.Y)},
		Field{"frame w", Int(e.Frame.Width)},
		Field{"frame h", Int(e.Frame.Height)},
		Field{"desk", Int(e.Desk)},
	)
	if e.Legacy {
		f = append(f, Field{"flags", Hex(e.Flags)})
	}
	f = append(f,
		Field{"title height", Int(e.TitleHeight)},
		Field{"border width", Int(e.BorderWidth)},
		Field{"window base width", Int(e.Hints.Base.Width)},
		Field{"window base height", Int(e.Hints.Base.Height)},
		Field{"window resize width increment", Int(e.Hints.Increment.Width)},
		Field{"window resize height increment", Int(e.Hints.Increment.Height)},
		Field{"window min width", Int(e.Hints.Min.Width)},
		Field{"window min height", Int(e.Hints.Min.Height)},
		Field{"window max", Int(e.Hints.Max.Width)},
		Field{"window max", Int(e.Hints.Max.Height)},
		Field{"icon label window", HandleValue(e.IconLabel)},
		Field{"icon pixmap window", HandleValue(e.IconPixmap)},
		Field{"window gravity", Hex(e.Gravity)},
	)
	if !e.Legacy {
		f = append(f,
			Field{"forecolor", Hex(e.Fore)},
			Field{"backcolor", Hex(e.Back)},
			Field{"flags", Hex(e.StyleFlags)},
		)
	}
	return f
}

func (WindowConfig) isEvent() {}
