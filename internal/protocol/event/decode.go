package event

import "github.com/danmuck/fvwmdebug/internal/protocol"

// Layout reads one fixed packet layout.
type Layout struct {
	// MinWords is the shortest payload the layout can be read from.
	MinWords int
	decode   func(protocol.MessageType, protocol.Body) Event
}

// Decode checks the payload length against the layout and reads it.
func (d Layout) Decode(t protocol.MessageType, body protocol.Body) (Event, error) {
	if body.Len() < d.MinWords {
		return nil, &protocol.PayloadTooShortError{Type: t, Have: body.Len(), Need: d.MinWords}
	}
	return d.decode(t, body), nil
}

const (
	legacyConfigWords  = 22
	currentConfigWords = 25
	refWords           = 3
)

// LegacyWindowLayout reads old add/configure window packets and
// WindowLayout the current ones.
var (
	LegacyWindowLayout = Layout{MinWords: legacyConfigWords, decode: decodeLegacyWindow}
	WindowLayout       = Layout{MinWords: currentConfigWords, decode: decodeCurrentWindow}
	RefLayout          = Layout{MinWords: refWords, decode: decodeWindow}
	IconLayout         = Layout{MinWords: refWords + 4, decode: decodeIcon}
	TextLayout         = Layout{MinWords: refWords, decode: decodeText}
	PageLayout         = Layout{MinWords: 3, decode: decodePage}
	DeskLayout         = Layout{MinWords: 1, decode: decodeDesk}
	EndLayout          = Layout{MinWords: 0, decode: decodeEnd}
)

func ref(b protocol.Body) WindowRef {
	return WindowRef{ID: b.Handle(0), Frame: b.Handle(1), Owner: b.Handle(2)}
}

func geometry(b protocol.Body, at int) protocol.Geometry {
	return protocol.Geometry{X: b.Int(at), Y: b.Int(at + 1), Width: b.Int(at + 2), Height: b.Int(at + 3)}
}

func size(b protocol.Body, at int) protocol.Size {
	return protocol.Size{Width: b.Int(at), Height: b.Int(at + 1)}
}

func decodeWindow(t protocol.MessageType, b protocol.Body) Event {
	return WindowEvent{Kind: t, Ref: ref(b)}
}

func decodeIcon(t protocol.MessageType, b protocol.Body) Event {
	return IconEvent{Kind: t, Ref: ref(b), Icon: geometry(b, 3)}
}

func decodeText(t protocol.MessageType, b protocol.Body) Event {
	return TextEvent{Kind: t, Ref: ref(b), Text: b.Text(refWords)}
}

func decodePage(_ protocol.MessageType, b protocol.Body) Event {
	return PageEvent{X: b.Int(0), Y: b.Int(1), Desk: b.Int(2)}
}

func decodeDesk(_ protocol.MessageType, b protocol.Body) Event {
	return DeskEvent{Desk: b.Int(0)}
}

func decodeEnd(protocol.MessageType, protocol.Body) Event {
	return EndWindowList{}
}

func decodeLegacyWindow(t protocol.MessageType, b protocol.Body) Event {
	e := windowCommon(t, b)
	e.Legacy = true
	return e
}

func decodeCurrentWindow(t protocol.MessageType, b protocol.Body) Event {
	e := windowCommon(t, b)
	e.Fore = b.Uint(22)
	e.Back = b.Uint(23)
	e.StyleFlags = b.Uint(24)
	return e
}

// windowCommon reads words 0..21, which both window layouts place alike.
func windowCommon(t protocol.MessageType, b protocol.Body) WindowConfig {
	return WindowConfig{
		Kind:        t,
		Ref:         ref(b),
		Frame:       geometry(b, 3),
		Desk:        b.Int(7),
		Flags:       b.Uint(8),
		TitleHeight: b.Int(9),
		BorderWidth: b.Int(10),
		Hints: SizeHints{
			Base:      size(b, 11),
			Increment: size(b, 13),
			Min:       size(b, 15),
			Max:       size(b, 17),
		},
		IconLabel:  b.Handle(19),
		IconPixmap: b.Handle(20),
		Gravity:    b.Uint(21),
	}
}
