package event

import "github.com/danmuck/fvwmdebug/internal/protocol"

// Event is a decoded packet. The set of implementations is closed.
type Event interface {
	Type() protocol.MessageType
	// Label is the header line naming the event.
	Label() string
	// Fields lists the event's values in wire order.
	Fields() []Field
	isEvent()
}

var labels = map[protocol.MessageType]string{
	protocol.MsgOldAddWindow:       "Old Add Window",
	protocol.MsgOldConfigureWindow: "Old Configure Window",
	protocol.MsgDestroyWindow:      "destroy",
	protocol.MsgFocusChange:        "focus",
	protocol.MsgNewPage:            "new page",
	protocol.MsgNewDesk:            "new desk",
	protocol.MsgRaiseWindow:        "raise",
	protocol.MsgLowerWindow:        "lower",
	protocol.MsgIconify:            "iconify",
	protocol.MsgMap:                "map",
	protocol.MsgIconLocation:       "icon location",
	protocol.MsgDeiconify:          "de-iconify",
	protocol.MsgWindowName:         "window name",
	protocol.MsgIconName:           "icon name",
	protocol.MsgResClass:           "window class",
	protocol.MsgResName:            "class resource name",
	protocol.MsgEndWindowList:      "Send_WindowList End",
	protocol.MsgAddWindow:          "Add Window",
	protocol.MsgConfigureWindow:    "Configure Window",
}

// Label returns the trace header for t, or the type name when t has no
// decoder.
func Label(t protocol.MessageType) string {
	if l, ok := labels[t]; ok {
		return l
	}
	return t.String()
}

// WindowRef is the (window, frame, owner) triple leading every window event.
type WindowRef struct {
	ID    protocol.Handle
	Frame protocol.Handle
	Owner protocol.Handle
}

func (r WindowRef) fields() []Field {
	return []Field{
		{"ID", HandleValue(r.ID)},
		{"frame ID", HandleValue(r.Frame)},
		{"fvwm ptr", HandleValue(r.Owner)},
	}
}

// WindowEvent is a bare window notification: destroy, focus, raise,
// lower, map, de-iconify.
type WindowEvent struct {
	Kind protocol.MessageType
	Ref  WindowRef
}

func (e WindowEvent) Type() protocol.MessageType { return e.Kind }
func (e WindowEvent) Label() string { return Label(e.Kind) }
func (e WindowEvent) Fields() []Field { return e.Ref.fields() }
func (WindowEvent) isEvent() {}

// IconEvent carries icon geometry: iconify and icon location.
type IconEvent struct {
	Kind protocol.MessageType
	Ref  WindowRef
	Icon protocol.Geometry
}

func (e IconEvent) Type() protocol.MessageType { return e.Kind }
func (e IconEvent) Label() string { return Label(e.Kind) }
func (e IconEvent) Fields() []Field {
	return append(e.Ref.fields(),
		Field{"icon x", Int(e.Icon.X)},
		Field{"icon y", Int(e.Icon.Y)},
		Field{"icon w", Int(e.Icon.Width)},
		Field{"icon h", Int(e.Icon.Height)},
	)
}
func (IconEvent) isEvent() {}

var textLabels = map[protocol.MessageType]string{
	protocol.MsgWindowName: "window name",
	protocol.MsgIconName:   "icon name",
	protocol.MsgResClass:   "window class",
	protocol.MsgResName:    "resource name",
}

// TextEvent carries one embedded string: window name, icon name, class or
// resource name.
type TextEvent struct {
	Kind protocol.MessageType
	Ref  WindowRef
	Text string
}

func (e TextEvent) Type() protocol.MessageType { return e.Kind }
func (e TextEvent) Label() string { return Label(e.Kind) }
func (e TextEvent) Fields() []Field {
	return append(e.Ref.fields(), Field{textLabels[e.Kind], Text(e.Text)})
}
func (TextEvent) isEvent() {}

// PageEvent reports a viewport change.
type PageEvent struct {
	X, Y int64
	Desk int64
}

func (PageEvent) Type() protocol.MessageType { return protocol.MsgNewPage }
func (e PageEvent) Label() string { return Label(protocol.MsgNewPage) }
func (e PageEvent) Fields() []Field {
	return []Field{{"x", Int(e.X)}, {"y", Int(e.Y)}, {"desk", Int(e.Desk)}}
}
func (PageEvent) isEvent() {}

// DeskEvent reports a desk switch.
type DeskEvent struct {
	Desk int64
}

func (DeskEvent) Type() protocol.MessageType { return protocol.MsgNewDesk }
func (e DeskEvent) Label() string { return Label(protocol.MsgNewDesk) }
func (e DeskEvent) Fields() []Field { return []Field{{"desk", Int(e.Desk)}} }
func (DeskEvent) isEvent() {}

// EndWindowList closes the reply to Send_WindowList. It has no payload.
type EndWindowList struct{}

func (EndWindowList) Type() protocol.MessageType { return protocol.MsgEndWindowList }
func (EndWindowList) Label() string { return Label(protocol.MsgEndWindowList) }
func (EndWindowList) Fields() []Field { return nil }
func (EndWindowList) isEvent() {}

// Unknown stands for a packet whose type has no decoder.
type Unknown struct {
	Code protocol.MessageType
}

func (e Unknown) Type() protocol.MessageType { return e.Code }
func (Unknown) Label() string { return "Unknown packet type" }
func (Unknown) Fields() []Field { return nil }
func (Unknown) isEvent() {}
