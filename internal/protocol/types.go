package protocol

import (
	"fmt"
	"math/bits"
)

// MessageType is the host's packet type code. Each code is a single bit so
// modules can build subscription masks out of them.
type MessageType uint64

const (
	MsgNewPage MessageType = 1 << iota
	MsgNewDesk
	MsgOldAddWindow
	MsgRaiseWindow
	MsgLowerWindow
	MsgOldConfigureWindow
	MsgFocusChange
	MsgDestroyWindow
	MsgIconify
	MsgDeiconify
	MsgWindowName
	MsgIconName
	MsgResClass
	MsgResName
	MsgEndWindowList
	MsgIconLocation
	MsgMap
	MsgError
	MsgConfigInfo
	MsgEndConfigInfo
	MsgIconFile
	MsgDefaultIcon
	MsgString
	MsgMiniIcon
	MsgWindowShade
	MsgDewindowShade
	MsgLockOnSend
	MsgSendConfig
	MsgRestack
	MsgAddWindow
	MsgConfigureWindow
)

// MaxMessages is the number of codes in the catalog.
const MaxMessages = 31

var typeNames = [MaxMessages]string{
	"M_NEW_PAGE",
	"M_NEW_DESK",
	"M_OLD_ADD_WINDOW",
	"M_RAISE_WINDOW",
	"M_LOWER_WINDOW",
	"M_OLD_CONFIGURE_WINDOW",
	"M_FOCUS_CHANGE",
	"M_DESTROY_WINDOW",
	"M_ICONIFY",
	"M_DEICONIFY",
	"M_WINDOW_NAME",
	"M_ICON_NAME",
	"M_RES_CLASS",
	"M_RES_NAME",
	"M_END_WINDOWLIST",
	"M_ICON_LOCATION",
	"M_MAP",
	"M_ERROR",
	"M_CONFIG_INFO",
	"M_END_CONFIG_INFO",
	"M_ICON_FILE",
	"M_DEFAULTICON",
	"M_STRING",
	"M_MINI_ICON",
	"M_WINDOWSHADE",
	"M_DEWINDOWSHADE",
	"M_LOCKONSEND",
	"M_SENDCONFIG",
	"M_RESTACK",
	"M_ADD_WINDOW",
	"M_CONFIGURE_WINDOW",
}

// Known reports whether t is exactly one code from the catalog.
func (t MessageType) Known() bool {
	return bits.OnesCount64(uint64(t)) == 1 && bits.TrailingZeros64(uint64(t)) < MaxMessages
}

func (t MessageType) String() string {
	if t.Known() {
		return typeNames[bits.TrailingZeros64(uint64(t))]
	}
	return fmt.Sprintf("M_UNKNOWN(0x%x)", uint64(t))
}

// Handle is a window, frame or owner reference in the host's address
// space. It is only ever displayed.
type Handle uint64

// Geometry is an (x, y, width, height) record embedded in several payloads.
type Geometry struct {
	X, Y          int64
	Width, Height int64
}

// Size is a (width, height) pair used by size hints.
type Size struct {
	Width, Height int64
}
