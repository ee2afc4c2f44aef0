package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMoreMessages reports a clean end of the host stream. It is the
	// normal shutdown trigger, not a failure.
	ErrNoMoreMessages  = errors.New("protocol: no more messages")
	ErrPeerClosed      = errors.New("protocol: peer closed")
	ErrPayloadTooShort = errors.New("protocol: payload too short")
	ErrInvalidWordSize = errors.New("protocol: invalid word size")
)

// PayloadTooShortError is returned by a decoder whose layout needs more
// words than the packet carried.
type PayloadTooShortError struct {
	Type MessageType
	Have int
	Need int
}

func (e *PayloadTooShortError) Error() string {
	return fmt.Sprintf("protocol: %s payload too short: have %d words, need %d", e.Type, e.Have, e.Need)
}

func (e *PayloadTooShortError) Is(target error) bool {
	return target == ErrPayloadTooShort
}
