package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/danmuck/fvwmdebug/internal/protocol"
)

var ErrUsage = errors.New("session: usage")

// UsageError reports startup parameters the host would never send.
type UsageError struct {
	Name   string
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("session: usage: %s: %s", e.Name, e.Reason)
}

func (e *UsageError) Is(target error) bool {
	return target == ErrUsage
}

// Params are the positional parameters the host launches a module with.
type Params struct {
	// Name is "*" followed by the program's base name.
	Name string
	// ToHost is the descriptor commands are written to, FromHost the one
	// packets are read from.
	ToHost   int
	FromHost int
	// HostConfig is the host's own configuration file; opaque here.
	HostConfig string
	Window     string
	WindowID   protocol.Handle
	Context    string
	Alias      string
}

// ParseArgs validates argv as passed to main, program name included. It
// accepts six or seven entries.
func ParseArgs(argv []string) (Params, error) {
	name := "*fvwmdebug"
	if len(argv) > 0 {
		name = "*" + filepath.Base(argv[0])
	}
	if len(argv) != 6 && len(argv) != 7 {
		return Params{Name: name}, &UsageError{Name: name, Reason: fmt.Sprintf("expected 6 or 7 arguments, got %d", len(argv))}
	}
	toHost, err := descriptor(argv[1])
	if err != nil {
		return Params{Name: name}, &UsageError{Name: name, Reason: "write descriptor: " + err.Error()}
	}
	fromHost, err := descriptor(argv[2])
	if err != nil {
		return Params{Name: name}, &UsageError{Name: name, Reason: "read descriptor: " + err.Error()}
	}
	window := strings.TrimPrefix(strings.ToLower(argv[4]), "0x")
	id, err := strconv.ParseUint(window, 16, 64)
	if err != nil {
		return Params{Name: name}, &UsageError{Name: name, Reason: fmt.Sprintf("window %q is not hex", argv[4])}
	}
	p := Params{
		Name:       name,
		ToHost:     toHost,
		FromHost:   fromHost,
		HostConfig: argv[3],
		Window:     window,
		WindowID:   protocol.Handle(id),
		Context:    argv[5],
	}
	if len(argv) == 7 {
		p.Alias = argv[6]
	}
	return p, nil
}

func descriptor(raw string) (int, error) {
	fd, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	if fd < 0 {
		return 0, fmt.Errorf("%d is negative", fd)
	}
	return fd, nil
}
