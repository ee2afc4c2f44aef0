package session

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

var ErrTransportSetup = errors.New("session: transport setup")

// Transport is the module's pair of host pipes.
type Transport struct {
	In  io.Reader
	Out io.Writer

	files []*os.File
}

// OpenTransport wraps the descriptors from p. The read side is switched to
// non-blocking mode so the runtime poller owns it and a pending read can
// be interrupted by a deadline.
func OpenTransport(p Params) (*Transport, error) {
	for _, fd := range []int{p.ToHost, p.FromHost} {
		if _, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0); err != nil {
			return nil, fmt.Errorf("%w: descriptor %d: %v", ErrTransportSetup, fd, err)
		}
	}
	if err := unix.SetNonblock(p.FromHost, true); err != nil {
		return nil, fmt.Errorf("%w: descriptor %d: %v", ErrTransportSetup, p.FromHost, err)
	}
	in := os.NewFile(uintptr(p.FromHost), "from-host")
	out := os.NewFile(uintptr(p.ToHost), "to-host")
	t := &Transport{In: in, Out: out, files: []*os.File{in, out}}
	if p.ToHost == p.FromHost {
		t.files = t.files[:1]
	}
	return t, nil
}

func (t *Transport) Close() error {
	var errs []error
	for _, f := range t.files {
		if err := f.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
