package tools

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
)

var ErrTeeSetup = errors.New("tools: companion filter setup failed")

// TeeConfig describes the companion filter. It is off unless Enabled.
type TeeConfig struct {
	Enabled bool
	Command string
	Args    []string
	// Stdout and Stderr default to discarding and to os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

func DefaultTeeConfig() TeeConfig {
	return TeeConfig{
		Command: "xtee",
		Args:    []string{"-nostdout"},
	}
}

// Tee is a running companion filter. Writes go to the child's stdin.
// Close must be called on every exit path; it reaps the child.
type Tee struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser

	once     sync.Once
	closeErr error
}

// StartTee launches the filter. Every failure wraps ErrTeeSetup and leaves
// no child behind.
func StartTee(cfg TeeConfig) (*Tee, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("%w: empty command", ErrTeeSetup)
	}
	cmd := exec.Command(cfg.Command, cfg.Args...)
	cmd.Stdout = cfg.Stdout
	cmd.Stderr = cfg.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTeeSetup, err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, fmt.Errorf("%w: start %s: %v", ErrTeeSetup, cfg.Command, err)
	}
	return &Tee{cmd: cmd, stdin: stdin}, nil
}

func (t *Tee) Write(p []byte) (int, error) {
	return t.stdin.Write(p)
}

// Pid returns the child's process id.
func (t *Tee) Pid() int {
	return t.cmd.Process.Pid
}

// Close closes the child's stdin and waits for it to exit. A non-zero
// child exit is reported but the child is always reaped.
func (t *Tee) Close() error {
	t.once.Do(func() {
		closeErr := t.stdin.Close()
		waitErr := t.cmd.Wait()
		var exitErr *exec.ExitError
		switch {
		case errors.As(waitErr, &exitErr):
			t.closeErr = fmt.Errorf("tools: companion filter exited with code %d", exitErr.ExitCode())
		case waitErr != nil:
			t.closeErr = waitErr
		case closeErr != nil && !errors.Is(closeErr, os.ErrClosed):
			t.closeErr = closeErr
		}
	})
	return t.closeErr
}
