// ============================================================================
// gecli - Embedded-style command line framework
// ============================================================================
//
// Package:     transport
// Description: Local terminal transport with raw mode handling
// Author:      msto63
// Created:     2026-10-10
// License:     MIT
// ============================================================================

package transport

import (
	"io"
	"os"

	"golang.org/x/term"

	gcerror "github.com/msto63/gecli/foundation/core/error"
)

const (
	keyInterrupt = 0x03 // Ctrl-C
	keyEndOfText = 0x04 // Ctrl-D
)

// Terminal reads keystrokes from a local terminal. When the input is a
// terminal it is switched to raw mode so that the line editor sees every
// byte, including arrow keys and tab. Piped input is read unchanged.
type Terminal struct {
	*Pump

	in    *os.File
	out   io.Writer
	fd    int
	state *term.State
}

// OpenTerminal starts reading in. Ctrl-C and Ctrl-D end the input, since
// raw mode disables the signals they would otherwise raise.
func OpenTerminal(in *os.File, out io.Writer) (*Terminal, error) {
	t := &Terminal{in: in, out: out, fd: int(in.Fd())}

	var src io.Reader = in
	if term.IsTerminal(t.fd) {
		state, err := term.MakeRaw(t.fd)
		if err != nil {
			return nil, gcerror.Wrap(err, "failed to enable raw mode").
				WithCode(gcerror.CodeTransportError).
				WithOperation("transport.OpenTerminal")
		}
		t.state = state
		src = &interruptReader{r: in}
	}

	t.Pump = NewPump(src, DefaultBufferSize)
	return t, nil
}

// IsRaw reports whether the terminal was switched to raw mode
func (t *Terminal) IsRaw() bool { return t.state != nil }

// Size returns the terminal width and height
func (t *Terminal) Size() (width, height int, err error) {
	if f, ok := t.out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return term.GetSize(int(f.Fd()))
	}
	return term.GetSize(t.fd)
}

// Write sends output to the terminal
func (t *Terminal) Write(p []byte) (int, error) { return t.out.Write(p) }

// Close stops reading and restores the terminal mode
func (t *Terminal) Close() error {
	_ = t.Pump.Close()
	if t.state == nil {
		return nil
	}
	state := t.state
	t.state = nil
	if err := term.Restore(t.fd, state); err != nil {
		return gcerror.Wrap(err, "failed to restore terminal").
			WithCode(gcerror.CodeTransportError).
			WithOperation("transport.Terminal.Close")
	}
	return nil
}

// interruptReader turns Ctrl-C and Ctrl-D into io.EOF
type interruptReader struct {
	r    io.Reader
	done bool
}

func (r *interruptReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, io.EOF
	}
	n, err := r.r.Read(p)
	for i, b := range p[:n] {
		if b == keyInterrupt || b == keyEndOfText {
			r.done = true
			return i, io.EOF
		}
	}
	return n, err
}
