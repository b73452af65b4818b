// ============================================================================
// gecli - Embedded-style command line framework
// ============================================================================
//
// Package:     transport
// Description: In-memory transport for tests and embedding
// Author:      msto63
// Created:     2026-10-10
// License:     MIT
// ============================================================================

package transport

import (
	"bytes"
	"io"
	"sync"
)

// Pipe is an in-memory transport. Bytes passed to Send are readable as
// input at once; everything written to the Pipe is collected as output.
type Pipe struct {
	*Pump

	sendMu sync.Mutex
	closed bool

	outMu sync.Mutex
	out   bytes.Buffer
}

// NewPipe creates an empty pipe
func NewPipe() *Pipe {
	return &Pipe{Pump: newPump(DefaultBufferSize)}
}

// Send queues text as input. It blocks while the input buffer is full and
// returns ErrClosed after CloseInput.
func (p *Pipe) Send(text string) error {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if !p.push([]byte(text)) {
		return ErrClosed
	}
	return nil
}

// CloseInput ends the input; readers see io.EOF after the queued bytes
func (p *Pipe) CloseInput() {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()
	if !p.closed {
		p.closed = true
		p.finish(io.EOF)
	}
}

// Write collects output
func (p *Pipe) Write(data []byte) (int, error) {
	p.outMu.Lock()
	defer p.outMu.Unlock()
	return p.out.Write(data)
}

// Output returns everything written so far
func (p *Pipe) Output() string {
	p.outMu.Lock()
	defer p.outMu.Unlock()
	return p.out.String()
}

// Reset discards the collected output
func (p *Pipe) Reset() {
	p.outMu.Lock()
	defer p.outMu.Unlock()
	p.out.Reset()
}
