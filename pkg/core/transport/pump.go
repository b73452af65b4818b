// ============================================================================
// gecli - Embedded-style command line framework
// ============================================================================
//
// Package:     transport
// Description: Byte pump turning a blocking reader into a polled CLI input
// Author:      msto63
// Created:     2026-10-10
// License:     MIT
// ============================================================================

package transport

import (
	"context"
	"errors"
	"io"
	"sync"
)

// DefaultBufferSize is the number of received bytes a pump holds before
// the reader goroutine blocks
const DefaultBufferSize = 4096

// ErrClosed is returned by a pump after Close
var ErrClosed = errors.New("transport closed")

// Pump reads a source on its own goroutine and hands the bytes out one at a
// time. It satisfies the cli.Input interface: TryReadByte for cooperative
// instances and ReadByteContext for threaded ones. Once the source fails
// the buffered bytes are still delivered, then the error.
type Pump struct {
	ch   chan byte
	done chan struct{}

	mu   sync.Mutex
	err  error
	once sync.Once
}

func newPump(size int) *Pump {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Pump{ch: make(chan byte, size), done: make(chan struct{})}
}

// NewPump starts reading r. A reader returning (0, nil) is polled again.
func NewPump(r io.Reader, size int) *Pump {
	p := newPump(size)
	go p.read(r)
	return p
}

func (p *Pump) read(r io.Reader) {
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		if !p.push(buf[:n]) {
			p.finish(ErrClosed)
			return
		}
		if err != nil {
			p.finish(err)
			return
		}
	}
}

// push queues data and reports false once the pump is closed
func (p *Pump) push(data []byte) bool {
	for _, b := range data {
		select {
		case p.ch <- b:
		case <-p.done:
			return false
		}
	}
	return true
}

// finish records the terminal error and closes the byte channel
func (p *Pump) finish(err error) {
	p.mu.Lock()
	if p.err == nil {
		p.err = err
	}
	p.mu.Unlock()
	close(p.ch)
}

// Err returns the error that ended the source, or nil while it is open
func (p *Pump) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// TryReadByte returns the next byte without blocking
func (p *Pump) TryReadByte() (byte, bool, error) {
	select {
	case b, ok := <-p.ch:
		if !ok {
			return 0, false, p.Err()
		}
		return b, true, nil
	default:
		return 0, false, nil
	}
}

// ReadByteContext blocks until a byte arrives, the source ends or ctx is
// done
func (p *Pump) ReadByteContext(ctx context.Context) (byte, error) {
	select {
	case b, ok := <-p.ch:
		if !ok {
			return 0, p.Err()
		}
		return b, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Pending reports whether received bytes are waiting
func (p *Pump) Pending() bool { return len(p.ch) > 0 }

// Close stops the pump. A reader goroutine blocked in Read exits once the
// underlying source is closed by its owner.
func (p *Pump) Close() error {
	p.once.Do(func() { close(p.done) })
	return nil
}
