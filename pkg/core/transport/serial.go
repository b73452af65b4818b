// ============================================================================
// gecli - Embedded-style command line framework
// ============================================================================
//
// Package:     transport
// Description: Serial port transport for driving a CLI over a UART
// Author:      msto63
// Created:     2026-10-10
// License:     MIT
// ============================================================================

package transport

import (
	"errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/tarm/serial"

	gcerror "github.com/msto63/gecli/foundation/core/error"
)

// SerialConfig holds serial port configuration
type SerialConfig struct {
	// Device path (e.g. "/dev/ttyUSB0", "COM3")
	Device string
	// Baud rate, 115200 for most development kits
	Baud int
	// ReadTimeout bounds a single read so Close is noticed; 0 blocks
	ReadTimeout time.Duration
}

// DefaultSerialConfig returns 115200 baud with a 100ms read timeout
func DefaultSerialConfig(device string) SerialConfig {
	return SerialConfig{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100 * time.Millisecond,
	}
}

// Serial is a CLI transport over a serial port
type Serial struct {
	*Pump

	port   *serial.Port
	cfg    SerialConfig
	closed atomic.Bool
}

// OpenSerial opens the port described by cfg and starts reading it
func OpenSerial(cfg SerialConfig) (*Serial, error) {
	if cfg.Device == "" {
		return nil, gcerror.New("serial device not set").
			WithCode(gcerror.CodeInvalidConfig).
			WithOperation("transport.OpenSerial")
	}
	if cfg.Baud <= 0 {
		cfg.Baud = DefaultSerialConfig(cfg.Device).Baud
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, gcerror.Wrap(err, "failed to open serial port").
			WithCode(gcerror.CodeTransportError).
			WithOperation("transport.OpenSerial").
			WithDetail("device", cfg.Device)
	}

	s := &Serial{port: port, cfg: cfg}
	s.Pump = NewPump(&timeoutReader{r: port, closed: &s.closed}, DefaultBufferSize)
	return s, nil
}

// Device returns the port name
func (s *Serial) Device() string { return s.cfg.Device }

// Write sends output to the port
func (s *Serial) Write(p []byte) (int, error) { return s.port.Write(p) }

// Close stops reading and closes the port
func (s *Serial) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	_ = s.Pump.Close()
	return s.port.Close()
}

// timeoutReader hides the empty reads a read timeout produces until the
// port is closed
type timeoutReader struct {
	r      io.Reader
	closed *atomic.Bool
}

func (t *timeoutReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if n == 0 && errors.Is(err, io.EOF) && !t.closed.Load() {
		return 0, nil
	}
	return n, err
}
