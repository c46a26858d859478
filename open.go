package spe

import (
	"errors"
	"fmt"

	gobug "go.bug.st/serial"
)

// allow tests to override external dependencies
var (
	openPort     = func(name string, mode *gobug.Mode) (portHandle, error) { return gobug.Open(name, mode) }
	getPortsList = gobug.GetPortsList
)

var (
	ErrPortNotFound = errors.New("spe: serial port not found")

	// ErrReadTimeout is returned by the blocking client when the port
	// delivers nothing within the configured read timeout.
	ErrReadTimeout = errors.New("spe: read timeout")
)

type portHandle interface {
	SerialPort
	SetDTR(bool) error
	SetRTS(bool) error
	Drain() error
}

// Open opens the serial port described by cfg and returns a blocking
// client that owns it. Zero line parameters and a zero read timeout take
// the DefaultSerialConfig values; DTR and RTS are set exactly as given.
func Open(cfg SerialConfig, opts ...Option) (*SPE, error) {
	h, err := openSerial(cfg)
	if err != nil {
		return nil, err
	}
	return New(timeoutPort{h}, opts...), nil
}

// OpenAsync is Open for the context-aware client. Read timeouts only pace
// the reader goroutine; callers bound calls through their context.
func OpenAsync(cfg SerialConfig, opts ...Option) (*AsyncSPE, error) {
	h, err := openSerial(cfg)
	if err != nil {
		return nil, err
	}
	return NewAsync(h, opts...), nil
}

func openSerial(cfg SerialConfig) (portHandle, error) {
	cfg = cfg.withDefaults()
	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid serial port configuration: %w", err)
	}

	mode, err := cfg.mode()
	if err != nil {
		return nil, err
	}

	ok, err := isPortAvailable(cfg.PortName)
	if err != nil {
		return nil, fmt.Errorf("listing ports: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPortNotFound, cfg.PortName)
	}

	h, err := openPort(cfg.PortName, mode)
	if err != nil {
		return nil, fmt.Errorf("opening serial port: %w", err)
	}

	if err = h.SetReadTimeout(cfg.ReadTimeout); err != nil {
		return nil, closeOnError(h, err)
	}

	// Explicitly set control lines to configured values
	if err = h.SetDTR(cfg.DTR); err != nil {
		return nil, closeOnError(h, err)
	}
	if err = h.SetRTS(cfg.RTS); err != nil {
		return nil, closeOnError(h, err)
	}

	return h, nil
}

// closeOnError closes the port and joins any error from closing with the original error
func closeOnError(h portHandle, err error) error {
	if e := h.Close(); e != nil {
		err = errors.Join(err, e)
	}
	return err
}

// timeoutPort turns the empty read go.bug.st/serial returns on timeout
// into ErrReadTimeout, so a silent instrument fails the blocking call
// instead of spinning the read buffer.
type timeoutPort struct {
	portHandle
}

func (p timeoutPort) Read(b []byte) (int, error) {
	n, err := p.portHandle.Read(b)
	if n == 0 && err == nil && len(b) > 0 {
		return 0, ErrReadTimeout
	}
	return n, err
}
