package spe

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedData is matched by every reply decode failure.
	ErrUnexpectedData = errors.New("spe: unexpected data")

	// ErrIO is matched by every transport failure (write, flush or read).
	ErrIO = errors.New("spe: i/o error")

	ErrClosed = errors.New("spe: transport closed")

	// ErrUnknownOperation is returned, before anything is written, for an
	// Operation whose Kind is not a known command.
	ErrUnknownOperation = errors.New("spe: unknown operation")
)

var (
	ErrMsgNilPort = "port is nil"
)

// IOError reports a transport failure during one stage of a call.
type IOError struct {
	Stage string // write, flush or read
	Err   error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("spe: %s: %v", e.Stage, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrIO) match any IOError.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

func newIOError(stage string, err error) error {
	return &IOError{Stage: stage, Err: err}
}

// DecodeError reports a reply line that does not match the format expected
// for the issued command.
type DecodeError struct {
	Command string
	Line    string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("spe: unexpected data for %q: %q", e.Command, e.Line)
}

// Is lets errors.Is(err, ErrUnexpectedData) match any DecodeError.
func (e *DecodeError) Is(target error) bool {
	return target == ErrUnexpectedData
}

// IsIOError reports whether err is a transport failure. A transport that
// produced one should be considered unusable.
func IsIOError(err error) bool {
	return errors.Is(err, ErrIO)
}
