package spe

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

// terminator is appended to every command.
const terminator = "\r\n"

// SerialPort abstracts the subset of go.bug.st/serial.Port used by this package.
type SerialPort interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
	SetReadTimeout(d time.Duration) error
}

// lineTransport is the I/O capability the engine is written against. Both
// calls may block; implementations that can suspend honour ctx.
type lineTransport interface {
	// writeLine writes cmd followed by CR LF and flushes.
	writeLine(ctx context.Context, cmd string) (int, error)
	// readLine returns one reply line with its terminator stripped.
	readLine(ctx context.Context) (string, error)
	Close() error
}

// trimLine strips the trailing terminator characters and nothing else.
func trimLine(line string) string {
	return strings.TrimRight(line, terminator)
}

// streamTransport is the blocking transport: a caller supplied byte stream
// behind a read buffer. It ignores ctx.
type streamTransport struct {
	rw io.ReadWriter
	r  *bufio.Reader
	w  *bufio.Writer
}

func newStreamTransport(rw io.ReadWriter) *streamTransport {
	return &streamTransport{
		rw: rw,
		r:  bufio.NewReader(rw),
		w:  bufio.NewWriter(rw),
	}
}

func (t *streamTransport) writeLine(_ context.Context, cmd string) (int, error) {
	n, err := t.w.WriteString(cmd)
	if err == nil {
		var m int
		m, err = t.w.WriteString(terminator)
		n += m
	}
	if err != nil {
		t.w.Reset(t.rw)
		return n, newIOError("write", err)
	}
	if err = t.w.Flush(); err != nil {
		t.w.Reset(t.rw)
		return n, newIOError("flush", err)
	}
	if d, ok := t.rw.(drainer); ok {
		if err = d.Drain(); err != nil {
			return n, newIOError("flush", err)
		}
	}
	return n, nil
}

func (t *streamTransport) readLine(_ context.Context) (string, error) {
	line, err := t.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return "", newIOError("read", err)
	}
	return trimLine(line), nil
}

// Close closes the underlying stream when it supports closing.
func (t *streamTransport) Close() error {
	if c, ok := t.rw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
