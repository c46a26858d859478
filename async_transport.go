package spe

import (
	"context"
	"errors"
	"io"
	"sync"

	"go.uber.org/atomic"
)

// ErrLineTooLong is reported when a reply exceeds maxLineSize without a
// terminator.
var ErrLineTooLong = errors.New("spe: reply line too long")

// lineResult is one reply line or the error that ended the stream.
type lineResult struct {
	line string
	err  error
}

// writeOperation is a queued write of one framed command.
type writeOperation struct {
	data     []byte
	resultCh chan writeResult
}

type writeResult struct {
	n   int
	err error
}

// drainer is implemented by ports that can wait for the OS output buffer
// to empty (go.bug.st/serial.Port does).
type drainer interface {
	Drain() error
}

// portTransport is the suspend-capable transport. A reader goroutine
// splits the incoming byte stream into lines and a writer goroutine owns
// every Write, so callers wait on channels and can give up through ctx.
type portTransport struct {
	port io.ReadWriteCloser

	lines  chan lineResult
	writes chan *writeOperation

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	wg        sync.WaitGroup
}

func newPortTransport(port io.ReadWriteCloser) *portTransport {
	if port == nil {
		panic(ErrMsgNilPort)
	}
	t := &portTransport{
		port:    port,
		lines:   make(chan lineResult, 16),
		writes:  make(chan *writeOperation),
		closeCh: make(chan struct{}),
	}
	t.wg.Add(2)
	go t.readerLoop()
	go t.writerLoop()
	return t
}

func (t *portTransport) writeLine(ctx context.Context, cmd string) (int, error) {
	if t.closed.Load() {
		return 0, ErrClosed
	}

	op := &writeOperation{
		data:     []byte(cmd + terminator),
		resultCh: make(chan writeResult, 1),
	}

	select {
	case t.writes <- op:
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-t.closeCh:
		return 0, ErrClosed
	}

	select {
	case res := <-op.resultCh:
		return res.n, res.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (t *portTransport) readLine(ctx context.Context) (string, error) {
	if t.closed.Load() {
		return "", ErrClosed
	}

	select {
	case res, ok := <-t.lines:
		if !ok {
			if t.closed.Load() {
				return "", ErrClosed
			}
			return "", newIOError("read", io.ErrUnexpectedEOF)
		}
		return res.line, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close stops both goroutines and closes the port. It is safe to call
// multiple times.
func (t *portTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		t.closed.Store(true)
		close(t.closeCh)
		// Closing the port unblocks an in-flight Read.
		err = t.port.Close()
		t.wg.Wait()
	})
	return err
}

// writerLoop performs queued writes one at a time.
func (t *portTransport) writerLoop() {
	defer t.wg.Done()

	for {
		select {
		case op := <-t.writes:
			n, err := t.writeAll(op.data)
			op.resultCh <- writeResult{n, err}
		case <-t.closeCh:
			return
		}
	}
}

func (t *portTransport) writeAll(data []byte) (int, error) {
	written := 0
	for written < len(data) {
		n, err := t.port.Write(data[written:])
		written += n
		if err != nil {
			return written, newIOError("write", err)
		}
		if n == 0 {
			return written, newIOError("write", io.ErrShortWrite)
		}
	}
	if d, ok := t.port.(drainer); ok {
		if err := d.Drain(); err != nil {
			return written, newIOError("flush", err)
		}
	}
	return written, nil
}

// readerLoop continuously reads from the port and emits complete lines
// onto the lines channel. The first read error is delivered as a final
// result and ends the loop.
func (t *portTransport) readerLoop() {
	defer t.wg.Done()
	defer close(t.lines)

	buf := getReadBuf()
	defer putReadBuf(buf)

	var lineBuf []byte

	emit := func(res lineResult) bool {
		select {
		case t.lines <- res:
			return true
		case <-t.closeCh:
			return false
		}
	}

	for {
		n, err := t.port.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			for len(chunk) > 0 {
				idx := indexByte(chunk, '\n')
				if idx == -1 {
					lineBuf = append(lineBuf, chunk...)
					break
				}

				lineBuf = append(lineBuf, chunk[:idx]...)
				if !emit(lineResult{line: trimLine(string(lineBuf))}) {
					return
				}
				lineBuf = lineBuf[:0]

				chunk = chunk[idx+1:]
			}
			if len(lineBuf) > maxLineSize {
				lineBuf = lineBuf[:0]
				if !emit(lineResult{err: newIOError("read", ErrLineTooLong)}) {
					return
				}
			}
		}

		if err != nil {
			if t.closed.Load() {
				return
			}
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			emit(lineResult{err: newIOError("read", err)})
			return
		}
	}
}

// indexByte is a small helper to avoid importing bytes for single-byte search.
func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}
