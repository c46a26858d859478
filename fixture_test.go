package spe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeInstrument simulates the power supply at the byte level. Complete
// command lines written to it are answered into an output buffer; set
// commands update the state that the matching queries report.
type fakeInstrument struct {
	mu sync.Mutex

	in  bytes.Buffer
	out bytes.Buffer

	output       bool
	volt         float32
	voltLimit    float32
	current      float32
	currentLimit float32

	// replies overrides the reply line for a command.
	replies map[string]string
	// hangups sends the given partial line for a command and then ends
	// the stream.
	hangups map[string]string
	eof     bool

	received []string
}

func newFakeInstrument() *fakeInstrument {
	return &fakeInstrument{
		volt:         5,
		voltLimit:    30,
		current:      1,
		currentLimit: 3,
		replies: map[string]string{
			"*IDN?":          "OWON,SPE1234,SN001,1.0.2",
			"MEAS:VOLT?":     "4.987",
			"MEAS:Current?":  "0.514",
			"MEAS:Power?":    "2.560",
			"MEAS:ALL?":      "1.000,2.000",
			"MEAS:ALL:INFO?": "4.987,0.514,2.560,OFF,OFF,OFF,1",
		},
		hangups: map[string]string{},
	}
}

func (f *fakeInstrument) reply(cmd, line string) *fakeInstrument {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[cmd] = line
	return f
}

func (f *fakeInstrument) hangup(cmd, partial string) *fakeInstrument {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hangups[cmd] = partial
	return f
}

func (f *fakeInstrument) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.received...)
}

func (f *fakeInstrument) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.in.Write(p)
	for {
		line, err := f.in.ReadString('\n')
		if err != nil {
			// keep the partial line for the next write
			f.in.Reset()
			f.in.WriteString(line)
			break
		}
		f.handle(strings.TrimSuffix(line, "\r\n"))
	}
	return len(p), nil
}

func (f *fakeInstrument) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.out.Len() == 0 {
		return 0, io.EOF
	}
	return f.out.Read(p)
}

// pending drains whatever the instrument has sent so far.
func (f *fakeInstrument) pending() ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := append([]byte(nil), f.out.Bytes()...)
	f.out.Reset()
	return b, f.eof
}

func (f *fakeInstrument) handle(cmd string) {
	f.received = append(f.received, cmd)
	if f.eof {
		return
	}

	if partial, ok := f.hangups[cmd]; ok {
		f.out.WriteString(partial)
		f.eof = true
		return
	}
	if line, ok := f.replies[cmd]; ok {
		f.out.WriteString(line + "\n")
		return
	}

	verb, arg, _ := strings.Cut(cmd, " ")
	var v float32
	if arg != "" {
		fmt.Sscan(arg, &v)
	}

	switch verb {
	case "*RST":
		f.output, f.volt, f.current = false, 0, 0
	case "OUTP":
		f.output = arg == "ON"
	case "VOLT":
		f.volt = v
	case "VOLT:LIMIT":
		f.voltLimit = v
	case "CURR":
		f.current = v
	case "CURR:LIMIT":
		f.currentLimit = v
	case "OUTP?":
		if f.output {
			f.out.WriteString("ON\n")
		} else {
			f.out.WriteString("OFF\n")
		}
	case "VOLT?":
		fmt.Fprintf(&f.out, "%.3f\n", f.volt)
	case "VOLT:LIM?":
		fmt.Fprintf(&f.out, "%.3f\n", f.voltLimit)
	case "CURR?":
		fmt.Fprintf(&f.out, "%.3f\n", f.current)
	case "CURR:LIM?":
		fmt.Fprintf(&f.out, "%.3f\n", f.currentLimit)
	default:
		if strings.HasSuffix(verb, "?") {
			f.out.WriteString("ERR\n")
		}
	}
}

// instrumentPort exposes a fakeInstrument as a port for the async client:
// replies are pushed in chunks onto a channel that Read drains, the way
// bytes trickle in from a UART.
type instrumentPort struct {
	dev    *fakeInstrument
	readCh chan []byte
	chunk  int

	mu     sync.Mutex
	closed bool
}

func newInstrumentPort(dev *fakeInstrument) *instrumentPort {
	return &instrumentPort{dev: dev, readCh: make(chan []byte, 64), chunk: 3}
}

func (p *instrumentPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, io.ErrClosedPipe
	}

	n, err := p.dev.Write(b)
	out, eof := p.dev.pending()
	for len(out) > 0 {
		c := min(p.chunk, len(out))
		p.readCh <- out[:c]
		out = out[c:]
	}
	if eof {
		p.closed = true
		close(p.readCh)
	}
	return n, err
}

func (p *instrumentPort) Read(b []byte) (int, error) {
	data, ok := <-p.readCh
	if !ok {
		return 0, io.EOF
	}
	return copy(b, data), nil
}

func (p *instrumentPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.readCh)
	}
	return nil
}

func (p *instrumentPort) SetReadTimeout(time.Duration) error { return nil }

// harness runs operations against one client variant.
type harness struct {
	name string
	open func(t *testing.T, dev *fakeInstrument) func(op Operation) (Reply, error)
}

var harnesses = []harness{
	{
		name: "blocking",
		open: func(t *testing.T, dev *fakeInstrument) func(op Operation) (Reply, error) {
			s := New(dev)
			t.Cleanup(func() { _ = s.Close() })
			return s.Execute
		},
	},
	{
		name: "async",
		open: func(t *testing.T, dev *fakeInstrument) func(op Operation) (Reply, error) {
			s := NewAsync(newInstrumentPort(dev))
			t.Cleanup(func() { _ = s.Close() })
			return func(op Operation) (Reply, error) {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				return s.Execute(ctx, op)
			}
		},
	},
}

// errorKind buckets an error into the two protocol kinds.
func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsIOError(err):
		return "io"
	case errors.Is(err, ErrUnexpectedData):
		return "decode"
	default:
		return "other: " + err.Error()
	}
}
