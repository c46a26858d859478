package spe

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"go.uber.org/atomic"
)

// delayedPort answers every query with a fixed line after a delay, to widen
// the window between a call and a concurrent Close.
type delayedPort struct {
	writeDelay time.Duration
	readDelay  time.Duration

	replies chan []byte
	done    chan struct{}
	once    sync.Once

	closed     atomic.Bool
	writeCount atomic.Int64
	readCount  atomic.Int64
	closeCount atomic.Int64
}

func newDelayedPort(writeDelay, readDelay time.Duration) *delayedPort {
	return &delayedPort{
		writeDelay: writeDelay,
		readDelay:  readDelay,
		replies:    make(chan []byte, 128),
		done:       make(chan struct{}),
	}
}

func (m *delayedPort) Write(b []byte) (int, error) {
	if m.closed.Load() {
		return 0, io.ErrClosedPipe
	}
	m.writeCount.Add(1)
	if m.writeDelay > 0 {
		time.Sleep(m.writeDelay)
	}
	if m.closed.Load() {
		return 0, io.ErrClosedPipe
	}
	if b[len(b)-3] == '?' {
		select {
		case m.replies <- []byte("1.000\r\n"):
		default:
		}
	}
	return len(b), nil
}

func (m *delayedPort) Read(b []byte) (int, error) {
	select {
	case r := <-m.replies:
		m.readCount.Add(1)
		if m.readDelay > 0 {
			time.Sleep(m.readDelay)
		}
		return copy(b, r), nil
	case <-m.done:
		return 0, io.ErrClosedPipe
	}
}

func (m *delayedPort) Close() error {
	m.closeCount.Add(1)
	m.closed.Store(true)
	m.once.Do(func() { close(m.done) })
	return nil
}

// acceptableRaceError reports whether err is an outcome a call racing with
// Close may legitimately see.
func acceptableRaceError(err error) bool {
	return err == nil || errors.Is(err, ErrClosed) || IsIOError(err) ||
		errors.Is(err, context.DeadlineExceeded)
}

func TestCallCloseRace(t *testing.T) {
	for i := 0; i < 100; i++ {
		t.Run("iteration", func(t *testing.T) {
			testCallCloseRace(t)
		})
	}
}

func testCallCloseRace(t *testing.T) {
	port := newDelayedPort(time.Microsecond*100, time.Microsecond*50)
	c := NewAsync(port)

	var wg sync.WaitGroup
	var unexpected atomic.Int64

	numCalls := 50
	for i := 0; i < numCalls; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*500)
			defer cancel()

			var err error
			if id%2 == 0 {
				_, err = c.Volt(ctx)
			} else {
				err = c.SetVolt(ctx, float32(id))
			}
			if !acceptableRaceError(err) {
				unexpected.Add(1)
				t.Errorf("unexpected call error: %v", err)
			}
		}(i)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()

		// Give calls time to start
		time.Sleep(time.Microsecond * 50)

		if err := c.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second * 5):
		t.Fatal("timed out: possible deadlock between calls and Close")
	}

	if unexpected.Load() > 0 {
		t.Errorf("unexpected call errors: %d", unexpected.Load())
	}
	if port.closeCount.Load() != 1 {
		t.Errorf("port closed %d times, want 1", port.closeCount.Load())
	}
}

func TestConcurrentCallsAreSerialised(t *testing.T) {
	port := newDelayedPort(time.Microsecond*200, 0)
	c := NewAsync(port)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			v, err := c.MeasureVolt(ctx)
			if err != nil {
				t.Errorf("MeasureVolt: %v", err)
				return
			}
			if v != 1 {
				t.Errorf("got %v, want 1", v)
			}
		}()
	}
	wg.Wait()

	if got := port.writeCount.Load(); got != 20 {
		t.Fatalf("expected 20 writes, got %d", got)
	}
	if got := port.readCount.Load(); got != 20 {
		t.Fatalf("expected 20 reply reads, got %d", got)
	}
}
