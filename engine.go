package spe

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Option configures an SPE or AsyncSPE.
type Option func(*options)

type options struct {
	observers []Observer
	metrics   *Metrics
}

// WithObserver registers fn to see every line sent and received.
func WithObserver(fn Observer) Option {
	return func(o *options) {
		if fn != nil {
			o.observers = append(o.observers, fn)
		}
	}
}

// WithLogger traces wire traffic to logger at debug level.
func WithLogger(logger logrus.FieldLogger) Option {
	return WithObserver(LogObserver(logger))
}

// WithMetrics records call statistics into m instead of a private instance.
// One Metrics may be shared by several clients.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// executor runs one operation to completion.
type executor interface {
	execute(ctx context.Context, op Operation) (Reply, error)
}

// engine drives the request/reply exchange over a transport. It holds the
// transport exclusively; one call at a time owns the wire.
type engine[T lineTransport] struct {
	tr        T
	sem       chan struct{}
	observers []Observer
	metrics   *Metrics
	closed    atomic.Bool
}

func newEngine[T lineTransport](tr T, opts []Option) *engine[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.metrics == nil {
		o.metrics = &Metrics{}
	}
	return &engine[T]{
		tr:        tr,
		sem:       make(chan struct{}, 1),
		observers: o.observers,
		metrics:   o.metrics,
	}
}

func (e *engine[T]) execute(ctx context.Context, op Operation) (Reply, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	if !op.Kind.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOperation, int(op.Kind))
	}

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-e.sem }()

	start := time.Now()
	reply, err := e.roundTrip(ctx, op)
	e.metrics.record(op, err, time.Since(start))
	return reply, err
}

func (e *engine[T]) roundTrip(ctx context.Context, op Operation) (Reply, error) {
	cmd := op.Command()
	e.observe(DirectionOut, cmd)

	n, err := e.tr.writeLine(ctx, cmd)
	e.metrics.BytesWritten.Add(int64(n))
	if err != nil {
		return nil, err
	}
	if !op.HasOutput() {
		return nil, nil
	}

	line, err := e.tr.readLine(ctx)
	if err != nil {
		return nil, err
	}
	e.metrics.BytesRead.Add(int64(len(line)))
	e.observe(DirectionIn, line)

	return op.ParseLine(line)
}

func (e *engine[T]) observe(dir Direction, line string) {
	for _, fn := range e.observers {
		fn(dir, line)
	}
}

// close marks the engine closed and closes the transport once.
func (e *engine[T]) close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	return e.tr.Close()
}
