package spe

import (
	"context"
	"io"
)

// AsyncSPE is the context-aware client. A call suspends the calling
// goroutine at each I/O boundary (write, flush, read) and returns early
// with ctx.Err() when ctx ends.
//
// A call abandoned through its context leaves the port in an unknown
// state: the command may be half written or its reply may still arrive.
// Close the client and open a new one instead of issuing further calls.
type AsyncSPE struct {
	eng *engine[*portTransport]
}

// NewAsync takes ownership of port, typically a SerialPort, and starts the
// reader and writer goroutines. Close stops them and closes port.
func NewAsync(port io.ReadWriteCloser, opts ...Option) *AsyncSPE {
	return &AsyncSPE{eng: newEngine(newPortTransport(port), opts)}
}

// Execute sends op and, if op expects one, waits for and decodes the reply.
func (s *AsyncSPE) Execute(ctx context.Context, op Operation) (Reply, error) {
	return s.eng.execute(ctx, op)
}

func (s *AsyncSPE) Close() error {
	return s.eng.close()
}

func (s *AsyncSPE) Metrics() *Metrics {
	return s.eng.metrics
}

func (s *AsyncSPE) Identify(ctx context.Context) (IdentifyInfo, error) {
	return query[IdentifyInfo](ctx, s.eng, IdentifyOp())
}

func (s *AsyncSPE) Reset(ctx context.Context) error {
	return command(ctx, s.eng, ResetOp())
}

func (s *AsyncSPE) EnableOutput(ctx context.Context) error {
	return command(ctx, s.eng, OutputOnOp())
}

func (s *AsyncSPE) DisableOutput(ctx context.Context) error {
	return command(ctx, s.eng, OutputOffOp())
}

func (s *AsyncSPE) Output(ctx context.Context) (bool, error) {
	return query[bool](ctx, s.eng, OutputOp())
}

func (s *AsyncSPE) SetVolt(ctx context.Context, volt float32) error {
	return command(ctx, s.eng, SetVoltOp(volt))
}

func (s *AsyncSPE) Volt(ctx context.Context) (float32, error) {
	return query[float32](ctx, s.eng, VoltOp())
}

func (s *AsyncSPE) SetVoltLimit(ctx context.Context, volt float32) error {
	return command(ctx, s.eng, SetVoltLimitOp(volt))
}

func (s *AsyncSPE) VoltLimit(ctx context.Context) (float32, error) {
	return query[float32](ctx, s.eng, VoltLimitOp())
}

func (s *AsyncSPE) SetCurrent(ctx context.Context, current float32) error {
	return command(ctx, s.eng, SetCurrentOp(current))
}

func (s *AsyncSPE) Current(ctx context.Context) (float32, error) {
	return query[float32](ctx, s.eng, CurrentOp())
}

func (s *AsyncSPE) SetCurrentLimit(ctx context.Context, current float32) error {
	return command(ctx, s.eng, SetCurrentLimitOp(current))
}

func (s *AsyncSPE) CurrentLimit(ctx context.Context) (float32, error) {
	return query[float32](ctx, s.eng, CurrentLimitOp())
}

func (s *AsyncSPE) MeasureVolt(ctx context.Context) (float32, error) {
	return query[float32](ctx, s.eng, MeasureVoltOp())
}

func (s *AsyncSPE) MeasureCurrent(ctx context.Context) (float32, error) {
	return query[float32](ctx, s.eng, MeasureCurrentOp())
}

func (s *AsyncSPE) MeasurePower(ctx context.Context) (float32, error) {
	return query[float32](ctx, s.eng, MeasurePowerOp())
}

func (s *AsyncSPE) MeasureAll(ctx context.Context) (MeasureAllOutput, error) {
	return query[MeasureAllOutput](ctx, s.eng, MeasureAllOp())
}

func (s *AsyncSPE) MeasureAllInfo(ctx context.Context) (MeasureAllInfoOutput, error) {
	return query[MeasureAllInfoOutput](ctx, s.eng, MeasureAllInfoOp())
}
