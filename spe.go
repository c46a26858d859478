package spe

import (
	"context"
	"io"
)

// SPE is the blocking client. Every call runs to completion on the calling
// goroutine; concurrent calls on one SPE are serialised.
type SPE struct {
	eng *engine[*streamTransport]
}

// New wraps a caller supplied duplex stream. The SPE owns rw from now on
// and closes it on Close when rw is an io.Closer.
func New(rw io.ReadWriter, opts ...Option) *SPE {
	return &SPE{eng: newEngine(newStreamTransport(rw), opts)}
}

// Execute sends op and, if op expects one, decodes the single reply line.
func (s *SPE) Execute(op Operation) (Reply, error) {
	return s.eng.execute(context.Background(), op)
}

// Close closes the transport. Calls made afterwards return ErrClosed.
func (s *SPE) Close() error {
	return s.eng.close()
}

// Metrics returns the live call statistics.
func (s *SPE) Metrics() *Metrics {
	return s.eng.metrics
}

func (s *SPE) Identify() (IdentifyInfo, error) {
	return query[IdentifyInfo](context.Background(), s.eng, IdentifyOp())
}

func (s *SPE) Reset() error {
	return command(context.Background(), s.eng, ResetOp())
}

func (s *SPE) EnableOutput() error {
	return command(context.Background(), s.eng, OutputOnOp())
}

func (s *SPE) DisableOutput() error {
	return command(context.Background(), s.eng, OutputOffOp())
}

// Output reports whether the output is enabled.
func (s *SPE) Output() (bool, error) {
	return query[bool](context.Background(), s.eng, OutputOp())
}

func (s *SPE) SetVolt(volt float32) error {
	return command(context.Background(), s.eng, SetVoltOp(volt))
}

// Volt returns the voltage setpoint.
func (s *SPE) Volt() (float32, error) {
	return query[float32](context.Background(), s.eng, VoltOp())
}

func (s *SPE) SetVoltLimit(volt float32) error {
	return command(context.Background(), s.eng, SetVoltLimitOp(volt))
}

func (s *SPE) VoltLimit() (float32, error) {
	return query[float32](context.Background(), s.eng, VoltLimitOp())
}

func (s *SPE) SetCurrent(current float32) error {
	return command(context.Background(), s.eng, SetCurrentOp(current))
}

// Current returns the current setpoint.
func (s *SPE) Current() (float32, error) {
	return query[float32](context.Background(), s.eng, CurrentOp())
}

func (s *SPE) SetCurrentLimit(current float32) error {
	return command(context.Background(), s.eng, SetCurrentLimitOp(current))
}

func (s *SPE) CurrentLimit() (float32, error) {
	return query[float32](context.Background(), s.eng, CurrentLimitOp())
}

// MeasureVolt returns the measured output voltage.
func (s *SPE) MeasureVolt() (float32, error) {
	return query[float32](context.Background(), s.eng, MeasureVoltOp())
}

func (s *SPE) MeasureCurrent() (float32, error) {
	return query[float32](context.Background(), s.eng, MeasureCurrentOp())
}

func (s *SPE) MeasurePower() (float32, error) {
	return query[float32](context.Background(), s.eng, MeasurePowerOp())
}

func (s *SPE) MeasureAll() (MeasureAllOutput, error) {
	return query[MeasureAllOutput](context.Background(), s.eng, MeasureAllOp())
}

func (s *SPE) MeasureAllInfo() (MeasureAllInfoOutput, error) {
	return query[MeasureAllInfoOutput](context.Background(), s.eng, MeasureAllInfoOp())
}

// query runs op and converts its reply to the declared type.
func query[T any](ctx context.Context, ex executor, op Operation) (T, error) {
	var zero T
	reply, err := ex.execute(ctx, op)
	if err != nil {
		return zero, err
	}
	v, ok := reply.(T)
	if !ok {
		return zero, &DecodeError{Command: op.Command()}
	}
	return v, nil
}

// command runs an operation that expects no reply.
func command(ctx context.Context, ex executor, op Operation) error {
	_, err := ex.execute(ctx, op)
	return err
}
