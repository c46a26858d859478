package spe

import (
	"context"
	"errors"
	"time"

	"go.uber.org/atomic"
)

// Metrics tracks per-client command statistics.
type Metrics struct {
	// Calls
	Commands atomic.Int64 // fire-and-forget commands sent
	Queries  atomic.Int64 // commands that read a reply
	Failures atomic.Int64 // calls that returned an error

	// Error categories
	IOErrors     atomic.Int64
	DecodeErrors atomic.Int64
	Cancelled    atomic.Int64 // calls abandoned through their context

	// Traffic
	BytesWritten atomic.Int64
	BytesRead    atomic.Int64 // reply bytes, terminator excluded

	// Latency
	TotalCallTime atomic.Int64 // ns
	MaxCallTime   atomic.Int64 // ns
	LastCallTime  atomic.Int64 // unix ns

	// Health indicators
	ConsecutiveFailures atomic.Int64
	LastErrorTime       atomic.Int64 // unix ns
}

// HealthStatus summarises recent call outcomes.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// MetricsSnapshot is a point-in-time copy of Metrics with derived rates.
type MetricsSnapshot struct {
	Timestamp           time.Time     `json:"timestamp"`
	Commands            int64         `json:"commands"`
	Queries             int64         `json:"queries"`
	Failures            int64         `json:"failures"`
	IOErrors            int64         `json:"io_errors"`
	DecodeErrors        int64         `json:"decode_errors"`
	Cancelled           int64         `json:"cancelled"`
	BytesWritten        int64         `json:"bytes_written"`
	BytesRead           int64         `json:"bytes_read"`
	AverageLatency      time.Duration `json:"average_latency"`
	MaxLatency          time.Duration `json:"max_latency"`
	ErrorRate           float64       `json:"error_rate"` // percent of calls
	ConsecutiveFailures int64         `json:"consecutive_failures"`
	HealthStatus        HealthStatus  `json:"health_status"`
}

func (m *Metrics) record(op Operation, err error, elapsed time.Duration) {
	if op.HasOutput() {
		m.Queries.Add(1)
	} else {
		m.Commands.Add(1)
	}

	ns := elapsed.Nanoseconds()
	m.TotalCallTime.Add(ns)
	for {
		cur := m.MaxCallTime.Load()
		if ns <= cur || m.MaxCallTime.CompareAndSwap(cur, ns) {
			break
		}
	}
	now := time.Now().UnixNano()
	m.LastCallTime.Store(now)

	if err == nil {
		m.ConsecutiveFailures.Store(0)
		return
	}

	m.Failures.Add(1)
	m.ConsecutiveFailures.Add(1)
	m.LastErrorTime.Store(now)
	switch {
	case errors.Is(err, ErrIO):
		m.IOErrors.Add(1)
	case errors.Is(err, ErrUnexpectedData):
		m.DecodeErrors.Add(1)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		m.Cancelled.Add(1)
	}
}

// Snapshot copies the counters and derives rates and health.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Timestamp:           time.Now(),
		Commands:            m.Commands.Load(),
		Queries:             m.Queries.Load(),
		Failures:            m.Failures.Load(),
		IOErrors:            m.IOErrors.Load(),
		DecodeErrors:        m.DecodeErrors.Load(),
		Cancelled:           m.Cancelled.Load(),
		BytesWritten:        m.BytesWritten.Load(),
		BytesRead:           m.BytesRead.Load(),
		MaxLatency:          time.Duration(m.MaxCallTime.Load()),
		ConsecutiveFailures: m.ConsecutiveFailures.Load(),
	}

	calls := s.Commands + s.Queries
	if calls > 0 {
		s.AverageLatency = time.Duration(m.TotalCallTime.Load() / calls)
		s.ErrorRate = float64(s.Failures) / float64(calls) * 100
	}
	s.HealthStatus = assessHealth(s)
	return s
}

func assessHealth(s MetricsSnapshot) HealthStatus {
	if s.ErrorRate > 50.0 || s.ConsecutiveFailures > 5 {
		return HealthStatusUnhealthy
	}
	if s.ErrorRate > 10.0 || s.ConsecutiveFailures > 3 {
		return HealthStatusDegraded
	}
	return HealthStatusHealthy
}

// Reset zeroes every counter.
func (m *Metrics) Reset() {
	for _, c := range []*atomic.Int64{
		&m.Commands, &m.Queries, &m.Failures,
		&m.IOErrors, &m.DecodeErrors, &m.Cancelled,
		&m.BytesWritten, &m.BytesRead,
		&m.TotalCallTime, &m.MaxCallTime, &m.LastCallTime,
		&m.ConsecutiveFailures, &m.LastErrorTime,
	} {
		c.Store(0)
	}
}
