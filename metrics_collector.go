package spe

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector exports a Metrics instance to Prometheus.
type MetricsCollector struct {
	m *Metrics

	calls       *prometheus.Desc
	errors      *prometheus.Desc
	bytes       *prometheus.Desc
	latencySum  *prometheus.Desc
	latencyMax  *prometheus.Desc
	consecutive *prometheus.Desc
}

// NewMetricsCollector describes m under namespace. constLabels are attached
// to every series, e.g. the port name.
func NewMetricsCollector(namespace string, m *Metrics, constLabels prometheus.Labels) *MetricsCollector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, labels, constLabels)
	}
	return &MetricsCollector{
		m:           m,
		calls:       desc("calls_total", "Calls issued to the instrument.", "type"),
		errors:      desc("call_errors_total", "Failed calls by error kind.", "kind"),
		bytes:       desc("bytes_total", "Bytes exchanged with the instrument.", "direction"),
		latencySum:  desc("call_duration_seconds_sum", "Total time spent in calls."),
		latencyMax:  desc("call_duration_seconds_max", "Slowest call observed."),
		consecutive: desc("consecutive_failures", "Failed calls since the last success."),
	}
}

func (c *MetricsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.calls
	ch <- c.errors
	ch <- c.bytes
	ch <- c.latencySum
	ch <- c.latencyMax
	ch <- c.consecutive
}

func (c *MetricsCollector) Collect(ch chan<- prometheus.Metric) {
	counter := func(d *prometheus.Desc, v int64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), labels...)
	}
	counter(c.calls, c.m.Commands.Load(), "command")
	counter(c.calls, c.m.Queries.Load(), "query")
	counter(c.errors, c.m.IOErrors.Load(), "io")
	counter(c.errors, c.m.DecodeErrors.Load(), "decode")
	counter(c.errors, c.m.Cancelled.Load(), "cancelled")
	counter(c.bytes, c.m.BytesWritten.Load(), "out")
	counter(c.bytes, c.m.BytesRead.Load(), "in")

	ch <- prometheus.MustNewConstMetric(c.latencySum, prometheus.CounterValue,
		float64(c.m.TotalCallTime.Load())/1e9)
	ch <- prometheus.MustNewConstMetric(c.latencyMax, prometheus.GaugeValue,
		float64(c.m.MaxCallTime.Load())/1e9)
	ch <- prometheus.MustNewConstMetric(c.consecutive, prometheus.GaugeValue,
		float64(c.m.ConsecutiveFailures.Load()))
}
