package poller

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Station-Manager/spe"
)

// Gauges export the latest sample.
type Gauges struct {
	volt        prometheus.Gauge
	current     prometheus.Gauge
	power       prometheus.Gauge
	protection  *prometheus.GaugeVec
	mode        prometheus.Gauge
	lastSuccess prometheus.Gauge
	failures    *prometheus.CounterVec
}

// NewGauges creates the poller gauges under namespace.
func NewGauges(namespace string, constLabels prometheus.Labels) *Gauges {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: name, Help: help, ConstLabels: constLabels,
		})
	}
	return &Gauges{
		volt:    gauge("output_volts", "Measured output voltage."),
		current: gauge("output_amperes", "Measured output current."),
		power:   gauge("output_watts", "Measured output power."),
		protection: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "protection_tripped", ConstLabels: constLabels,
			Help: "1 while a protection flag is raised.",
		}, []string{"kind"}),
		mode:        gauge("regulation_mode", "0 standby, 1 constant voltage, 2 constant current, 3 failed."),
		lastSuccess: gauge("last_sample_timestamp_seconds", "Unix time of the last good sample."),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "poll_failures_total", ConstLabels: constLabels,
			Help: "Failed poll cycles by error kind.",
		}, []string{"kind"}),
	}
}

// Register adds every gauge to reg.
func (g *Gauges) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		g.volt, g.current, g.power, g.protection, g.mode, g.lastSuccess, g.failures,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (g *Gauges) observe(s Sample) {
	if g == nil {
		return
	}
	g.volt.Set(float64(s.Volt))
	g.current.Set(float64(s.Current))
	g.power.Set(float64(s.Power))
	g.protection.WithLabelValues("over_voltage").Set(b2f(s.OverVoltage))
	g.protection.WithLabelValues("over_current").Set(b2f(s.OverCurrent))
	g.protection.WithLabelValues("over_temperature").Set(b2f(s.OverTemperature))
	g.mode.Set(float64(s.Mode))
	g.lastSuccess.Set(float64(s.At.UnixNano()) / float64(time.Second))
}

func (g *Gauges) observeError(err error) {
	if g == nil {
		return
	}
	kind := "other"
	switch {
	case errors.Is(err, spe.ErrUnexpectedData):
		kind = "decode"
	case spe.IsIOError(err):
		kind = "io"
	}
	g.failures.WithLabelValues(kind).Inc()
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
