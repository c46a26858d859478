// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Station-Manager/spe"
)

// Client is the instrument call the poller needs. *spe.AsyncSPE
// satisfies it.
type Client interface {
	MeasureAllInfo(ctx context.Context) (spe.MeasureAllInfoOutput, error)
}

// Sink receives every successful sample.
type Sink interface {
	Publish(ctx context.Context, s Sample) error
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Port     string
	Interval time.Duration
	Timeout  time.Duration // per call
}

// Poller is a clock-driven reader of one instrument.
type Poller struct {
	cfg    Config
	client Client
	sinks  []Sink
	gauges *Gauges
	log    logrus.FieldLogger
}

// New creates a poller with immutable config. gauges may be nil.
func New(cfg Config, client Client, gauges *Gauges, log logrus.FieldLogger, sinks ...Sink) (*Poller, error) {
	if client == nil {
		return nil, errors.New("poller: client required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("poller: timeout must be > 0")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Poller{
		cfg:    cfg,
		client: client,
		sinks:  sinks,
		gauges: gauges,
		log:    log.WithField("port", cfg.Port),
	}, nil
}

// PollOnce performs exactly one poll cycle. Sink failures are logged and
// do not fail the cycle.
func (p *Poller) PollOnce(ctx context.Context) PollResult {
	callCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	info, err := p.client.MeasureAllInfo(callCtx)
	if err != nil {
		p.gauges.observeError(err)
		return PollResult{Err: err}
	}

	s := Sample{
		Port:                 p.cfg.Port,
		At:                   time.Now(),
		MeasureAllInfoOutput: info,
		ModeName:             info.Mode.String(),
	}
	p.gauges.observe(s)

	for _, sink := range p.sinks {
		if err := sink.Publish(ctx, s); err != nil {
			p.log.WithError(err).Warn("publish sample")
		}
	}
	return PollResult{Sample: s}
}
