// internal/poller/runner.go
package poller

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Station-Manager/spe"
)

// Run polls on every tick until ctx is done or the transport fails. No
// overlap. No retries.
//
// A reply that does not decode is logged and the loop continues. An I/O
// error or an abandoned call ends the loop with that error: after either,
// the next reply on the wire can no longer be matched to its command.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		res := p.PollOnce(ctx)
		switch {
		case res.Err == nil:
			p.log.WithFields(logrus.Fields{
				"volt":    res.Sample.Volt,
				"current": res.Sample.Current,
				"power":   res.Sample.Power,
				"ov":      res.Sample.OverVoltage,
				"oc":      res.Sample.OverCurrent,
				"ot":      res.Sample.OverTemperature,
				"mode":    res.Sample.ModeName,
			}).Debug("sample")
		case errors.Is(res.Err, spe.ErrUnexpectedData):
			p.log.WithError(res.Err).Warn("discarding reading")
		case ctx.Err() != nil:
			return nil
		default:
			p.log.WithError(res.Err).Error("instrument unusable, stopping")
			return res.Err
		}
	}
}
