// cmd/spepoll/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/Station-Manager/spe"
	"github.com/Station-Manager/spe/internal/config"
	"github.com/Station-Manager/spe/internal/poller"
	"github.com/Station-Manager/spe/internal/publish"
)

func main() {
	if len(os.Args) < 2 {
		logrus.Fatal("usage: spepoll <config.yaml>")
	}
	os.Exit(run(os.Args[1]))
}

// run owns every resource so deferred cleanup happens before exit.
func run(path string) int {

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(path)
	if err != nil {
		logrus.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		logrus.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	logger := spe.NewLogger(cfg.Log)
	log := logger.WithField("port", cfg.Serial.PortName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Instrument
	// --------------------

	metrics := &spe.Metrics{}
	client, err := spe.OpenAsync(cfg.Serial, spe.WithLogger(logger), spe.WithMetrics(metrics))
	if err != nil {
		log.WithError(err).Error("open instrument")
		return 1
	}
	defer client.Close()

	idCtx, cancel := context.WithTimeout(ctx, cfg.Poll.Timeout)
	idn, err := client.Identify(idCtx)
	cancel()
	if err != nil {
		log.WithError(err).Error("identify instrument")
		return 1
	}
	log.WithFields(logrus.Fields{
		"model":    idn.Model,
		"serial":   idn.Serial,
		"firmware": idn.Firmware,
	}).Info("instrument ready")

	// --------------------
	// Sinks
	// --------------------

	var sinks []poller.Sink
	if cfg.Redis.Enabled {
		sink, err := publish.NewRedisSink(ctx, cfg.Redis, log)
		if err != nil {
			log.WithError(err).Error("redis sink")
			return 1
		}
		defer sink.Close()
		sinks = append(sinks, sink)
	}

	// --------------------
	// Monitoring
	// --------------------

	labels := prometheus.Labels{"port": cfg.Serial.PortName}
	gauges := poller.NewGauges("spe", labels)

	if cfg.Monitor.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			spe.NewMetricsCollector("spe", metrics, labels),
		)
		if err := gauges.Register(reg); err != nil {
			log.WithError(err).Error("register gauges")
			return 1
		}

		srv := newMonitorServer(cfg.Monitor.Addr, reg, metrics)
		go func() {
			log.WithField("addr", cfg.Monitor.Addr).Info("monitor listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("monitor server")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// --------------------
	// Poll
	// --------------------

	p, err := poller.New(poller.Config{
		Port:     cfg.Serial.PortName,
		Interval: cfg.Poll.Interval,
		Timeout:  cfg.Poll.Timeout,
	}, client, gauges, logger, sinks...)
	if err != nil {
		log.WithError(err).Error("poller")
		return 1
	}

	log.WithField("interval", cfg.Poll.Interval).Info("polling")
	if err := p.Run(ctx); err != nil {
		log.WithError(err).Error("poller stopped")
		return 1
	}
	log.Info("shutting down")
	return 0
}
