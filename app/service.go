package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kilianp07/workplan/api/plan"
	"github.com/kilianp07/workplan/app/plugins"
	"github.com/kilianp07/workplan/config"
	"github.com/kilianp07/workplan/core/events"
	"github.com/kilianp07/workplan/core/history"
	coremetrics "github.com/kilianp07/workplan/core/metrics"
	coremon "github.com/kilianp07/workplan/core/monitoring"
	"github.com/kilianp07/workplan/core/scenario"
	"github.com/kilianp07/workplan/infra/logger"
	"github.com/kilianp07/workplan/infra/metrics"
	"github.com/kilianp07/workplan/infra/monitoring"
	"github.com/kilianp07/workplan/infra/mqtt"
	"github.com/kilianp07/workplan/internal/eventbus"
)

// Service wires the planner to its stores, sinks and listeners.
type Service struct {
	Planner   *Planner
	cfg       *config.Config
	history   history.Store
	scenarios scenario.Store
	sink      coremetrics.MetricsSink
	bus       *eventbus.Bus[events.Event]
	mqtt      *mqtt.PahoClient
	log       logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		logg.Warnf("sentry disabled: %v", err)
	} else {
		coremon.Init(mon)
	}

	hist, err := history.NewStore(cfg.History)
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}
	scen, err := plugins.NewScenarioStore(cfg.Scenarios)
	if err != nil {
		_ = hist.Close()
		return nil, err
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		_ = hist.Close()
		_ = scen.Close()
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	svc := &Service{
		cfg:       cfg,
		history:   hist,
		scenarios: scen,
		sink:      sink,
		bus:       eventbus.New[events.Event](0),
		log:       logg,
	}
	if cfg.MQTT.Enabled() {
		client, err := mqtt.NewPahoClient(cfg.MQTT)
		if err != nil {
			_ = svc.Close()
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		svc.mqtt = client
	}
	svc.Planner = NewPlanner(cfg.Solver, cfg.Sensitivity,
		WithHistory(hist),
		WithScenarios(scen),
		WithSink(sink),
		WithBus(svc.bus),
		WithLogger(logger.New("planner")),
	)
	return svc, nil
}

// Handler returns the HTTP API of the service.
func (s *Service) Handler() http.Handler {
	return plan.NewHandler(s.Planner, s.cfg.Server.Token)
}

// Run serves the API, the metrics endpoint and the MQTT notifier until the
// context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.mqtt != nil {
		done := mqtt.StartNotifier(ctx, s.bus, s.mqtt, s.cfg.MQTT.TopicPrefix)
		defer func() { <-done }()
	}
	if s.cfg.Server.MetricsAddr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Server.MetricsAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
				coremon.CaptureException(err, map[string]string{"module": "service"})
			}
		}()
	}

	srv := &http.Server{Addr: s.cfg.Server.Addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api server shutdown: %v", err)
		}
		cancel()
	}()
	s.log.Infof("serving api on %s", s.cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.mqtt != nil {
		s.mqtt.Disconnect()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	coremon.Flush(2 * time.Second)
	return errors.Join(s.history.Close(), s.scenarios.Close())
}
