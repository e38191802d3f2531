// Package service runs the optional HTTP endpoints of a regression run.
package service

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	opmetrics "github.com/ethereum-optimism/optimism/op-service/metrics"
	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/infra/op-regress/metrics"
)

const (
	HealthzPort = "8080"

	shutdownTimeout = 5 * time.Second
)

// Service holds the health and metrics servers. Both are nil when metrics
// are disabled.
type Service struct {
	Healthz *HealthzServer
	Metrics *MetricsServer

	log     log.Logger
	started bool
}

// New creates the service. Nothing listens unless the metrics config is enabled.
func New(logger log.Logger, cfg opmetrics.CLIConfig) *Service {
	if logger == nil {
		logger = log.New()
	}
	s := &Service{log: logger.New("component", "service")}
	if cfg.Enabled {
		s.Healthz = newHealthzServer(s.log, net.JoinHostPort(cfg.ListenAddr, HealthzPort))
		s.Metrics = newMetricsServer(net.JoinHostPort(cfg.ListenAddr, strconv.Itoa(cfg.ListenPort)))
	}
	return s
}

// Enabled reports whether Start will bring up the servers
func (s *Service) Enabled() bool {
	return s.Healthz != nil
}

func (s *Service) Start(ctx context.Context) {
	if !s.Enabled() {
		s.log.Debug("Metrics disabled, not serving healthz or metrics")
		return
	}
	s.started = true

	go s.serve("healthz", s.Healthz.server.Addr, s.Healthz.ListenAndServe)
	go s.serve("metrics", s.Metrics.server.Addr, s.Metrics.ListenAndServe)
}

func (s *Service) serve(name, addr string, listen func() error) {
	s.log.Info("Serving "+name, "addr", addr)
	if err := listen(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Error("Failed to serve "+name, "addr", addr, "err", err)
		metrics.RecordErrorDetails(name, err)
	}
}

func (s *Service) Shutdown() {
	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.Healthz.Shutdown(ctx); err != nil {
		s.log.Warn("Failed to stop healthz server", "err", err)
	}
	if err := s.Metrics.Shutdown(ctx); err != nil {
		s.log.Warn("Failed to stop metrics server", "err", err)
	}
	s.log.Info("Service stopped")
}
