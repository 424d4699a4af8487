package gameserver

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/cory-johannsen/angler/internal/storage"
)

// HealthService is the service name reported by the health endpoint.
const HealthService = "angler.Game"

// HealthMonitor publishes store reachability over the standard gRPC health
// protocol. The overall ("") status mirrors HealthService.
type HealthMonitor struct {
	server   *health.Server
	store    storage.Store
	interval time.Duration
	logger   *zap.Logger
}

// NewHealthMonitor creates a monitor that starts NOT_SERVING until the first
// successful probe.
//
// Precondition: store and logger must be non-nil; interval must be > 0.
func NewHealthMonitor(store storage.Store, interval time.Duration, logger *zap.Logger) *HealthMonitor {
	m := &HealthMonitor{
		server:   health.NewServer(),
		store:    store,
		interval: interval,
		logger:   logger,
	}
	m.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return m
}

// Register attaches the health service to s.
func (m *HealthMonitor) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, m.server)
}

// Server returns the underlying health server.
func (m *HealthMonitor) Server() *health.Server { return m.server }

// Probe pings the store once and updates the published status.
func (m *HealthMonitor) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()
	if err := m.store.Ping(ctx); err != nil {
		m.logger.Warn("store health check failed", zap.Error(err))
		m.set(healthpb.HealthCheckResponse_NOT_SERVING)
		return false
	}
	m.set(healthpb.HealthCheckResponse_SERVING)
	return true
}

// Run probes until ctx is done, then marks the service as shutting down.
func (m *HealthMonitor) Run(ctx context.Context) {
	m.Probe(ctx)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.server.Shutdown()
			return
		case <-ticker.C:
			m.Probe(ctx)
		}
	}
}

func (m *HealthMonitor) set(status healthpb.HealthCheckResponse_ServingStatus) {
	m.server.SetServingStatus("", status)
	m.server.SetServingStatus(HealthService, status)
}
