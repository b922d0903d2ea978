package grpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the name reported by the health service alongside the empty (server-wide) name.
const ServiceName = "assignment-portal"

// Pinger is satisfied by the store and the service layer.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthServer struct {
	health *health.Server
	pinger Pinger
	logger *slog.Logger
}

func NewHealthServer(pinger Pinger, logger *slog.Logger) *HealthServer {
	return &HealthServer{health: health.NewServer(), pinger: pinger, logger: logger}
}

// NewServer builds a gRPC server exposing grpc.health.v1 and reflection.
func NewServer(h *HealthServer) *grpc.Server {
	server := grpc.NewServer()
	healthpb.RegisterHealthServer(server, h.health)
	reflection.Register(server)
	return server
}

// Probe pings the store once and publishes the result.
func (h *HealthServer) Probe(ctx context.Context, timeout time.Duration) healthpb.HealthCheckResponse_ServingStatus {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := h.pinger.Ping(probeCtx); err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		h.logger.Warn("health probe failed", "error", err)
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
	return status
}

// Run probes every interval until ctx is done, then marks everything NOT_SERVING.
func (h *HealthServer) Run(ctx context.Context, interval time.Duration) {
	h.Probe(ctx, interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.health.Shutdown()
			return
		case <-ticker.C:
			h.Probe(ctx, interval)
		}
	}
}
