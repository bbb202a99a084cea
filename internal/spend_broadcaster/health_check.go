package spend_broadcaster

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
)

const dependencyCheckTimeout = 5 * time.Second

type HealthWatchServer interface {
	Send(*grpc_health_v1.HealthCheckResponse) error
	grpc.ServerStream
}

type RunningReporter interface {
	Running() bool
}

// DependencyCheck is a named probe of a service the broadcaster depends on.
type DependencyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthServer struct {
	grpc_health_v1.UnimplementedHealthServer

	runner RunningReporter
	checks []DependencyCheck
	logger *slog.Logger
}

func NewHealthServer(logger *slog.Logger, runner RunningReporter, checks ...DependencyCheck) *HealthServer {
	return &HealthServer{
		runner: runner,
		checks: checks,
		logger: logger.With(slog.String("module", "health")),
	}
}

func (h *HealthServer) status(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	if !h.runner.Running() {
		h.logger.Error("spend broadcaster not running")
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}

	ctx, cancel := context.WithTimeout(ctx, dependencyCheckTimeout)
	defer cancel()

	for _, dep := range h.checks {
		err := dep.Check(ctx)
		if err != nil {
			h.logger.Error("dependency unhealthy", slog.String("dependency", dep.Name), slog.String("err", err.Error()))
			return grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
	}

	return grpc_health_v1.HealthCheckResponse_SERVING
}

func (h *HealthServer) Check(ctx context.Context, _ *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	return &grpc_health_v1.HealthCheckResponse{
		Status: h.status(ctx),
	}, nil
}

func (h *HealthServer) Watch(_ *grpc_health_v1.HealthCheckRequest, server grpc_health_v1.Health_WatchServer) error {
	return server.Send(&grpc_health_v1.HealthCheckResponse{
		Status: h.status(server.Context()),
	})
}
