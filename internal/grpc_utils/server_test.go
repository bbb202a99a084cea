package grpc_utils_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/bitcoin-sv/spend-broadcaster/internal/grpc_utils"
)

type staticHealth struct {
	grpc_health_v1.UnimplementedHealthServer
	status grpc_health_v1.HealthCheckResponse_ServingStatus
}

func (s *staticHealth) Check(_ context.Context, _ *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	return &grpc_health_v1.HealthCheckResponse{Status: s.status}, nil
}

func TestServeNewHealthServer(t *testing.T) {
	t.Run("serves health checks", func(t *testing.T) {
		// given
		cfg := grpc_utils.ServerConfig{PrometheusEndpoint: "/metrics", Name: "health_test"}
		sut, err := grpc_utils.ServeNewHealthServer(slog.Default(), &staticHealth{status: grpc_health_v1.HealthCheckResponse_SERVING}, "localhost:0", cfg)
		require.NoError(t, err)
		defer sut.GracefulStop()

		conn, err := grpc.NewClient(sut.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
		require.NoError(t, err)
		defer conn.Close()

		// when
		resp, err := grpc_health_v1.NewHealthClient(conn).Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})

		// then
		require.NoError(t, err)
		assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus())
	})

	t.Run("invalid address", func(t *testing.T) {
		// when
		sut, err := grpc_utils.ServeNewHealthServer(slog.Default(), &staticHealth{}, "localhost:-1", grpc_utils.ServerConfig{Name: "health_test"})

		// then
		require.ErrorIs(t, err, grpc_utils.ErrServerFailedToListen)
		assert.Nil(t, sut)
	})

	t.Run("metrics registered twice", func(t *testing.T) {
		// given
		cfg := grpc_utils.ServerConfig{PrometheusEndpoint: "/metrics", Name: "health_twice"}
		first, err := grpc_utils.NewHealthServer(slog.Default(), &staticHealth{}, cfg)
		require.NoError(t, err)
		defer first.GracefulStop()

		// when
		second, err := grpc_utils.NewHealthServer(slog.Default(), &staticHealth{}, cfg)

		// then
		require.ErrorIs(t, err, grpc_utils.ErrGRPCFailedToRegisterMetrics)
		assert.Nil(t, second)
	})
}
