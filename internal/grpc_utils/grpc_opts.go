package grpc_utils

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/grpc-ecosystem/go-grpc-middleware/providers/prometheus"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	prometheusclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var ErrGRPCFailedToRegisterMetrics = errors.New("failed to register gRPC server metrics")

// ServerConfig selects the interceptors of a gRPC server. Metrics are collected only if
// PrometheusEndpoint is set.
type ServerConfig struct {
	PrometheusEndpoint string
	TracingEnabled     bool
	Name               string
}

func GetGRPCServerOpts(logger *slog.Logger, cfg ServerConfig) (*prometheus.ServerMetrics, []grpc.ServerOption, func(), error) {
	rpcLogger := logger.With(slog.String("module", "gRPC/server"))

	srvMetrics := prometheus.NewServerMetrics(
		prometheus.WithServerHandlingTimeHistogram(
			prometheus.WithHistogramBuckets([]float64{0.001, 0.01, 0.1, 0.3, 0.6, 1, 3, 6}),
		),
	)

	panicsTotal := prometheusclient.NewCounter(prometheusclient.CounterOpts{
		Name: fmt.Sprintf("grpc_req_panics_recovered_%s_total", cfg.Name),
		Help: "Total number of gRPC requests recovered from internal panic.",
	})

	collectors := make([]prometheusclient.Collector, 0, 2)
	cleanup := func() {
		for _, c := range collectors {
			prometheusclient.Unregister(c)
		}
	}

	if cfg.PrometheusEndpoint != "" {
		for _, c := range []prometheusclient.Collector{panicsTotal, srvMetrics} {
			err := prometheusclient.Register(c)
			if err != nil {
				cleanup()
				return nil, nil, nil, errors.Join(ErrGRPCFailedToRegisterMetrics, err)
			}
			collectors = append(collectors, c)
		}
	}

	opts := make([]grpc.ServerOption, 0)

	if cfg.TracingEnabled {
		opts = append(opts, grpc.StatsHandler(otelgrpc.NewServerHandler()))
	}

	grpcPanicRecoveryHandler := func(p any) (err error) {
		panicsTotal.Inc()
		rpcLogger.Error("recovered from panic", "panic", p, "stack", debug.Stack())
		return status.Errorf(codes.Internal, "%s", p)
	}

	var chainUnaryInterceptors []grpc.UnaryServerInterceptor

	if cfg.PrometheusEndpoint != "" {
		exemplarFromContext := func(ctx context.Context) prometheusclient.Labels {
			if span := trace.SpanContextFromContext(ctx); span.IsSampled() {
				return prometheusclient.Labels{"traceID": span.TraceID().String()}
			}
			return nil
		}
		chainUnaryInterceptors = append(chainUnaryInterceptors, srvMetrics.UnaryServerInterceptor(prometheus.WithExemplarFromContext(exemplarFromContext)))
	}

	// recovery runs last so that a recovered panic is still counted by the metrics interceptor
	chainUnaryInterceptors = append(chainUnaryInterceptors, recovery.UnaryServerInterceptor(recovery.WithRecoveryHandler(grpcPanicRecoveryHandler)))

	opts = append(opts, grpc.ChainUnaryInterceptor(chainUnaryInterceptors...))

	return srvMetrics, opts, cleanup, nil
}
