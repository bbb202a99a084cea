package tracing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

var ErrTracingAddressEmpty = errors.New("tracing enabled, but tracing address empty")

func NewTraceProvider(ctx context.Context, serviceName string, sample int, attributes []attribute.KeyValue, opts ...otlptracegrpc.Option) (*trace.TracerProvider, *otlptrace.Exporter, error) {
	exporter, err := otlptracegrpc.New(
		ctx,
		opts...,
	)
	if err != nil {
		return nil, nil, err
	}

	tp := trace.NewTracerProvider(
		trace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			append([]attribute.KeyValue{semconv.ServiceName(serviceName)}, attributes...)...,
		)),
		trace.WithBatcher(exporter),
		trace.WithSampler(sampler(sample)),
	)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	otel.SetTracerProvider(tp)

	return tp, exporter, nil
}

// sampler maps a percentage to a sampler. 0 and 100 both sample every trace.
func sampler(sample int) trace.Sampler {
	if sample <= 0 || sample >= 100 {
		return trace.AlwaysSample()
	}

	return trace.TraceIDRatioBased(float64(sample) / 100)
}

// Enable installs a global otlp trace provider exporting to dialAddr. The returned function
// flushes and shuts it down.
func Enable(logger *slog.Logger, serviceName string, dialAddr string, sample int, attributes ...attribute.KeyValue) (func(), error) {
	if dialAddr == "" {
		return nil, ErrTracingAddressEmpty
	}

	ctx := context.Background()

	tp, exporter, err := NewTraceProvider(ctx, serviceName, sample, attributes, otlptracegrpc.WithEndpointURL(dialAddr), otlptracegrpc.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("failed to create trace provider: %v", err)
	}

	cleanup := func() {
		err = exporter.Shutdown(ctx)
		if err != nil {
			logger.Error("Failed to shutdown exporter", slog.String("err", err.Error()))
		}

		err = tp.Shutdown(ctx)
		if err != nil {
			logger.Error("Failed to shutdown tracing provider", slog.String("err", err.Error()))
		}
	}

	return cleanup, nil
}
