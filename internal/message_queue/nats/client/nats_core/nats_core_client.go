package nats_core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel/attribute"

	"github.com/bitcoin-sv/spend-broadcaster/pkg/tracing"
)

var (
	ErrFailedToPublish = errors.New("failed to publish")
	ErrNotConnected    = errors.New("nats not connected")
)

type NatsConnection interface {
	Publish(subj string, data []byte) error
	Status() nats.Status
	Drain() error
}

func WithTracer(attr ...attribute.KeyValue) func(p *Client) {
	return func(p *Client) {
		p.tracingEnabled = true
		if len(attr) > 0 {
			p.tracingAttributes = append(p.tracingAttributes, attr...)
		}
		_, file, _, ok := runtime.Caller(1)
		if ok {
			p.tracingAttributes = append(p.tracingAttributes, attribute.String("file", file))
		}
	}
}

// Client publishes messages with core NATS, i.e. fire and forget without persistence.
type Client struct {
	nc     NatsConnection
	logger *slog.Logger

	tracingEnabled    bool
	tracingAttributes []attribute.KeyValue
}

func WithLogger(logger *slog.Logger) func(p *Client) {
	return func(m *Client) {
		m.logger = logger
	}
}

type Option func(p *Client)

func New(nc NatsConnection, opts ...Option) *Client {
	m := &Client{
		nc:     nc,
		logger: slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (c *Client) Status() nats.Status {
	return c.nc.Status()
}

func (c *Client) IsConnected() bool {
	return c.nc != nil && c.nc.Status() == nats.CONNECTED
}

// Health reports an error unless the connection is established.
func (c *Client) Health(_ context.Context) error {
	if c.nc == nil {
		return ErrNotConnected
	}

	status := c.nc.Status()
	if status != nats.CONNECTED {
		return errors.Join(ErrNotConnected, fmt.Errorf("status: %s", status.String()))
	}

	return nil
}

func (c *Client) Shutdown() {
	if c.nc != nil {
		err := c.nc.Drain()
		if err != nil {
			c.logger.Error("failed to drain nats connection", slog.String("err", err.Error()))
		}
	}
}

func (c *Client) Publish(ctx context.Context, topic string, data []byte) (err error) {
	_, span := tracing.StartTracing(ctx, "Publish", c.tracingEnabled, append([]attribute.KeyValue{attribute.String("topic", topic)}, c.tracingAttributes...)...)
	defer func() {
		tracing.EndTracing(span, err)
	}()

	err = c.nc.Publish(topic, data)
	if err != nil {
		return errors.Join(ErrFailedToPublish, fmt.Errorf("topic: %s", topic), err)
	}

	return nil
}
