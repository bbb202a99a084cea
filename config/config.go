package config

import (
	"time"

	"go.opentelemetry.io/otel/attribute"
)

type SpendBroadcasterConfig struct {
	LogLevel     string              `mapstructure:"logLevel" yaml:"logLevel"`
	LogFormat    string              `mapstructure:"logFormat" yaml:"logFormat"`
	ProfilerAddr string              `mapstructure:"profilerAddr" yaml:"profilerAddr"`
	Prometheus   *PrometheusConfig   `mapstructure:"prometheus" yaml:"prometheus"`
	Tracing      *TracingConfig      `mapstructure:"tracing" yaml:"tracing"`
	PeerRPC      *PeerRPCConfig      `mapstructure:"peerRpc" yaml:"peerRpc"`
	Db           *DbConfig           `mapstructure:"db" yaml:"db"`
	MessageQueue *MessageQueueConfig `mapstructure:"messageQueue" yaml:"messageQueue"`
	Broadcaster  *BroadcasterConfig  `mapstructure:"broadcaster" yaml:"broadcaster"`
}

type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	Addr     string `mapstructure:"addr" yaml:"addr"`
}

func (p *PrometheusConfig) IsEnabled() bool {
	return p != nil && p.Enabled && p.Addr != "" && p.Endpoint != ""
}

type TracingConfig struct {
	Enabled            bool                 `mapstructure:"enabled" yaml:"enabled"`
	DialAddr           string               `mapstructure:"dialAddr" yaml:"dialAddr"`
	Sample             int                  `mapstructure:"sample" yaml:"sample"`
	Attributes         map[string]string    `mapstructure:"attributes" yaml:"attributes"`
	KeyValueAttributes []attribute.KeyValue `mapstructure:"-" yaml:"-"`
}

func (t *TracingConfig) IsEnabled() bool {
	return t != nil && t.Enabled
}

type PeerRPCConfig struct {
	Host     string        `mapstructure:"host" yaml:"host"`
	Port     int           `mapstructure:"port" yaml:"port"`
	User     string        `mapstructure:"user" yaml:"user"`
	Password string        `mapstructure:"password" yaml:"password"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type DbConfig struct {
	Mode     string          `mapstructure:"mode" yaml:"mode"`
	Postgres *PostgresConfig `mapstructure:"postgres" yaml:"postgres"`
}

type PostgresConfig struct {
	Host         string `mapstructure:"host" yaml:"host"`
	Port         int    `mapstructure:"port" yaml:"port"`
	Name         string `mapstructure:"name" yaml:"name"`
	User         string `mapstructure:"user" yaml:"user"`
	Password     string `mapstructure:"password" yaml:"password"`
	MaxIdleConns int    `mapstructure:"maxIdleConns" yaml:"maxIdleConns"`
	MaxOpenConns int    `mapstructure:"maxOpenConns" yaml:"maxOpenConns"`
	SslMode      string `mapstructure:"sslMode" yaml:"sslMode"`
}

type MessageQueueConfig struct {
	URL   string `mapstructure:"url" yaml:"url"`
	Topic string `mapstructure:"topic" yaml:"topic"`
}

type BroadcasterConfig struct {
	// Interval between two reconciliation attempts.
	Interval time.Duration  `mapstructure:"interval" yaml:"interval"`
	Health   *HealthConfig  `mapstructure:"health" yaml:"health"`
	Restart  *RestartConfig `mapstructure:"restart" yaml:"restart"`
}

type HealthConfig struct {
	ListenAddr string `mapstructure:"listenAddr" yaml:"listenAddr"`
}

// RestartConfig controls how the loop is relaunched after a fatal error. With Enabled=false the
// first fatal error shuts the process down.
type RestartConfig struct {
	Enabled         bool          `mapstructure:"enabled" yaml:"enabled"`
	InitialInterval time.Duration `mapstructure:"initialInterval" yaml:"initialInterval"`
	MaxInterval     time.Duration `mapstructure:"maxInterval" yaml:"maxInterval"`
	MaxElapsedTime  time.Duration `mapstructure:"maxElapsedTime" yaml:"maxElapsedTime"`
	// HealthyRunDuration resets the backoff if the loop ran at least this long before failing.
	HealthyRunDuration time.Duration `mapstructure:"healthyRunDuration" yaml:"healthyRunDuration"`
}
