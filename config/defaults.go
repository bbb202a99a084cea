package config

import "time"

func getDefaultSpendBroadcasterConfig() *SpendBroadcasterConfig {
	return &SpendBroadcasterConfig{
		LogLevel:     "DEBUG",
		LogFormat:    "text",
		ProfilerAddr: "",
		Prometheus:   getDefaultPrometheusConfig(),
		Tracing:      getDefaultTracingConfig(),
		PeerRPC:      getDefaultPeerRPCConfig(),
		Db:           getDefaultDbConfig(),
		MessageQueue: getDefaultMessageQueueConfig(),
		Broadcaster:  getDefaultBroadcasterConfig(),
	}
}

func getDefaultPrometheusConfig() *PrometheusConfig {
	return &PrometheusConfig{
		Enabled:  false,
		Endpoint: "/metrics",
		Addr:     ":2112",
	}
}

func getDefaultTracingConfig() *TracingConfig {
	return &TracingConfig{
		Enabled:  false,
		DialAddr: "http://localhost:4317",
		Sample:   100,
	}
}

func getDefaultPeerRPCConfig() *PeerRPCConfig {
	return &PeerRPCConfig{
		Host:     "localhost",
		Port:     18332,
		User:     "bitcoin",
		Password: "bitcoin",
		Timeout:  30 * time.Second,
	}
}

func getDefaultDbConfig() *DbConfig {
	return &DbConfig{
		Mode: DbModePostgres,
		Postgres: &PostgresConfig{
			Host:         "localhost",
			Port:         5432,
			Name:         "spend_broadcaster",
			User:         "spend_broadcaster",
			Password:     "spend_broadcaster",
			MaxIdleConns: 2,
			MaxOpenConns: 10,
			SslMode:      "disable",
		},
	}
}

func getDefaultMessageQueueConfig() *MessageQueueConfig {
	return &MessageQueueConfig{
		URL:   "",
		Topic: "spend-broadcasted",
	}
}

func getDefaultBroadcasterConfig() *BroadcasterConfig {
	return &BroadcasterConfig{
		Interval: 30 * time.Second,
		Health: &HealthConfig{
			ListenAddr: "localhost:8005",
		},
		Restart: &RestartConfig{
			Enabled:            true,
			InitialInterval:    time.Second,
			MaxInterval:        time.Minute,
			MaxElapsedTime:     15 * time.Minute,
			HealthyRunDuration: 10 * time.Minute,
		},
	}
}
