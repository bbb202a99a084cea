package services

/* Spend Broadcaster Service */
/*

This service re-broadcasts spend transactions which were persisted but not yet confirmed as broadcasted.

Key components:
- PostgreSQL DB: queue of spend transactions with their broadcast flag
- node client: submits all pending transactions in one JSON-RPC batch of sendrawtransaction calls
- spend broadcaster: the reconciliation loop, one attempt per interval
- supervisor: restarts the loop with exponential backoff after a fatal error
- NATS (optional): an event is published for every transaction marked as broadcasted
- gRPC health server: SERVING while the loop runs and the node (and NATS, if enabled) are reachable

Graceful Shutdown: the loop is cancelled at its next suspension point, then the health server, the message queue
connection and the store are closed in that order.

*/

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ordishs/go-bitcoin"

	"github.com/bitcoin-sv/spend-broadcaster/config"
	"github.com/bitcoin-sv/spend-broadcaster/internal/grpc_utils"
	"github.com/bitcoin-sv/spend-broadcaster/internal/message_queue/nats/client/nats_core"
	"github.com/bitcoin-sv/spend-broadcaster/internal/message_queue/nats/nats_connection"
	"github.com/bitcoin-sv/spend-broadcaster/internal/node_client"
	"github.com/bitcoin-sv/spend-broadcaster/internal/spend_broadcaster"
	"github.com/bitcoin-sv/spend-broadcaster/internal/spend_broadcaster/store/postgresql"
	"github.com/bitcoin-sv/spend-broadcaster/pkg/tracing"
)

const serviceName = "spend-broadcaster"

// ShutdownReason is sent by a running service which needs the process to stop. A non-nil Err makes the
// process exit with a non-zero code.
type ShutdownReason struct {
	Reason string
	Err    error
}

func StartSpendBroadcaster(logger *slog.Logger, cfg *config.SpendBroadcasterConfig, shutdownCh chan<- ShutdownReason) (func(), error) {
	logger = logger.With(slog.String("service", serviceName))
	logger.Info("Starting")

	var (
		spendStore     *postgresql.PostgreSQL
		mqClient       *nats_core.Client
		stats          *spend_broadcaster.Stats
		healthServer   *grpc_utils.GrpcServer
		stopTracing    func()
		cancelRun      context.CancelFunc
		supervisorDone chan struct{}
		err            error
	)

	stopFn := func() {
		logger.Info("Shutting down spend broadcaster")
		if cancelRun != nil {
			cancelRun()
			<-supervisorDone
		}
		disposeSpendBroadcaster(logger, healthServer, mqClient, spendStore, stats, stopTracing)
		logger.Info("Shutdown spend broadcaster complete")
	}

	tracingEnabled := cfg.Tracing.IsEnabled()
	if tracingEnabled {
		stopTracing, err = tracing.Enable(logger, serviceName, cfg.Tracing.DialAddr, cfg.Tracing.Sample, cfg.Tracing.KeyValueAttributes...)
		if err != nil {
			logger.Warn("failed to enable tracing", slog.String("err", err.Error()))
			tracingEnabled = false
		}
	}

	storeOpts := []func(*postgresql.PostgreSQL){}
	if tracingEnabled {
		storeOpts = append(storeOpts, postgresql.WithTracer(cfg.Tracing.KeyValueAttributes...))
	}

	spendStore, err = newStore(cfg.Db, storeOpts...)
	if err != nil {
		stopFn()
		return nil, fmt.Errorf("failed to create spend broadcaster store: %v", err)
	}

	nodeClient, err := newNodeClient(cfg.PeerRPC, tracingEnabled, cfg.Tracing)
	if err != nil {
		stopFn()
		return nil, err
	}

	stats, err = spend_broadcaster.NewStats()
	if err != nil {
		stopFn()
		return nil, err
	}

	broadcasterOpts := []spend_broadcaster.Option{
		spend_broadcaster.WithInterval(cfg.Broadcaster.Interval),
		spend_broadcaster.WithStats(stats),
	}
	if tracingEnabled {
		broadcasterOpts = append(broadcasterOpts, spend_broadcaster.WithTracer(cfg.Tracing.KeyValueAttributes...))
	}

	checks := []spend_broadcaster.DependencyCheck{
		{Name: "node", Check: nodeClient.Health},
	}

	if cfg.MessageQueue != nil && cfg.MessageQueue.URL != "" {
		mqClient, err = newMessageQueueClient(logger, cfg, tracingEnabled, shutdownCh)
		if err != nil {
			stopFn()
			return nil, err
		}

		broadcasterOpts = append(broadcasterOpts, spend_broadcaster.WithMessageQueueClient(mqClient, cfg.MessageQueue.Topic))
		checks = append(checks, spend_broadcaster.DependencyCheck{Name: "nats", Check: mqClient.Health})
	}

	broadcaster, err := spend_broadcaster.NewSpendBroadcaster(spendStore, nodeClient, logger, broadcasterOpts...)
	if err != nil {
		stopFn()
		return nil, fmt.Errorf("failed to create spend broadcaster: %v", err)
	}

	restart := cfg.Broadcaster.Restart
	supervisorOpts := []spend_broadcaster.SupervisorOption{
		spend_broadcaster.WithSupervisorStats(stats),
	}
	if restart != nil {
		supervisorOpts = append(supervisorOpts,
			spend_broadcaster.WithRestartPolicy(restart.Enabled, restart.InitialInterval, restart.MaxInterval, restart.MaxElapsedTime),
		)
		if restart.HealthyRunDuration > 0 {
			supervisorOpts = append(supervisorOpts, spend_broadcaster.WithHealthyRunDuration(restart.HealthyRunDuration))
		}
	}

	supervisor := spend_broadcaster.NewSupervisor(broadcaster, logger, supervisorOpts...)

	var ctx context.Context
	ctx, cancelRun = context.WithCancel(context.Background())
	supervisorDone = make(chan struct{})

	go func() {
		defer close(supervisorDone)

		runErr := supervisor.Run(ctx)
		if runErr != nil {
			sendShutdown(shutdownCh, ShutdownReason{Reason: "spend broadcaster failed", Err: runErr})
		}
	}()

	if cfg.Broadcaster.Health != nil && cfg.Broadcaster.Health.ListenAddr != "" {
		serverCfg := grpc_utils.ServerConfig{
			TracingEnabled: tracingEnabled,
			Name:           "spend_broadcaster",
		}
		if cfg.Prometheus.IsEnabled() {
			serverCfg.PrometheusEndpoint = cfg.Prometheus.Endpoint
		}

		healthServer, err = grpc_utils.ServeNewHealthServer(logger, spend_broadcaster.NewHealthServer(logger, supervisor, checks...), cfg.Broadcaster.Health.ListenAddr, serverCfg)
		if err != nil {
			stopFn()
			return nil, fmt.Errorf("failed to start health server: %v", err)
		}
	}

	logger.Info("Ready to work")
	return stopFn, nil
}

func newStore(dbConfig *config.DbConfig, opts ...func(*postgresql.PostgreSQL)) (*postgresql.PostgreSQL, error) {
	switch dbConfig.Mode {
	case config.DbModePostgres:
		s, err := postgresql.New(dbConfig.DBInfo(), dbConfig.Postgres.MaxIdleConns, dbConfig.Postgres.MaxOpenConns, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres DB: %v", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("db mode %s is invalid", dbConfig.Mode)
	}
}

func newNodeClient(cfg *config.PeerRPCConfig, tracingEnabled bool, tracingCfg *config.TracingConfig) (*node_client.NodeClient, error) {
	rpcClient, err := node_client.NewRPCClient(cfg.Host, cfg.Port, cfg.User, cfg.Password, node_client.WithTimeout(cfg.Timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create rpc client: %v", err)
	}

	bitcoinClient, err := bitcoin.New(cfg.Host, cfg.Port, cfg.User, cfg.Password, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create bitcoin client: %v", err)
	}

	opts := []func(*node_client.NodeClient){node_client.WithBitcoinClient(bitcoinClient)}
	if tracingEnabled {
		opts = append(opts, node_client.WithTracer(tracingCfg.KeyValueAttributes...))
	}

	return node_client.New(rpcClient, opts...), nil
}

func newMessageQueueClient(logger *slog.Logger, cfg *config.SpendBroadcasterConfig, tracingEnabled bool, shutdownCh chan<- ShutdownReason) (*nats_core.Client, error) {
	clientClosedCh := make(chan struct{}, 1)

	conn, err := nats_connection.New(cfg.MessageQueue.URL, logger, nats_connection.WithClientClosedChannel(clientClosedCh))
	if err != nil {
		return nil, fmt.Errorf("failed to establish connection to message queue at URL %s: %v", cfg.MessageQueue.URL, err)
	}

	go watchMessageQueueClosed(logger, clientClosedCh, shutdownCh)

	opts := []nats_core.Option{nats_core.WithLogger(logger)}
	if tracingEnabled {
		opts = append(opts, nats_core.WithTracer(cfg.Tracing.KeyValueAttributes...))
	}

	return nats_core.New(conn, opts...), nil
}

// watchMessageQueueClosed stops the process with an error once the NATS connection is closed for good.
func watchMessageQueueClosed(logger *slog.Logger, clientClosedCh <-chan struct{}, shutdownCh chan<- ShutdownReason) {
	<-clientClosedCh
	logger.Warn("message queue client closed")
	sendShutdown(shutdownCh, ShutdownReason{Reason: "message queue client closed", Err: nats_connection.ErrConnectionClosed})
}

func sendShutdown(shutdownCh chan<- ShutdownReason, reason ShutdownReason) {
	select {
	case shutdownCh <- reason:
	default:
	}
}

func disposeSpendBroadcaster(l *slog.Logger, healthServer *grpc_utils.GrpcServer, mqClient *nats_core.Client,
	spendStore *postgresql.PostgreSQL, stats *spend_broadcaster.Stats, stopTracing func()) {
	// the loop is already stopped, nothing touches the store or the queue any more

	if healthServer != nil {
		healthServer.GracefulStop()
	}
	if mqClient != nil {
		mqClient.Shutdown()
	}
	if spendStore != nil {
		err := spendStore.Close()
		if err != nil {
			l.Error("Could not close store", slog.String("err", err.Error()))
		}
	}

	stats.Unregister()

	if stopTracing != nil {
		stopTracing()
	}
}

// IsFatal reports whether the process should exit with a non-zero code for this reason.
func (r ShutdownReason) IsFatal() bool {
	return r.Err != nil && !errors.Is(r.Err, context.Canceled)
}
