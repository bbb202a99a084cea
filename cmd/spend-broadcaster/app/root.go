package app

import (
	"fmt"
	"log/slog"
	"net/http"
	_ "net/http/pprof" // #nosec G108
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/bitcoin-sv/spend-broadcaster/cmd/spend-broadcaster/services"
	"github.com/bitcoin-sv/spend-broadcaster/config"
	sbLogger "github.com/bitcoin-sv/spend-broadcaster/internal/logger"
)

var configDir string

var RootCmd = &cobra.Command{
	Use:          "spend-broadcaster",
	Short:        "Re-broadcasts pending spend transactions to the node",
	SilenceUsage: true,
	RunE: func(_ *cobra.Command, _ []string) error {
		return run()
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config", "", "directory to look for config.yaml")

	RootCmd.AddCommand(migrateCmd)
	RootCmd.AddCommand(pendingCmd)
	RootCmd.AddCommand(dumpConfigCmd)
}

func Execute() error {
	return RootCmd.Execute()
}

func loadConfig() (*config.SpendBroadcasterConfig, *slog.Logger, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load app config: %w", err)
	}

	logger, err := sbLogger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return cfg, logger, nil
}

func run() error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	hostname, err := os.Hostname()
	if err != nil {
		return fmt.Errorf("failed to get host name: %v", err)
	}

	logger = logger.With(slog.String("host", hostname))

	go func() {
		if cfg.ProfilerAddr != "" {
			logger.Info(fmt.Sprintf("Starting profiler on http://%s/debug/pprof", cfg.ProfilerAddr))

			err := http.ListenAndServe(cfg.ProfilerAddr, nil) // #nosec G114
			if err != nil {
				logger.Error("failed to start profiler server", slog.String("err", err.Error()))
			}
		}
	}()

	go func() {
		if cfg.Prometheus.IsEnabled() {
			logger.Info("Starting prometheus", slog.String("endpoint", cfg.Prometheus.Endpoint))

			mux := http.NewServeMux()
			mux.Handle(cfg.Prometheus.Endpoint, promhttp.Handler())
			err := http.ListenAndServe(cfg.Prometheus.Addr, mux) // #nosec G114
			if err != nil {
				logger.Error("failed to start prometheus server", slog.String("err", err.Error()))
			}
		}
	}()

	shutdownCh := make(chan services.ShutdownReason, 2)

	shutdown, err := services.StartSpendBroadcaster(logger, cfg, shutdownCh)
	if err != nil {
		return fmt.Errorf("failed to start spend broadcaster: %v", err)
	}

	// setup signal catching
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)

	var fatalErr error
	select {
	case reason := <-shutdownCh:
		logger.Info("Received shutdown signal", slog.String("reason", reason.Reason))
		if reason.IsFatal() {
			fatalErr = reason.Err
		}
	case sig := <-signalChan:
		logger.Info("Received shutdown signal", slog.String("reason", sig.String()))
	}

	logger.Info("cleaning up")
	shutdown()

	return fatalErr
}
