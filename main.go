package main

import (
	"context"
	"embed"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fuxingjun/taoli-tools-signer/pkg/log"
)

//go:embed config/migrations/*/*.sql
var embedMigrations embed.FS

//go:embed config/keychain.sample.yaml
var sampleKeychain []byte

func main() {
	logger := log.NewZapLogger(log.Config{})
	if len(os.Args) > 1 {
		// If a CLI command is provided, run it and exit
		runCli(logger, os.Args[1])
		return
	}

	config, err := LoadConfig(logger)
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}
	// Rebuild the root logger with the configured format and level.
	logger = log.NewZapLogger(config.logConf)

	source, err := NewKeychainSource(config)
	if err != nil {
		logger.Fatal("failed to initialize keychain source", "error", err)
	}

	keychain, err := source.Load(context.Background())
	if err != nil {
		logger.Fatal("failed to load keychain", "error", err)
	}
	logger.Info("keychain loaded", "keys", keychain.Count(), "source", config.keychainSource)

	// Initialize Prometheus metrics
	metrics := NewMetrics()
	metrics.KeychainKeys.Set(float64(keychain.Count()))

	gateway := NewGateway(keychain, metrics, logger)
	gatewayServer := &http.Server{
		Addr:    config.listenAddr,
		Handler: gateway.Handler(),
	}

	metricsEndpoint := "/metrics"
	// Set up a separate mux for metrics
	metricsMux := http.NewServeMux()
	metricsMux.Handle(metricsEndpoint, promhttp.Handler())

	// Start metrics server on a separate port
	metricsServer := &http.Server{
		Addr:    config.metricsAddr,
		Handler: metricsMux,
	}

	go func() {
		logger.Info("Prometheus metrics available", "listenAddr", config.metricsAddr, "endpoint", metricsEndpoint)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failure", "error", err)
		}
	}()

	// Start the main HTTP server.
	go func() {
		logger.Info("signing gateway available", "listenAddr", config.listenAddr)
		if err := gatewayServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("gateway server failure", "error", err)
		}
	}()

	// Wait for shutdown signal.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	// Shutdown metrics server
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shut down metrics server", "error", err)
	}

	// Shutdown gateway server
	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := gatewayServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shut down gateway server", "error", err)
	}

	logger.Info("shutdown complete")
}

func runCli(logger log.Logger, name string) {
	switch name {
	case "keys":
		runKeysCli(logger)
	case "sign-request":
		runSignRequestCli(logger)
	default:
		logger.Fatal("Unknown CLI command", "name", name)
	}
}
