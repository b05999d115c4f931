package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/syndicate-hq/coordinator/pkg/api"
	"github.com/syndicate-hq/coordinator/pkg/blockchain"
	"github.com/syndicate-hq/coordinator/pkg/bridge"
	"github.com/syndicate-hq/coordinator/pkg/chainclient"
	"github.com/syndicate-hq/coordinator/pkg/circuitbreaker"
	"github.com/syndicate-hq/coordinator/pkg/config"
	"github.com/syndicate-hq/coordinator/pkg/coordinator"
	"github.com/syndicate-hq/coordinator/pkg/health"
	"github.com/syndicate-hq/coordinator/pkg/listener"
	"github.com/syndicate-hq/coordinator/pkg/logger"
	"github.com/syndicate-hq/coordinator/pkg/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg := logger.NewStdLogger(cfg.LoggerConfig.Coloring, cfg.LoggerConfig.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the intent store
	var st store.Store
	if cfg.UseMemoryStore {
		lg.Notice("Using in-memory store, state will not survive a restart")
		st = store.NewMemoryStore()
	} else {
		pg, err := store.NewPostgresStore(cfg.DatabaseDSN, lg)
		if err != nil {
			lg.Error("Failed to connect to database: %v", err)
			os.Exit(1)
		}
		st = pg
	}

	// Connect to both chains
	sourceClient, err := chainclient.New(ctx, cfg.SourceChain.ChainID, cfg.SourceChain.RPCURL,
		cfg.SourceChain.ResolverAddress, cfg.SourceChain.RegistryAddress, cfg.PrivateKey, cfg.GasMultiplier)
	if err != nil {
		lg.Error("Failed to connect to source chain: %v", err)
		os.Exit(1)
	}

	destClient, err := chainclient.New(ctx, cfg.DestChain.ChainID, cfg.DestChain.RPCURL,
		cfg.DestChain.ResolverAddress, cfg.DestChain.RegistryAddress, cfg.PrivateKey, cfg.GasMultiplier)
	if err != nil {
		lg.Error("Failed to connect to destination chain: %v", err)
		os.Exit(1)
	}

	chains := map[int]*chainclient.Client{
		sourceClient.ChainID: sourceClient,
		destClient.ChainID:   destClient,
	}

	nonceManager := blockchain.NewNonceManager(lg)

	circuitBreakers := make(map[int]*circuitbreaker.CircuitBreaker)
	readers := make(map[int]coordinator.ChainReader)
	resolvers := make(map[int]coordinator.IntentResolver)
	for chainID, client := range chains {
		circuitBreakers[chainID] = circuitbreaker.NewCircuitBreaker(
			cfg.CircuitBreaker.Enabled,
			cfg.CircuitBreaker.Threshold,
			cfg.CircuitBreaker.WindowDuration,
			cfg.CircuitBreaker.ResetTimeout,
			lg,
		)
		readers[chainID] = client
		resolvers[chainID] = client
	}

	// Build the coordination engine
	engine, err := coordinator.New(coordinator.Deps{
		Store:     st,
		Readers:   readers,
		Bridge:    bridge.New(cfg.BridgeEndpoint, lg),
		Resolvers: resolvers,
		Nonce:     nonceManager,
		Breakers:  circuitBreakers,
		Logger:    lg,
	}, coordinator.Config{
		PendingPollInterval: cfg.PendingPollInterval,
		ErrorPollInterval:   cfg.ErrorPollInterval,
		MaxPollAttempts:     cfg.MaxPollAttempts,
	})
	if err != nil {
		lg.Error("Failed to create coordination engine: %v", err)
		os.Exit(1)
	}

	if err := engine.Start(ctx); err != nil {
		lg.Error("Failed to start coordination engine: %v", err)
		os.Exit(1)
	}

	// Subscribe to resolver events on both chains
	listeners := make([]*listener.Listener, 0, len(chains))
	for _, client := range chains {
		l := listener.New(client, engine, lg)
		if err := l.Start(ctx); err != nil {
			lg.Error("Failed to start event listener: %v", err)
			os.Exit(1)
		}
		listeners = append(listeners, l)
	}

	// Start health monitoring server
	healthServer := health.NewServer(cfg.MetricsPort, chains, circuitBreakers, engine, cfg.MetricsAuthToken, lg)
	go healthServer.Start()

	// Start intent API server
	apiServer := api.NewServer(st, engine, cfg.AdminAPIKey, lg)
	go apiServer.Start(cfg.APIPort)

	lg.Notice("Coordinator started, watching chains %d and %d", sourceClient.ChainID, destClient.ChainID)

	// Wait for interrupt signal
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	sig := <-signalCh

	lg.Notice("Received signal %v, shutting down", sig)
	cancel()

	for _, l := range listeners {
		l.Stop()
	}
	engine.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		lg.Error("API server shutdown error: %v", err)
	}
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		lg.Error("Health server shutdown error: %v", err)
	}

	lg.Notice("Shutdown complete")
}
