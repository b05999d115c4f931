package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/syndicate-hq/coordinator/pkg/logger"
)

// Config holds the configuration for the coordinator service
type Config struct {
	DatabaseDSN    string
	UseMemoryStore bool
	BridgeEndpoint string
	PrivateKey     string
	SourceChain    ChainConfig
	DestChain      ChainConfig
	GasMultiplier  float64

	PendingPollInterval time.Duration
	ErrorPollInterval   time.Duration
	MaxPollAttempts     int

	MetricsPort      string
	APIPort          string
	MetricsAuthToken string
	AdminAPIKey      string
	CircuitBreaker   CircuitBreakerConfig
	LoggerConfig     LoggerConfig
}

// CircuitBreakerConfig holds circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled        bool
	Threshold      int
	WindowDuration time.Duration
	ResetTimeout   time.Duration
}

// LoggerConfig holds the configuration for logging
type LoggerConfig struct {
	Level    logger.Level
	Coloring bool
}

// ChainConfig holds the configuration for a specific blockchain
type ChainConfig struct {
	ChainID         int
	RPCURL          string
	ResolverAddress string
	RegistryAddress string
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	sourceChain, err := GetEnvChainConfig("SOURCE")
	if err != nil {
		return nil, err
	}

	destChain, err := GetEnvChainConfig("DESTINATION")
	if err != nil {
		return nil, err
	}

	bridgeEndpoint, err := GetEnvBridgeEndpoint()
	if err != nil {
		return nil, err
	}

	gasMultiplier, err := GetEnvGasMultiplier()
	if err != nil {
		return nil, err
	}

	pendingPoll, err := GetEnvSecondsDuration("PENDING_POLL_INTERVAL", DefaultPendingPollInterval)
	if err != nil {
		return nil, err
	}

	errorPoll, err := GetEnvSecondsDuration("ERROR_POLL_INTERVAL", DefaultErrorPollInterval)
	if err != nil {
		return nil, err
	}

	maxPollAttempts, err := GetEnvMaxPollAttempts()
	if err != nil {
		return nil, err
	}

	metricsPort, err := GetEnvPort("METRICS_PORT", DefaultMetricsPort)
	if err != nil {
		return nil, err
	}

	apiPort, err := GetEnvPort("API_PORT", DefaultAPIPort)
	if err != nil {
		return nil, err
	}

	cbEnabled, err := GetEnvCircuitBreakerEnabled()
	if err != nil {
		return nil, err
	}

	cbThreshold, err := GetEnvCircuitBreakerThreshold()
	if err != nil {
		return nil, err
	}

	cbWindow, err := GetEnvDuration("CIRCUIT_BREAKER_WINDOW", DefaultCircuitBreakerWindow*time.Second)
	if err != nil {
		return nil, err
	}

	cbReset, err := GetEnvDuration("CIRCUIT_BREAKER_RESET", DefaultCircuitBreakerReset*time.Second)
	if err != nil {
		return nil, err
	}

	logLevel, err := GetEnvLogLevel()
	if err != nil {
		return nil, err
	}

	logColoring, err := GetEnvLogColoring()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseDSN:         os.Getenv("DATABASE_DSN"),
		UseMemoryStore:      os.Getenv("STORE_BACKEND") == "memory",
		BridgeEndpoint:      bridgeEndpoint,
		PrivateKey:          os.Getenv("PRIVATE_KEY"),
		SourceChain:         sourceChain,
		DestChain:           destChain,
		GasMultiplier:       gasMultiplier,
		PendingPollInterval: pendingPoll,
		ErrorPollInterval:   errorPoll,
		MaxPollAttempts:     maxPollAttempts,
		MetricsPort:         metricsPort,
		APIPort:             apiPort,
		MetricsAuthToken:    os.Getenv("METRICS_AUTH_TOKEN"),
		AdminAPIKey:         os.Getenv("ADMIN_API_KEY"),
		CircuitBreaker: CircuitBreakerConfig{
			Enabled:        cbEnabled,
			Threshold:      cbThreshold,
			WindowDuration: cbWindow,
			ResetTimeout:   cbReset,
		},
		LoggerConfig: LoggerConfig{
			Level:    logLevel,
			Coloring: logColoring,
		},
	}

	// Validate required environment variables
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig validates the configuration. The process refuses to start on
// missing required values rather than running degraded.
func validateConfig(cfg *Config) error {
	if cfg.PrivateKey == "" {
		return fmt.Errorf("PRIVATE_KEY environment variable is required")
	}
	if cfg.DatabaseDSN == "" && !cfg.UseMemoryStore {
		return fmt.Errorf("DATABASE_DSN environment variable is required (or set STORE_BACKEND=memory)")
	}
	if cfg.SourceChain.ChainID == cfg.DestChain.ChainID {
		return fmt.Errorf("SOURCE_CHAIN_ID and DESTINATION_CHAIN_ID must differ")
	}
	return nil
}
