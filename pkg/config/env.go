package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/syndicate-hq/coordinator/pkg/logger"
)

const (
	// DefaultBridgeEndpoint defines the default endpoint for the bridge relay API
	DefaultBridgeEndpoint = "https://bridge.syndicate-hq.io"

	// DefaultGasMultiplier defines the buffer applied over the suggested gas price
	DefaultGasMultiplier = 1.1

	// DefaultPendingPollInterval defines the delay in seconds between bridge polls
	// while a deposit is still pending
	DefaultPendingPollInterval = 60

	// DefaultErrorPollInterval defines the delay in seconds after a failed
	// bridge status query
	DefaultErrorPollInterval = 300

	// DefaultMaxPollAttempts defines the bridge poll cap; 0 polls until relayed
	DefaultMaxPollAttempts = 0

	// DefaultMetricsPort defines the default port for the health and metrics server
	DefaultMetricsPort = "8080"

	// DefaultAPIPort defines the default port for the intent API server
	DefaultAPIPort = "8000"

	// DefaultCircuitBreakerEnabled defines whether the circuit breaker is enabled
	DefaultCircuitBreakerEnabled = true

	// DefaultCircuitBreakerThreshold defines the number of failures before the circuit breaker trips
	DefaultCircuitBreakerThreshold = 5

	// DefaultCircuitBreakerWindow defines the time window in seconds for the circuit breaker
	DefaultCircuitBreakerWindow = 5

	// DefaultCircuitBreakerReset defines the reset timeout in seconds for the circuit breaker
	DefaultCircuitBreakerReset = 15
)

// GetEnvChainConfig reads one chain's configuration using the given env prefix
// (SOURCE or DESTINATION). Chain ID, RPC URL and resolver address are required.
func GetEnvChainConfig(prefix string) (ChainConfig, error) {
	chainIDStr := os.Getenv(prefix + "_CHAIN_ID")
	if chainIDStr == "" {
		return ChainConfig{}, fmt.Errorf("%s_CHAIN_ID environment variable is required", prefix)
	}
	chainID, err := strconv.Atoi(chainIDStr)
	if err != nil || chainID <= 0 {
		return ChainConfig{}, fmt.Errorf("invalid %s_CHAIN_ID value: %s, must be a positive integer", prefix, chainIDStr)
	}

	rpcURL := os.Getenv(prefix + "_RPC_URL")
	if rpcURL == "" {
		return ChainConfig{}, fmt.Errorf("%s_RPC_URL environment variable is required", prefix)
	}

	resolver := os.Getenv(prefix + "_RESOLVER_ADDRESS")
	if resolver == "" {
		return ChainConfig{}, fmt.Errorf("%s_RESOLVER_ADDRESS environment variable is required", prefix)
	}
	if !common.IsHexAddress(resolver) {
		return ChainConfig{}, fmt.Errorf("invalid %s_RESOLVER_ADDRESS value: %s, must be a valid address", prefix, resolver)
	}

	registry := os.Getenv(prefix + "_REGISTRY_ADDRESS")
	if registry != "" && !common.IsHexAddress(registry) {
		return ChainConfig{}, fmt.Errorf("invalid %s_REGISTRY_ADDRESS value: %s, must be a valid address", prefix, registry)
	}

	return ChainConfig{
		ChainID:         chainID,
		RPCURL:          rpcURL,
		ResolverAddress: resolver,
		RegistryAddress: registry,
	}, nil
}

// GetEnvBridgeEndpoint returns the bridge API endpoint from environment variables
func GetEnvBridgeEndpoint() (string, error) {
	endpoint := os.Getenv("BRIDGE_API_ENDPOINT")
	if endpoint == "" {
		return DefaultBridgeEndpoint, nil
	}

	// Validate URL format
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return "", fmt.Errorf("invalid BRIDGE_API_ENDPOINT value: %s, must be a valid URL", endpoint)
	}
	return endpoint, nil
}

// GetEnvGasMultiplier returns the gas price multiplier from environment variables
func GetEnvGasMultiplier() (float64, error) {
	multiplier := os.Getenv("GAS_MULTIPLIER")
	if multiplier == "" {
		return DefaultGasMultiplier, nil
	}

	parsed, err := strconv.ParseFloat(multiplier, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid GAS_MULTIPLIER value: %s, must be a number", multiplier)
	}
	if parsed < 1 {
		return 0, fmt.Errorf("GAS_MULTIPLIER must be at least 1")
	}
	return parsed, nil
}

// GetEnvSecondsDuration reads a duration expressed as an integer number of seconds
func GetEnvSecondsDuration(name string, defaultSeconds int) (time.Duration, error) {
	value := os.Getenv(name)
	if value == "" {
		return time.Duration(defaultSeconds) * time.Second, nil
	}

	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %s, must be an integer number of seconds", name, value)
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", name)
	}
	return time.Duration(seconds) * time.Second, nil
}

// GetEnvDuration reads a duration in Go duration string format
func GetEnvDuration(name string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %s, must be a valid duration string", name, value)
	}
	return parsed, nil
}

// GetEnvMaxPollAttempts returns the bridge poll cap from environment variables
func GetEnvMaxPollAttempts() (int, error) {
	value := os.Getenv("MAX_POLL_ATTEMPTS")
	if value == "" {
		return DefaultMaxPollAttempts, nil
	}

	attempts, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid MAX_POLL_ATTEMPTS value: %s, must be an integer", value)
	}
	if attempts < 0 {
		return 0, fmt.Errorf("MAX_POLL_ATTEMPTS must be greater than or equal to 0")
	}
	return attempts, nil
}

// GetEnvPort returns a validated port from environment variables
func GetEnvPort(name, defaultPort string) (string, error) {
	port := os.Getenv(name)
	if port == "" {
		return defaultPort, nil
	}

	// Validate port format
	if _, err := strconv.Atoi(port); err != nil {
		return "", fmt.Errorf("invalid %s value: %s, must be a valid integer", name, port)
	}
	return port, nil
}

// GetEnvCircuitBreakerEnabled returns whether the circuit breaker is enabled from environment variables
func GetEnvCircuitBreakerEnabled() (bool, error) {
	enabled := os.Getenv("CIRCUIT_BREAKER_ENABLED")
	if enabled == "" {
		return DefaultCircuitBreakerEnabled, nil
	}

	if enabled == "true" {
		return true, nil
	} else if enabled == "false" {
		return false, nil
	}

	return false, fmt.Errorf("invalid CIRCUIT_BREAKER_ENABLED value: %s, must be 'true' or 'false'", enabled)
}

// GetEnvCircuitBreakerThreshold returns the circuit breaker threshold from environment variables
func GetEnvCircuitBreakerThreshold() (int, error) {
	threshold := os.Getenv("CIRCUIT_BREAKER_THRESHOLD")
	if threshold == "" {
		return DefaultCircuitBreakerThreshold, nil
	}

	thresholdInt, err := strconv.Atoi(threshold)
	if err != nil {
		return 0, fmt.Errorf("invalid CIRCUIT_BREAKER_THRESHOLD value: %s, must be an integer", threshold)
	}
	if thresholdInt <= 0 {
		return 0, fmt.Errorf("CIRCUIT_BREAKER_THRESHOLD must be greater than 0")
	}
	return thresholdInt, nil
}

// GetEnvLogLevel returns the log level from environment variables
func GetEnvLogLevel() (logger.Level, error) {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return logger.InfoLevel, nil
	}

	switch level {
	case "debug", "info", "notice", "error":
		return logger.ParseLevel(level), nil
	}
	return 0, fmt.Errorf("invalid LOG_LEVEL value: %s, must be debug, info, notice or error", level)
}

// GetEnvLogColoring returns whether log coloring is enabled from environment variables
func GetEnvLogColoring() (bool, error) {
	coloring := os.Getenv("LOG_COLORING")
	if coloring == "" {
		return true, nil
	}

	if coloring == "true" {
		return true, nil
	} else if coloring == "false" {
		return false, nil
	}

	return false, fmt.Errorf("invalid LOG_COLORING value: %s, must be 'true' or 'false'", coloring)
}
