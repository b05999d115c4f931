// Package health exposes the health, readiness and status endpoints plus the
// authenticated Prometheus metrics handler.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/syndicate-hq/coordinator/pkg/chainclient"
	"github.com/syndicate-hq/coordinator/pkg/circuitbreaker"
	"github.com/syndicate-hq/coordinator/pkg/logger"
)

// PollCounter reports how many bridge polls are outstanding. The engine
// satisfies this.
type PollCounter interface {
	PendingPolls() int
}

// Server represents a health check HTTP server
type Server struct {
	port            string
	chains          map[int]*chainclient.Client
	circuitBreakers map[int]*circuitbreaker.CircuitBreaker
	engine          PollCounter
	metricsAPIKey   string
	logger          logger.Logger
	httpServer      *http.Server
}

// NewServer creates a new health check server
func NewServer(port string, chains map[int]*chainclient.Client, circuitBreakers map[int]*circuitbreaker.CircuitBreaker, engine PollCounter, metricsAPIKey string, log logger.Logger) *Server {
	if log == nil {
		log = &logger.EmptyLogger{}
	}
	return &Server{
		port:            port,
		chains:          chains,
		circuitBreakers: circuitBreakers,
		engine:          engine,
		metricsAPIKey:   metricsAPIKey,
		logger:          log,
	}
}

// metricsAuthMiddleware is a middleware that checks for a valid API key
func (s *Server) metricsAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip auth if no API key is configured
		if s.metricsAPIKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		// Get API key from Authorization header
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Missing Authorization header", http.StatusUnauthorized)
			return
		}

		// Check if the header has the correct format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
			return
		}

		// Validate API key
		if parts[1] != s.metricsAPIKey {
			http.Error(w, "Invalid API key", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Start starts the health check server. It blocks until the server exits.
func (s *Server) Start() {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Readiness check
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		// Check if all chain clients are connected
		for chainID, client := range s.chains {
			if client.Client == nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(fmt.Sprintf("Chain %d client not connected", chainID)))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Ready"))
	})

	// Chain status endpoint
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		status := make(map[string]interface{})

		for chainID, client := range s.chains {
			circuitStatus := "closed"
			if cb, ok := s.circuitBreakers[chainID]; ok && cb.IsOpen() {
				circuitStatus = "open"
			}

			chainStatus := map[string]interface{}{
				"rpc_url":          client.RPCURL,
				"resolver_address": client.ResolverAddress,
				"connected":        client.Client != nil,
				"circuit":          circuitStatus,
			}

			// Get latest block number if connected
			if client.Client != nil {
				blockNumber, err := client.GetLatestBlockNumber(r.Context())
				if err == nil {
					chainStatus["latest_block"] = blockNumber
				}
			}

			status[fmt.Sprintf("chain_%d", chainID)] = chainStatus
		}

		if s.engine != nil {
			status["pending_bridge_polls"] = s.engine.PendingPolls()
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status); err != nil {
			s.logger.Error("Error encoding status JSON: %v", err)
		}
	})

	// Circuit breaker admin control endpoint
	mux.HandleFunc("/circuit/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		chainIDStr := r.URL.Query().Get("chain")
		if chainIDStr == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("Missing chain parameter"))
			return
		}

		chainID, err := strconv.Atoi(chainIDStr)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("Invalid chain ID"))
			return
		}

		cb, ok := s.circuitBreakers[chainID]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(fmt.Sprintf("No circuit breaker for chain %d", chainID)))
			return
		}

		cb.Reset()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(fmt.Sprintf("Circuit breaker for chain %d reset", chainID)))
	})

	// Expose Prometheus metrics with API key authentication
	mux.Handle("/metrics", s.metricsAuthMiddleware(promhttp.Handler()))

	s.httpServer = &http.Server{Addr: ":" + s.port, Handler: mux}

	s.logger.Info("Starting health and metrics server on port %s", s.port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Health server error: %v", err)
	}
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
