// Package bridge provides a client for the cross-chain bridge relay API.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/syndicate-hq/coordinator/pkg/logger"
)

// Status is the relay state reported by the bridge for a deposit
type Status string

const (
	// StatusPending means the deposit is known to the bridge but not yet
	// relayed to the destination chain
	StatusPending Status = "PENDING"
	// StatusRelayed means the funds have arrived on the destination chain
	StatusRelayed Status = "RELAYED"
)

// StatusClient queries the bridge for the relay state of a deposit. The
// coordinator polls through this interface so tests can substitute a fake.
type StatusClient interface {
	DepositStatus(ctx context.Context, intentID string) (Status, error)
}

// DepositResponse represents the structure of the bridge API response
type DepositResponse struct {
	IntentID    string `json:"intent_id"`
	Status      string `json:"status"`
	RelayTxHash string `json:"relay_tx_hash,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// Client is an HTTP implementation of StatusClient
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     logger.Logger
}

// New creates a new bridge API client
func New(endpoint string, log logger.Logger) *Client {
	if log == nil {
		log = &logger.EmptyLogger{}
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: createHTTPClient(),
		logger:     log,
	}
}

// DepositStatus fetches the relay state of the deposit backing an intent
func (c *Client) DepositStatus(ctx context.Context, intentID string) (Status, error) {
	reqURL := fmt.Sprintf("%s/api/v1/deposits/%s", c.endpoint, url.PathEscape(intentID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build deposit status request: %v", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch deposit status: %v", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			c.logger.Error("Failed to close response body: %v", err)
		}
	}(resp.Body)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var depositResp DepositResponse
	if err := json.Unmarshal(bodyBytes, &depositResp); err != nil {
		return "", fmt.Errorf("failed to decode deposit status: %v, body: %s", err, string(bodyBytes))
	}

	switch Status(depositResp.Status) {
	case StatusPending:
		return StatusPending, nil
	case StatusRelayed:
		return StatusRelayed, nil
	default:
		return "", fmt.Errorf("unknown deposit status %q for intent %s", depositResp.Status, intentID)
	}
}

// Helper function to create an HTTP client with timeouts
func createHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
