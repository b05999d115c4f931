// Package chainclient wraps the per-chain RPC connection, signing authority and
// contract bindings used by the coordinator.
package chainclient

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/syndicate-hq/coordinator/pkg/contracts"
)

// readCallTimeout bounds every read-only contract call so a stalled node
// cannot hang an event handler or the poll scheduler.
const readCallTimeout = 10 * time.Second

// Client contains the connection and contract bindings for a specific blockchain
type Client struct {
	ChainID         int
	RPCURL          string
	ResolverAddress string
	RegistryAddress string
	Client          *ethclient.Client
	Resolver        *contracts.Resolver
	Registry        *contracts.Registry
	Auth            *bind.TransactOpts
	GasMultiplier   float64
}

// New dials the chain and initializes the contract bindings. The registry
// address may be empty on chains that only host the resolver.
func New(ctx context.Context, chainID int, rpcURL, resolverAddress, registryAddress, privateKey string, gasMultiplier float64) (*Client, error) {
	if gasMultiplier <= 0 {
		gasMultiplier = 1.1
	}

	c := &Client{
		ChainID:         chainID,
		RPCURL:          rpcURL,
		ResolverAddress: resolverAddress,
		RegistryAddress: registryAddress,
		GasMultiplier:   gasMultiplier,
	}
	if err := c.connect(ctx, privateKey); err != nil {
		return nil, fmt.Errorf("failed to connect to chain %d: %v", chainID, err)
	}

	return c, nil
}

// connect establishes the RPC connection and initializes contract instances
func (c *Client) connect(ctx context.Context, privateKey string) error {
	client, err := ethclient.Dial(c.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to connect to client: %v", err)
	}
	c.Client = client

	if privateKey != "" {
		auth, err := createAuthenticator(ctx, client, privateKey)
		if err != nil {
			return fmt.Errorf("failed to create authenticator: %v", err)
		}
		c.Auth = auth
	}

	resolver, err := contracts.NewResolver(common.HexToAddress(c.ResolverAddress), client)
	if err != nil {
		return fmt.Errorf("failed to initialize resolver contract: %v", err)
	}
	c.Resolver = resolver

	if c.RegistryAddress != "" {
		registry, err := contracts.NewRegistry(common.HexToAddress(c.RegistryAddress), client)
		if err != nil {
			return fmt.Errorf("failed to initialize registry contract: %v", err)
		}
		c.Registry = registry
	}

	return nil
}

// GetIntent reads the full intent record from the resolver contract
func (c *Client) GetIntent(ctx context.Context, intentID string) (contracts.ResolverIntent, error) {
	callCtx, cancel := context.WithTimeout(ctx, readCallTimeout)
	defer cancel()

	return c.Resolver.GetIntent(&bind.CallOpts{Context: callCtx}, common.HexToHash(intentID))
}

// ExecutedIntents reads the on-chain already-executed flag for an intent
func (c *Client) ExecutedIntents(ctx context.Context, intentID string) (bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, readCallTimeout)
	defer cancel()

	return c.Resolver.ExecutedIntents(&bind.CallOpts{Context: callCtx}, common.HexToHash(intentID))
}

// TicketToSyndicate resolves the syndicate owning a ticket via the registry.
// The zero address means the ticket is not tracked.
func (c *Client) TicketToSyndicate(ctx context.Context, ticketID *big.Int) (common.Address, error) {
	if c.Registry == nil {
		return common.Address{}, fmt.Errorf("registry contract not configured for chain %d", c.ChainID)
	}

	callCtx, cancel := context.WithTimeout(ctx, readCallTimeout)
	defer cancel()

	return c.Registry.TicketToSyndicate(&bind.CallOpts{Context: callCtx}, ticketID)
}

// UpdateGasPrice updates the gas price based on current network conditions
func (c *Client) UpdateGasPrice(ctx context.Context) (*big.Int, error) {
	if c.Client == nil {
		return nil, fmt.Errorf("client not connected")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, readCallTimeout)
	defer cancel()

	gasPrice, err := c.Client.SuggestGasPrice(timeoutCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %v", err)
	}

	// Apply gas multiplier (e.g. 1.1 = 10% buffer)
	multipliedGasPrice := new(big.Float).Mul(
		new(big.Float).SetInt(gasPrice),
		big.NewFloat(c.GasMultiplier),
	)

	finalGasPrice := new(big.Int)
	multipliedGasPrice.Int(finalGasPrice)

	if c.Auth != nil {
		c.Auth.GasPrice = finalGasPrice
	}

	return finalGasPrice, nil
}

// GetLatestBlockNumber gets the latest block number from the chain
func (c *Client) GetLatestBlockNumber(ctx context.Context) (uint64, error) {
	if c.Client == nil {
		return 0, fmt.Errorf("client not connected")
	}

	return c.Client.BlockNumber(ctx)
}

// Helper function to create authenticator
func createAuthenticator(ctx context.Context, client *ethclient.Client, privateKeyHex string) (*bind.TransactOpts, error) {
	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %v", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %v", err)
	}

	auth, err := bind.NewKeyedTransactorWithChainID(privateKey, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %v", err)
	}

	return auth, nil
}
