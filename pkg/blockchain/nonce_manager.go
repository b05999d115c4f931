// Package blockchain provides nonce management for signer accounts. Write
// transactions from one account must be submitted with sequential nonces, so
// all submissions funnel through a per-chain allocator.
package blockchain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/syndicate-hq/coordinator/pkg/logger"
)

// TransactionStatus represents the status of a tracked transaction
type TransactionStatus int

const (
	// TxPending indicates transaction is pending
	TxPending TransactionStatus = iota
	// TxConfirmed indicates transaction is confirmed
	TxConfirmed
	// TxFailed indicates transaction has failed
	TxFailed
	// TxTimedOut indicates transaction has timed out
	TxTimedOut
)

// TransactionRecord tracks details about a submitted transaction
type TransactionRecord struct {
	Hash      common.Hash
	Nonce     uint64
	CreatedAt time.Time
	UpdatedAt time.Time
	Status    TransactionStatus
}

// NonceManager handles nonce allocation and tracking across chains
type NonceManager struct {
	chains    map[int]*chainNonceData
	mu        sync.RWMutex
	txTimeout time.Duration
	logger    logger.Logger
}

// chainNonceData holds nonce data for a specific chain
type chainNonceData struct {
	// Next nonce to hand out
	currentNonce uint64
	// Pending transactions by nonce
	pendingTxs map[uint64]*TransactionRecord
	// Last time the counter was synchronized with the chain
	lastSync time.Time
	mu       sync.Mutex
}

// NewNonceManager creates a new nonce manager
func NewNonceManager(log logger.Logger) *NonceManager {
	if log == nil {
		log = &logger.EmptyLogger{}
	}
	return &NonceManager{
		chains:    make(map[int]*chainNonceData),
		txTimeout: 5 * time.Minute,
		logger:    log,
	}
}

// SetTransactionTimeout sets the timeout after which a pending transaction is
// considered stuck
func (nm *NonceManager) SetTransactionTimeout(timeout time.Duration) {
	nm.txTimeout = timeout
}

// chainData returns the nonce data for a chain, initializing it on first use
func (nm *NonceManager) chainData(chainID int) *chainNonceData {
	nm.mu.RLock()
	data, exists := nm.chains[chainID]
	nm.mu.RUnlock()
	if exists {
		return data
	}

	nm.mu.Lock()
	defer nm.mu.Unlock()
	if data, exists = nm.chains[chainID]; exists {
		return data
	}
	data = &chainNonceData{
		pendingTxs: make(map[uint64]*TransactionRecord),
	}
	nm.chains[chainID] = data
	return data
}

// GetNonce reserves and returns the next available nonce for the signer address
func (nm *NonceManager) GetNonce(ctx context.Context, chainID int, client *ethclient.Client, address common.Address) (uint64, error) {
	chainData := nm.chainData(chainID)

	chainData.mu.Lock()
	defer chainData.mu.Unlock()

	// Resync with the chain on first use and periodically thereafter
	if chainData.lastSync.IsZero() || time.Since(chainData.lastSync) > 5*time.Minute {
		nonce, err := client.PendingNonceAt(ctx, address)
		if err != nil {
			return 0, fmt.Errorf("failed to get pending nonce: %v", err)
		}

		if nonce > chainData.currentNonce {
			nm.logger.DebugWithChain(chainID, "Updating nonce: %d -> %d", chainData.currentNonce, nonce)
			chainData.currentNonce = nonce
		}
		chainData.lastSync = time.Now()
	}

	nonce := chainData.currentNonce
	chainData.currentNonce++
	return nonce, nil
}

// TrackTransaction records a newly submitted transaction
func (nm *NonceManager) TrackTransaction(chainID int, txHash common.Hash, nonce uint64) {
	chainData := nm.chainData(chainID)

	chainData.mu.Lock()
	defer chainData.mu.Unlock()

	now := time.Now()
	chainData.pendingTxs[nonce] = &TransactionRecord{
		Hash:      txHash,
		Nonce:     nonce,
		CreatedAt: now,
		UpdatedAt: now,
		Status:    TxPending,
	}

	nm.logger.DebugWithChain(chainID, "Tracking transaction with nonce %d: %s", nonce, txHash.Hex())
}

// MarkTransactionConfirmed marks a tracked transaction as confirmed
func (nm *NonceManager) MarkTransactionConfirmed(chainID int, nonce uint64) bool {
	chainData := nm.chainData(chainID)

	chainData.mu.Lock()
	defer chainData.mu.Unlock()

	tx, exists := chainData.pendingTxs[nonce]
	if !exists {
		nm.logger.ErrorWithChain(chainID, "No pending transaction found for nonce %d", nonce)
		return false
	}

	nm.logger.DebugWithChain(chainID, "Transaction confirmed for nonce %d: %s", nonce, tx.Hash.Hex())
	delete(chainData.pendingTxs, nonce)
	return true
}

// MarkTransactionFailed marks a tracked transaction as failed. When the failed
// transaction holds the lowest pending nonce, that nonce is released for reuse.
func (nm *NonceManager) MarkTransactionFailed(chainID int, nonce uint64) {
	chainData := nm.chainData(chainID)

	chainData.mu.Lock()
	defer chainData.mu.Unlock()

	tx, exists := chainData.pendingTxs[nonce]
	if !exists {
		nm.logger.ErrorWithChain(chainID, "No pending transaction found for nonce %d", nonce)
		return
	}

	nm.logger.DebugWithChain(chainID, "Transaction failed for nonce %d: %s", nonce, tx.Hash.Hex())

	if lowest, ok := lowestPendingNonce(chainData); ok && nonce == lowest {
		chainData.currentNonce = nonce
		nm.logger.DebugWithChain(chainID, "Reusing nonce %d after transaction failure", nonce)
	}
	delete(chainData.pendingTxs, nonce)
}

// FindTimeoutTransactions marks and returns transactions pending longer than
// the configured timeout
func (nm *NonceManager) FindTimeoutTransactions(chainID int) []uint64 {
	chainData := nm.chainData(chainID)

	chainData.mu.Lock()
	defer chainData.mu.Unlock()

	now := time.Now()
	var timedOutNonces []uint64

	for nonce, tx := range chainData.pendingTxs {
		if tx.Status == TxPending && now.Sub(tx.CreatedAt) > nm.txTimeout {
			tx.Status = TxTimedOut
			tx.UpdatedAt = now
			nm.logger.ErrorWithChain(chainID, "Transaction timed out for nonce %d: %s", nonce, tx.Hash.Hex())
			timedOutNonces = append(timedOutNonces, nonce)
		}
	}

	return timedOutNonces
}

// ReuseNonce releases a nonce back to the allocator when it holds the lowest
// pending slot
func (nm *NonceManager) ReuseNonce(chainID int, nonce uint64) {
	chainData := nm.chainData(chainID)

	chainData.mu.Lock()
	defer chainData.mu.Unlock()

	if lowest, ok := lowestPendingNonce(chainData); ok && nonce == lowest {
		if chainData.currentNonce > nonce {
			chainData.currentNonce = nonce
			nm.logger.DebugWithChain(chainID, "Nonce %d set for reuse", nonce)
		}
	} else {
		nm.logger.DebugWithChain(chainID, "Cannot reuse nonce %d, not the lowest pending", nonce)
	}

	delete(chainData.pendingTxs, nonce)
}

// SyncWithBlockchain synchronizes the nonce counter with the chain
func (nm *NonceManager) SyncWithBlockchain(ctx context.Context, chainID int, client *ethclient.Client, address common.Address) error {
	chainData := nm.chainData(chainID)

	chainData.mu.Lock()
	defer chainData.mu.Unlock()

	nonce, err := client.PendingNonceAt(ctx, address)
	if err != nil {
		return fmt.Errorf("failed to get pending nonce: %v", err)
	}

	if nonce > chainData.currentNonce {
		nm.logger.DebugWithChain(chainID, "Updating nonce: %d -> %d", chainData.currentNonce, nonce)
		chainData.currentNonce = nonce
	}

	chainData.lastSync = time.Now()
	return nil
}

// PendingTransactionCount returns the number of tracked pending transactions
func (nm *NonceManager) PendingTransactionCount(chainID int) int {
	chainData := nm.chainData(chainID)

	chainData.mu.Lock()
	defer chainData.mu.Unlock()

	return len(chainData.pendingTxs)
}

// lowestPendingNonce finds the lowest nonce that is still pending
func lowestPendingNonce(chainData *chainNonceData) (uint64, bool) {
	var lowest uint64
	found := false

	for nonce := range chainData.pendingTxs {
		if !found || nonce < lowest {
			lowest = nonce
			found = true
		}
	}

	return lowest, found
}
