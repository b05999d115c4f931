package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/syndicate-hq/coordinator/pkg/chainclient"
	"github.com/syndicate-hq/coordinator/pkg/metrics"
	"github.com/syndicate-hq/coordinator/pkg/models"
	"github.com/syndicate-hq/coordinator/pkg/store"
)

// ErrCircuitOpen is returned when the destination chain's write path is
// gated off after repeated failures
var ErrCircuitOpen = errors.New("resolution circuit breaker is open")

// ResolveIntent submits the on-chain resolution for an intent requiring an
// off-chain-facilitated signature. The destination chain's circuit breaker
// gates the write, and the contract-level executed flag prevents double
// submission.
func (e *Engine) ResolveIntent(ctx context.Context, intentID string, signature []byte) error {
	unlock := e.locks.lock(intentID)
	defer unlock()

	intent, err := e.store.GetIntent(ctx, intentID)
	if err != nil {
		return err
	}
	if intent.Status.IsTerminal() {
		return store.ErrIntentTerminal
	}

	chainID := intent.DestinationChain
	chainLabel := strconv.Itoa(chainID)

	resolver, ok := e.resolvers[chainID]
	if !ok {
		return fmt.Errorf("no signing client configured for chain %d", chainID)
	}

	if br := e.breakers[chainID]; br != nil && br.IsOpen() {
		metrics.ResolutionsSubmitted.WithLabelValues(chainLabel, "circuit_open").Inc()
		return ErrCircuitOpen
	}

	receipt, err := resolver.ResolveIntent(ctx, e.nonce, intentID, signature)
	if err != nil {
		if errors.Is(err, chainclient.ErrAlreadyExecuted) {
			metrics.ResolutionsSubmitted.WithLabelValues(chainLabel, "already_executed").Inc()
			e.logger.NoticeWithChain(chainID, "Intent %s already executed on chain, skipping resolution", intentID)
			return nil
		}
		if br := e.breakers[chainID]; br != nil {
			br.RecordFailure()
		}
		metrics.ResolutionsSubmitted.WithLabelValues(chainLabel, "error").Inc()
		return fmt.Errorf("failed to resolve intent %s: %v", intentID, err)
	}

	tx := &models.Transaction{
		IntentID:    intentID,
		ChainID:     chainID,
		TxHash:      receipt.TxHash.Hex(),
		Type:        models.TransactionTypeIntentSubmission,
		Status:      models.TransactionStatusConfirmed,
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     strconv.FormatUint(receipt.GasUsed, 10),
	}
	if err := e.store.CreateTransaction(ctx, tx); err != nil {
		e.logger.ErrorWithChain(chainID, "Resolution mined for intent %s but transaction record failed: %v", intentID, err)
	}

	// Same-chain intents have no bridge leg; the resolution itself completes
	// them. Cross-chain completion stays with the bridge poll.
	if !intent.IsCrossChain() {
		if err := e.store.UpdateIntentStatus(ctx, intentID, models.IntentStatusCompleted); err != nil {
			e.logger.ErrorWithChain(chainID, "Failed to complete resolved intent %s: %v", intentID, err)
		} else {
			metrics.IntentsCompleted.WithLabelValues(strconv.Itoa(intent.SourceChain)).Inc()
		}
	}

	metrics.ResolutionsSubmitted.WithLabelValues(chainLabel, "submitted").Inc()
	e.logger.NoticeWithChain(chainID, "Resolution for intent %s mined in block %d (%s)", intentID, receipt.BlockNumber.Uint64(), receipt.TxHash.Hex())
	return nil
}
