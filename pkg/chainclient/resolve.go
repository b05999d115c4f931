package chainclient

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/syndicate-hq/coordinator/pkg/blockchain"
)

// ErrAlreadyExecuted is returned when the resolver contract reports the intent
// as already executed. Write calls are not idempotent at the chain level, so
// the executed flag is checked before every submission.
var ErrAlreadyExecuted = fmt.Errorf("intent already executed on chain")

// ResolveIntent submits a resolveIntent transaction for an intent requiring an
// off-chain-facilitated signature. The on-chain executed flag is checked first
// to avoid double-spends, and the nonce manager serializes submissions from the
// signer account.
func (c *Client) ResolveIntent(ctx context.Context, nm *blockchain.NonceManager, intentID string, signature []byte) (*types.Receipt, error) {
	if c.Auth == nil {
		return nil, fmt.Errorf("no signing key configured for chain %d", c.ChainID)
	}

	executed, err := c.ExecutedIntents(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check executed flag for intent %s: %v", intentID, err)
	}
	if executed {
		return nil, ErrAlreadyExecuted
	}

	// Best-effort refresh, the previous gas price is kept on failure
	_, _ = c.UpdateGasPrice(ctx)

	nonce, err := nm.GetNonce(ctx, c.ChainID, c.Client, c.Auth.From)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce for resolution: %v", err)
	}

	txOpts := *c.Auth
	txOpts.Nonce = big.NewInt(int64(nonce))
	txOpts.Context = ctx

	tx, err := c.Resolver.ResolveIntent(&txOpts, common.HexToHash(intentID), signature)
	if err != nil {
		return nil, fmt.Errorf("failed to submit resolution for intent %s: %v", intentID, err)
	}

	nm.TrackTransaction(c.ChainID, tx.Hash(), nonce)

	receipt, err := bind.WaitMined(ctx, c.Client, tx)
	if err != nil {
		nm.MarkTransactionFailed(c.ChainID, nonce)
		return nil, fmt.Errorf("failed to wait for resolution of intent %s: %v", intentID, err)
	}

	if receipt.Status == 0 {
		nm.MarkTransactionFailed(c.ChainID, nonce)
		return receipt, fmt.Errorf("resolution transaction reverted for intent %s: %s", intentID, tx.Hash().Hex())
	}

	nm.MarkTransactionConfirmed(c.ChainID, nonce)
	return receipt, nil
}
