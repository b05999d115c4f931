// Package listener subscribes to resolver contract events on a single chain
// and hands decoded events to the coordinator. Subscriptions are re-established
// with exponential backoff when the underlying websocket drops.
package listener

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/syndicate-hq/coordinator/pkg/chainclient"
	"github.com/syndicate-hq/coordinator/pkg/contracts"
	"github.com/syndicate-hq/coordinator/pkg/logger"
	"github.com/syndicate-hq/coordinator/pkg/models"
)

const (
	// eventBuffer sizes the sink channel per subscription so a slow handler
	// does not immediately stall log delivery
	eventBuffer = 64

	// maxResubscribeBackoff caps the exponential backoff between
	// resubscription attempts
	maxResubscribeBackoff = 30 * time.Second
)

// EventHandler receives decoded resolver events. Handlers must be idempotent:
// a resubscription can replay logs that were already delivered.
type EventHandler interface {
	HandleIntentSubmitted(ctx context.Context, ev models.IntentSubmittedEvent) error
	HandleCrossChainInitiated(ctx context.Context, ev models.CrossChainOperationInitiatedEvent) error
	HandleWinningTicket(ctx context.Context, ev models.WinningTicketDetectedEvent) error
}

// Listener watches the resolver contract on one chain
type Listener struct {
	client  *chainclient.Client
	handler EventHandler
	logger  logger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a listener for the given chain client
func New(client *chainclient.Client, handler EventHandler, log logger.Logger) *Listener {
	if log == nil {
		log = &logger.EmptyLogger{}
	}
	return &Listener{
		client:  client,
		handler: handler,
		logger:  log,
	}
}

// Start subscribes to all resolver events and begins delivering them. Events
// before the current head are skipped; historical state is recovered from the
// store, not from log replay.
func (l *Listener) Start(ctx context.Context) error {
	startBlock, err := l.client.GetLatestBlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("failed to get start block on chain %d: %v", l.client.ChainID, err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel

	l.logger.InfoWithChain(l.client.ChainID, "Starting event subscriptions from block %d", startBlock)

	l.wg.Add(3)
	go l.watchIntentSubmitted(watchCtx, startBlock)
	go l.watchCrossChainInitiated(watchCtx, startBlock)
	go l.watchWinningTicket(watchCtx, startBlock)

	return nil
}

// Stop cancels all subscriptions and waits for the watch loops to exit
func (l *Listener) Stop() {
	if l.cancel != nil {
		l.cancel()
	}
	l.wg.Wait()
}

func (l *Listener) watchIntentSubmitted(ctx context.Context, start uint64) {
	defer l.wg.Done()

	sink := make(chan *contracts.ResolverIntentSubmitted, eventBuffer)
	attempt := 0

	for ctx.Err() == nil {
		opts := &bind.WatchOpts{Start: &start, Context: ctx}
		sub, err := l.client.Resolver.WatchIntentSubmitted(opts, sink, nil, nil)
		if err != nil {
			if !l.waitBackoff(ctx, "IntentSubmitted", attempt, err) {
				return
			}
			attempt++
			continue
		}
		attempt = 0

	recv:
		for {
			select {
			case err := <-sub.Err():
				if err != nil {
					l.logger.ErrorWithChain(l.client.ChainID, "Subscription error on IntentSubmitted: %v", err)
				}
				sub.Unsubscribe()
				break recv
			case ev := <-sink:
				l.advance(&start, ev.Raw)
				l.deliverIntentSubmitted(ctx, ev)
			case <-ctx.Done():
				sub.Unsubscribe()
				return
			}
		}
	}
}

func (l *Listener) watchCrossChainInitiated(ctx context.Context, start uint64) {
	defer l.wg.Done()

	sink := make(chan *contracts.ResolverCrossChainOperationInitiated, eventBuffer)
	attempt := 0

	for ctx.Err() == nil {
		opts := &bind.WatchOpts{Start: &start, Context: ctx}
		sub, err := l.client.Resolver.WatchCrossChainOperationInitiated(opts, sink, nil)
		if err != nil {
			if !l.waitBackoff(ctx, "CrossChainOperationInitiated", attempt, err) {
				return
			}
			attempt++
			continue
		}
		attempt = 0

	recv:
		for {
			select {
			case err := <-sub.Err():
				if err != nil {
					l.logger.ErrorWithChain(l.client.ChainID, "Subscription error on CrossChainOperationInitiated: %v", err)
				}
				sub.Unsubscribe()
				break recv
			case ev := <-sink:
				l.advance(&start, ev.Raw)
				l.deliverCrossChainInitiated(ctx, ev)
			case <-ctx.Done():
				sub.Unsubscribe()
				return
			}
		}
	}
}

func (l *Listener) watchWinningTicket(ctx context.Context, start uint64) {
	defer l.wg.Done()

	sink := make(chan *contracts.ResolverWinningTicketDetected, eventBuffer)
	attempt := 0

	for ctx.Err() == nil {
		opts := &bind.WatchOpts{Start: &start, Context: ctx}
		sub, err := l.client.Resolver.WatchWinningTicketDetected(opts, sink, nil)
		if err != nil {
			if !l.waitBackoff(ctx, "WinningTicketDetected", attempt, err) {
				return
			}
			attempt++
			continue
		}
		attempt = 0

	recv:
		for {
			select {
			case err := <-sub.Err():
				if err != nil {
					l.logger.ErrorWithChain(l.client.ChainID, "Subscription error on WinningTicketDetected: %v", err)
				}
				sub.Unsubscribe()
				break recv
			case ev := <-sink:
				l.advance(&start, ev.Raw)
				l.deliverWinningTicket(ctx, ev)
			case <-ctx.Done():
				sub.Unsubscribe()
				return
			}
		}
	}
}

// waitBackoff sleeps for an exponentially increasing interval after a failed
// subscription attempt. Returns false when the context is cancelled.
func (l *Listener) waitBackoff(ctx context.Context, name string, attempt int, err error) bool {
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > maxResubscribeBackoff {
		backoff = maxResubscribeBackoff
	}

	l.logger.ErrorWithChain(l.client.ChainID, "Failed to subscribe to %s: %v. Retrying in %v", name, err, backoff)

	select {
	case <-time.After(backoff):
		return true
	case <-ctx.Done():
		return false
	}
}

// advance moves the resubscription start block up to the delivered log so a
// reconnect does not replay the whole chain. The same block can still be
// replayed, which is why handlers must be idempotent.
func (l *Listener) advance(start *uint64, raw types.Log) {
	if raw.BlockNumber > *start {
		*start = raw.BlockNumber
	}
}

func (l *Listener) deliverIntentSubmitted(ctx context.Context, ev *contracts.ResolverIntentSubmitted) {
	decoded := models.IntentSubmittedEvent{
		IntentID:   common.Hash(ev.IntentId).Hex(),
		User:       ev.User.Hex(),
		IntentType: models.IntentTypeFromCode(ev.IntentType),
		Meta:       l.logMeta(ev.Raw),
	}

	if err := l.handler.HandleIntentSubmitted(ctx, decoded); err != nil {
		l.logger.ErrorWithChain(l.client.ChainID, "Failed to handle IntentSubmitted for %s: %v", decoded.IntentID, err)
	}
}

func (l *Listener) deliverCrossChainInitiated(ctx context.Context, ev *contracts.ResolverCrossChainOperationInitiated) {
	decoded := models.CrossChainOperationInitiatedEvent{
		IntentID:         common.Hash(ev.IntentId).Hex(),
		SourceChain:      int(ev.SourceChain),
		DestinationChain: int(ev.DestinationChain),
		Meta:             l.logMeta(ev.Raw),
	}

	if err := l.handler.HandleCrossChainInitiated(ctx, decoded); err != nil {
		l.logger.ErrorWithChain(l.client.ChainID, "Failed to handle CrossChainOperationInitiated for %s: %v", decoded.IntentID, err)
	}
}

func (l *Listener) deliverWinningTicket(ctx context.Context, ev *contracts.ResolverWinningTicketDetected) {
	decoded := models.WinningTicketDetectedEvent{
		TicketID: ev.TicketId.String(),
		Amount:   ev.Amount.String(),
		Meta:     l.logMeta(ev.Raw),
	}

	if err := l.handler.HandleWinningTicket(ctx, decoded); err != nil {
		l.logger.ErrorWithChain(l.client.ChainID, "Failed to handle WinningTicketDetected for ticket %s: %v", decoded.TicketID, err)
	}
}

func (l *Listener) logMeta(raw types.Log) models.LogMeta {
	return models.LogMeta{
		ChainID:     l.client.ChainID,
		BlockNumber: raw.BlockNumber,
		TxHash:      raw.TxHash.Hex(),
		LogIndex:    raw.Index,
	}
}
